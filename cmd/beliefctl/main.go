// SPDX-License-Identifier: MIT

// Command beliefctl builds a sample factor graph, runs sum-product belief
// propagation on it (optionally through a junction tree) and prints the
// variable marginals.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
