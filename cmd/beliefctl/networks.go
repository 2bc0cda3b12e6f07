// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dobots/aim-sub000/builder"
)

// network describes one bundled model.
type network struct {
	summary string
	build   func() []builder.Constructor
}

var networks = map[string]network{
	"sprinkler": {
		summary: "cloudy, sprinkler, rain, wet_grass Bayesian network (loopy once moralized)",
		build:   func() []builder.Constructor { return []builder.Constructor{builder.Sprinkler()} },
	},
	"traffic": {
		summary: "traffic light and pedestrian hit, a two-variable tree",
		build:   func() []builder.Constructor { return []builder.Constructor{builder.TrafficLight()} },
	},
	"chain": {
		summary: "Ising chain of --size variables",
		build: func() []builder.Constructor {
			return []builder.Constructor{builder.Chain(runFlags.size)}
		},
	},
	"grid": {
		summary: "noisy two-region image on a --size × --size Ising grid",
		build: func() []builder.Constructor {
			return []builder.Constructor{builder.NoisyImage(runFlags.size, runFlags.size, runFlags.flip)}
		},
	},
}

func networkNames() []string {
	names := make([]string, 0, len(networks))
	for n := range networks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the bundled networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tb := newTable(runFlags.markdown)
		tb.header("Network", "Description")
		for _, n := range networkNames() {
			tb.row(n, networks[n].summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tb.render())
		return nil
	},
}

// parseObservation splits "label=state".
func parseObservation(s string) (string, int, error) {
	label, state, ok := strings.Cut(s, "=")
	if !ok || label == "" {
		return "", 0, fmt.Errorf("observation %q: want label=state", s)
	}
	n, err := strconv.Atoi(state)
	if err != nil {
		return "", 0, fmt.Errorf("observation %q: %w", s, err)
	}
	return label, n, nil
}
