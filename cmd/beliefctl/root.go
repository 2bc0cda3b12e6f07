// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dobots/aim-sub000/internal/config"
	"github.com/dobots/aim-sub000/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "beliefctl",
	Short: "Sum-product belief propagation on sample factor graphs",
	Long: "beliefctl builds one of the bundled networks, runs synchronous belief\n" +
		"propagation on it, directly or through a junction tree, and prints the marginals.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: loadConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "YAML configuration file")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "text or json (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	if rootFlags.config != "" {
		var err error
		if c, err = config.Load(rootFlags.config); err != nil {
			return err
		}
	}
	if rootFlags.logLevel != "" {
		c.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		c.Log.Format = rootFlags.logFormat
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	level, _ := logging.ParseLevel(c.Log.Level)
	logging.Init(level, c.Log.Format, cmd.ErrOrStderr())
	cfg = c

	return nil
}
