// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/builder"
	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/dobots/aim-sub000/internal/logging"
	"github.com/dobots/aim-sub000/internal/metrics"
	"github.com/dobots/aim-sub000/junction"
)

var runFlags struct {
	ticks    int
	workers  int
	junction bool
	observe  []string
	size     int
	flip     float64
	seed     int64
	markdown bool
}

var runCmd = &cobra.Command{
	Use:   "run <network>",
	Short: "Run belief propagation on a bundled network and print marginals",
	Long: "Run builds the named network (see 'beliefctl networks'), applies any\n" +
		"--observe evidence, moralizes it and ticks the engine until convergence\n" +
		"or the tick budget. With --junction the network is first compiled into a\n" +
		"junction tree, which makes the marginals exact on loopy graphs.",
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.ticks, "ticks", 0, "Tick budget (0 = engine.max_ticks from config)")
	f.IntVar(&runFlags.workers, "workers", 0, "Parallel node workers per tick (0 = config)")
	f.BoolVar(&runFlags.junction, "junction", false, "Run on the junction tree for exact marginals")
	f.StringArrayVar(&runFlags.observe, "observe", nil, "Evidence as label=state (repeatable)")
	f.IntVar(&runFlags.size, "size", 4, "Chain length or grid side")
	f.Float64Var(&runFlags.flip, "flip", 0.1, "Pixel flip probability for the grid network")
	f.Int64Var(&runFlags.seed, "seed", 0, "Random seed for the grid network (0 = config)")
	f.BoolVar(&runFlags.markdown, "markdown", false, "Render tables as Markdown")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.New("beliefctl")

	nw, ok := networks[args[0]]
	if !ok {
		return fmt.Errorf("unknown network %q (available: %s)", args[0], strings.Join(networkNames(), ", "))
	}
	cons := nw.build()
	for _, o := range runFlags.observe {
		label, state, err := parseObservation(o)
		if err != nil {
			return err
		}
		cons = append(cons, builder.Observe(label, state))
	}

	bopts := cfg.BuilderOptions()
	if runFlags.seed != 0 {
		bopts = append(bopts, builder.WithSeed(runFlags.seed))
	}
	g, err := builder.BuildGraph(nil, bopts, cons...)
	if err != nil {
		return fmt.Errorf("build %s: %w", args[0], err)
	}
	g.Moralize()

	opts := append(cfg.EngineOptions(), bp.WithLogger(logging.New("bp")))
	if runFlags.workers > 0 {
		opts = append(opts, bp.WithWorkers(runFlags.workers))
	}
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		opts = append(opts, bp.WithObserver(metrics.NewRecorder(reg)))
	}
	e := bp.New(opts...)

	budget := cfg.Engine.MaxTicks
	if runFlags.ticks > 0 {
		budget = runFlags.ticks
	}

	marginal := e.Marginal
	target := g
	if runFlags.junction {
		jt, err := junction.New(g)
		if err != nil {
			return fmt.Errorf("junction tree: %w", err)
		}
		log.Info("junction tree", "cliques", len(jt.Cliques()), "separators", len(jt.Separators()))
		target = jt.Graph()
		marginal = func(v factorgraph.NodeID) ([]float64, error) { return jt.Marginal(e, v) }
	}

	err = e.Run(cmd.Context(), target, budget)
	switch {
	case errors.Is(err, bp.ErrNotConverged):
		log.Warn("not converged, printing beliefs", "ticks", e.Ticks(), "delta", e.Delta())
	case err != nil:
		return err
	default:
		log.Info("converged", "ticks", e.Ticks(), "delta", e.Delta())
	}

	out := cmd.OutOrStdout()
	if err = printMarginals(out, g, marginal); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		return printMetrics(out, reg)
	}
	return nil
}

// printMarginals writes one row per source variable: label, distribution and
// most probable state.
func printMarginals(w io.Writer, g *factorgraph.Graph, marginal func(factorgraph.NodeID) ([]float64, error)) error {
	tb := newTable(runFlags.markdown)
	tb.header("Variable", "Marginal", "MAP")
	tb.alignRight(3)
	for _, v := range g.Variables() {
		n, err := g.Node(v)
		if err != nil {
			return err
		}
		p, err := marginal(v)
		if err != nil {
			return fmt.Errorf("marginal %s: %w", n.Label, err)
		}
		cells := make([]string, len(p))
		best := 0
		for s, x := range p {
			cells[s] = strconv.FormatFloat(x, 'f', 4, 64)
			if x > p[best] {
				best = s
			}
		}
		label := n.Label
		if label == "" {
			label = strconv.Itoa(int(v))
		}
		tb.row(label, "["+strings.Join(cells, " ")+"]", best)
	}
	_, err := fmt.Fprintln(w, tb.render())
	return err
}

// printMetrics summarizes the recorder's collectors.
func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	tb := newTable(runFlags.markdown)
	tb.header("Metric", "Value")
	tb.alignRight(2)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var v string
			switch {
			case m.GetCounter() != nil:
				v = strconv.FormatFloat(m.GetCounter().GetValue(), 'g', -1, 64)
			case m.GetGauge() != nil:
				v = strconv.FormatFloat(m.GetGauge().GetValue(), 'g', 4, 64)
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				v = fmt.Sprintf("n=%d sum=%.6fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			tb.row(mf.GetName(), v)
		}
	}
	_, err = fmt.Fprintln(w, tb.render())
	return err
}
