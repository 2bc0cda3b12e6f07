// SPDX-License-Identifier: MIT

package bp_test

import (
	"context"
	"fmt"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/builder"
)

// ExampleEngine_Run computes P(hit) for the traffic light network.
func ExampleEngine_Run() {
	g, err := builder.BuildGraph(nil, nil, builder.TrafficLight())
	if err != nil {
		fmt.Println(err)
		return
	}
	g.Moralize()

	e := bp.New()
	if err = e.Run(context.Background(), g, 10); err != nil {
		fmt.Println(err)
		return
	}
	hit, _ := g.Lookup(builder.LabelHit)
	p, _ := e.Marginal(hit)
	fmt.Printf("converged=%v P(hit)=[%.3f %.3f]\n", e.Converged(), p[0], p[1])
	// Output:
	// converged=true P(hit)=[0.428 0.572]
}
