package tensor_test

import (
	"fmt"

	"github.com/dobots/aim-sub000/tensor"
)

// ExampleTable_SumOut folds evidence over a traffic light into P(Hit | Light)
// and marginalizes the light away.
func ExampleTable_SumOut() {
	// 1) P(Hit | Light): Hit on axis 0 {no, yes}, Light on axis 1 {red, yellow, green}.
	cpt, _ := tensor.FromValues([]int{2, 3}, []float64{
		0.99, 0.01, // red
		0.90, 0.10, // yellow
		0.20, 0.80, // green
	})

	// 2) Evidence over the light.
	light, _ := tensor.Vector(0.2, 0.1, 0.7)
	_ = cpt.MultiplyBroadcast(light, []int{1})

	// 3) Push the sum in over the light axis.
	hit, _ := cpt.SumOut(1)
	fmt.Printf("P(Hit) = [%.3f %.3f]\n", hit.AtLinear(0), hit.AtLinear(1))

	// Output:
	// P(Hit) = [0.428 0.572]
}
