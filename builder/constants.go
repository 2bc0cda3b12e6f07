// SPDX-License-Identifier: MIT
// Package builder defines shared constants used by the network constructors.

package builder

//-----------------------------------------------------------------------------
// Method names, used to prefix errors with the constructor name.
//-----------------------------------------------------------------------------

const (
	// MethodSprinkler is the canonical name for the Sprinkler constructor.
	MethodSprinkler = "Sprinkler"
	// MethodTrafficLight is the canonical name for the TrafficLight constructor.
	MethodTrafficLight = "TrafficLight"
	// MethodChain is the canonical name for the Chain constructor.
	MethodChain = "Chain"
	// MethodIsingGrid is the canonical name for the IsingGrid constructor.
	MethodIsingGrid = "IsingGrid"
	// MethodNoisyImage is the canonical name for the NoisyImage constructor.
	MethodNoisyImage = "NoisyImage"
	// MethodObserve is the canonical name for the Observe constructor.
	MethodObserve = "Observe"
)

//-----------------------------------------------------------------------------
// Variable labels of the fixed networks.
//-----------------------------------------------------------------------------

const (
	LabelCloudy    = "cloudy"
	LabelSprinkler = "sprinkler"
	LabelRain      = "rain"
	LabelWetGrass  = "wet_grass"

	LabelLight = "light"
	LabelHit   = "hit"
)

//-----------------------------------------------------------------------------
// Minimum sizes and Ising defaults.
//-----------------------------------------------------------------------------

// MinChainVariables is the smallest chain with at least one pairwise factor.
const MinChainVariables = 2

// MinGridDim is the smallest allowed rows or cols for IsingGrid.
// A 1×1 grid has no pairwise factor but is valid.
const MinGridDim = 1

// DefaultCoupling is the pairwise coupling used when WithCoupling is not set.
const DefaultCoupling = 0.8

// DefaultFieldScale is the unary field magnitude used when WithFieldScale is
// not set.
const DefaultFieldScale = 1.0

// MinProbability and MaxProbability bound NoisyImage's flip probability.
const (
	MinProbability = 0.0
	MaxProbability = 1.0
)
