package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activator is a hidden-layer activation function. Deactivate takes the
// activated layer values and returns the derivative with respect to the
// pre-activation sums.
type Activator interface {
	Activate(i, j int, sum float64) float64
	Deactivate(m mat.Matrix) mat.Matrix
	fmt.Stringer
}

var ActivatorLookup = map[string]Activator{
	"sigmoid": Sigmoid{},
	"tanh":    Tanh{},
	"relu":    ReLU{},
}

type Sigmoid struct{}

func (s Sigmoid) Activate(i, j int, sum float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sum))
}

func (s Sigmoid) Deactivate(matrix mat.Matrix) mat.Matrix {
	// s' = s(1-s), computed from the activations themselves
	sigmoidPrime := func(i, j int, v float64) float64 {
		return v * (1 - v)
	}
	return apply(sigmoidPrime, matrix)
}

func (s Sigmoid) String() string {
	return "sigmoid"
}

type Tanh struct{}

func (t Tanh) Activate(i, j int, sum float64) float64 {
	return math.Tanh(sum)
}

func (t Tanh) Deactivate(matrix mat.Matrix) mat.Matrix {
	tanhPrime := func(i, j int, v float64) float64 {
		return 1.0 - v*v
	}
	return apply(tanhPrime, matrix)
}

func (t Tanh) String() string {
	return "tanh"
}

// ReLU is a leaky rectifier; the small negative slope keeps dead units
// trainable.
type ReLU struct{}

func (r ReLU) Activate(i, j int, sum float64) float64 {
	if sum < 0 {
		return 0.0001 * sum
	}
	return sum
}

func (r ReLU) Deactivate(matrix mat.Matrix) mat.Matrix {
	reluPrime := func(i, j int, v float64) float64 {
		if v < 0 {
			return 0.0001
		}
		return 1
	}
	return apply(reluPrime, matrix)
}

func (r ReLU) String() string {
	return "relu"
}
