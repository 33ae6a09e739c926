// Package activations provides the activation functions used by dense layers.
package activations

import "math"

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// DerivativeFromOutput computes f'(x) given y = f(x)
	DerivativeFromOutput(y float64) float64
}

// Sigmoid activation function.
type Sigmoid struct{}

// sigmoid computes the logistic function 1/(1+e^-x).
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// DerivativeFromOutput computes the derivative from an already activated
// value y = sigmoid(x), avoiding a second exponential.
func (s Sigmoid) DerivativeFromOutput(y float64) float64 {
	return y * (1 - y)
}
