// Package net provides the two-layer advisor network: its parameters, the
// forward pass and closed-form backpropagation.
package net

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/activations"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/layer"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/opt"
)

// Fixed topology.
const (
	InputSize  = dataset.NumFeatures
	HiddenSize = 3
	OutputSize = 1
)

// ErrShape is returned when parameter tensors do not match the topology.
var ErrShape = errors.New("parameter shape mismatch")

// Network computes y = sigmoid(W2·sigmoid(W1·x + b)).
// Parameter shapes are fixed at construction; only Step mutates them.
type Network struct {
	hidden *layer.Dense // W1 (HiddenSize×InputSize) and b
	output *layer.Dense // W2 (OutputSize×HiddenSize), no bias
}

// Params groups the three parameter tensors. The same type carries gradients.
type Params struct {
	W1 *mat.Dense
	B  *mat.VecDense
	W2 *mat.Dense
}

// Flatten returns W1, B and W2 concatenated in row-major order.
func (p *Params) Flatten() []float64 {
	out := make([]float64, 0, HiddenSize*InputSize+HiddenSize+OutputSize*HiddenSize)
	out = append(out, mat.DenseCopyOf(p.W1).RawMatrix().Data...)
	out = append(out, mat.VecDenseCopyOf(p.B).RawVector().Data...)
	out = append(out, mat.DenseCopyOf(p.W2).RawMatrix().Data...)
	return out
}

// New creates a network with Glorot-normal parameters drawn from src.
func New(src rand.Source) *Network {
	return &Network{
		hidden: layer.NewDense(InputSize, HiddenSize, activations.Sigmoid{}, true, src),
		output: layer.NewDense(HiddenSize, OutputSize, activations.Sigmoid{}, false, src),
	}
}

// FromParams creates a network holding copies of p.
func FromParams(p *Params) (*Network, error) {
	if p == nil || p.W1 == nil || p.B == nil || p.W2 == nil {
		return nil, fmt.Errorf("%w: missing tensor", ErrShape)
	}
	if r, c := p.W1.Dims(); r != HiddenSize || c != InputSize {
		return nil, fmt.Errorf("%w: W1 is %dx%d, want %dx%d", ErrShape, r, c, HiddenSize, InputSize)
	}
	if n := p.B.Len(); n != HiddenSize {
		return nil, fmt.Errorf("%w: b has %d values, want %d", ErrShape, n, HiddenSize)
	}
	if r, c := p.W2.Dims(); r != OutputSize || c != HiddenSize {
		return nil, fmt.Errorf("%w: W2 is %dx%d, want %dx%d", ErrShape, r, c, OutputSize, HiddenSize)
	}

	n := New(rand.NewPCG(0, 0))
	hidden := append(mat.DenseCopyOf(p.W1).RawMatrix().Data, mat.VecDenseCopyOf(p.B).RawVector().Data...)
	n.hidden.SetParams(hidden)
	n.output.SetParams(mat.DenseCopyOf(p.W2).RawMatrix().Data)
	return n, nil
}

// Params returns a copy of the current parameters.
func (n *Network) Params() *Params {
	return &Params{
		W1: n.hidden.Weights(),
		B:  n.hidden.Biases(),
		W2: n.output.Weights(),
	}
}

// Trace holds the intermediate values of one forward pass.
type Trace struct {
	X *mat.VecDense // normalised input
	H *mat.VecDense // hidden activation
	Y float64       // output probability

	hidden *layer.Trace
	output *layer.Trace
}

// Trace runs the forward pass and keeps what backpropagation needs.
func (n *Network) Trace(x mat.Vector) *Trace {
	h := n.hidden.Forward(x)
	y := n.output.Forward(h.Output)
	return &Trace{
		X:      h.Input,
		H:      h.Output,
		Y:      y.Output.AtVec(0),
		hidden: h,
		output: y,
	}
}

// Forward returns the output probability for a normalised input vector.
// It is a pure function of x and the current parameters.
func (n *Network) Forward(x mat.Vector) float64 {
	return n.Trace(x).Y
}

// Backward computes closed-form gradients of the binary cross-entropy for
// label yt from a trace produced by the current parameters:
//
//	dz2 = y - yt, dW2 = dz2·hᵀ, dh = W2ᵀ·dz2
//	dz1 = dh ⊙ h ⊙ (1-h), dW1 = dz1·xᵀ, db = dz1
func (n *Network) Backward(tr *Trace, yt float64) *Params {
	dz2 := mat.NewVecDense(OutputSize, []float64{tr.Y - yt})
	gOut, dh := n.output.BackwardPreAct(tr.output, dz2)
	gHidden, _ := n.hidden.Backward(tr.hidden, dh)
	return &Params{
		W1: gHidden.Weights,
		B:  gHidden.Biases,
		W2: gOut.Weights,
	}
}

// Step applies one optimizer update with gradients g.
func (n *Network) Step(o opt.Optimizer, g *Params) {
	n.hidden.Step(o, &layer.Gradients{Weights: g.W1, Biases: g.B})
	n.output.Step(o, &layer.Gradients{Weights: g.W2})
}

// Differentiator computes the parameter gradients for one labelled input and
// returns them with the prediction made before any update.
type Differentiator interface {
	Gradients(n *Network, x mat.Vector, yt float64) (*Params, float64, error)
}

// ClosedForm differentiates with the hand-derived backpropagation equations.
type ClosedForm struct{}

// Gradients implements Differentiator.
func (ClosedForm) Gradients(n *Network, x mat.Vector, yt float64) (*Params, float64, error) {
	tr := n.Trace(x)
	return n.Backward(tr, yt), tr.Y, nil
}

// TrainSample computes gradients with d and applies one update with o.
// It returns the prediction made before the update.
func (n *Network) TrainSample(x mat.Vector, yt float64, d Differentiator, o opt.Optimizer) (float64, error) {
	g, y, err := d.Gradients(n, x, yt)
	if err != nil {
		return 0, fmt.Errorf("gradients: %w", err)
	}
	n.Step(o, g)
	return y, nil
}
