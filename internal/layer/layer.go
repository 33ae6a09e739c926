// Package layer provides the dense layer used by the advisor network.
package layer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/activations"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/opt"
)

// Dense is a fully connected layer computing act(W·x + b).
// Weights are stored as an out×in gonum matrix; the bias vector is optional.
type Dense struct {
	weights *mat.Dense
	biases  *mat.VecDense // nil when the layer has no bias
	act     activations.Activation
	outSize int
	inSize  int
}

// Trace holds the values seen by one forward pass. It is what Backward needs.
type Trace struct {
	Input  *mat.VecDense
	PreAct *mat.VecDense
	Output *mat.VecDense
}

// Gradients of the loss with respect to a layer's parameters.
type Gradients struct {
	Weights *mat.Dense
	Biases  *mat.VecDense // nil when the layer has no bias
}

// NewDense creates a dense layer with Glorot/Xavier-normal initialised
// parameters drawn from src. The bias vector, when enabled, is initialised the
// same way treating it as an out×1 matrix.
func NewDense(in, out int, act activations.Activation, bias bool, src rand.Source) *Dense {
	weights := mat.NewDense(out, in, glorotNormal(in, out, out*in, src))

	var biases *mat.VecDense
	if bias {
		biases = mat.NewVecDense(out, glorotNormal(1, out, out, src))
	}

	return &Dense{
		weights: weights,
		biases:  biases,
		act:     act,
		outSize: out,
		inSize:  in,
	}
}

// glorotNormal draws n values from N(0, 2/(fanIn+fanOut)).
func glorotNormal(fanIn, fanOut, n int, src rand.Source) []float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(fanIn+fanOut)),
		Src:   src,
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = dist.Rand()
	}
	return values
}

// Forward performs a forward pass through the dense layer.
// It does not modify the layer, so repeated calls with the same input give
// identical results.
func (d *Dense) Forward(x mat.Vector) *Trace {
	if x.Len() != d.inSize {
		panic(fmt.Sprintf("Dense.Forward: input size %d, want %d", x.Len(), d.inSize))
	}

	input := mat.VecDenseCopyOf(x)
	preAct := mat.NewVecDense(d.outSize, nil)
	preAct.MulVec(d.weights, input)
	if d.biases != nil {
		preAct.AddVec(preAct, d.biases)
	}

	output := mat.NewVecDense(d.outSize, nil)
	for o := 0; o < d.outSize; o++ {
		output.SetVec(o, d.act.Activate(preAct.AtVec(o)))
	}

	return &Trace{Input: input, PreAct: preAct, Output: output}
}

// Backward performs backpropagation given dL/d(output).
// It returns the parameter gradients and dL/d(input).
func (d *Dense) Backward(tr *Trace, grad mat.Vector) (*Gradients, *mat.VecDense) {
	deriv := mat.NewVecDense(d.outSize, nil)
	for o := 0; o < d.outSize; o++ {
		deriv.SetVec(o, d.act.DerivativeFromOutput(tr.Output.AtVec(o)))
	}

	dz := mat.NewVecDense(d.outSize, nil)
	dz.MulElemVec(grad, deriv)
	return d.BackwardPreAct(tr, dz)
}

// BackwardPreAct performs backpropagation given dL/dz, the gradient with
// respect to the pre-activation. Loss functions that fuse with the activation
// (binary cross-entropy after a sigmoid) enter here directly.
func (d *Dense) BackwardPreAct(tr *Trace, dz mat.Vector) (*Gradients, *mat.VecDense) {
	gradW := mat.NewDense(d.outSize, d.inSize, nil)
	gradW.Outer(1, dz, tr.Input)

	g := &Gradients{Weights: gradW}
	if d.biases != nil {
		g.Biases = mat.VecDenseCopyOf(dz)
	}

	gradIn := mat.NewVecDense(d.inSize, nil)
	gradIn.MulVec(d.weights.T(), dz)

	return g, gradIn
}

// Step applies one optimizer update using g.
func (d *Dense) Step(o opt.Optimizer, g *Gradients) {
	o.StepInPlace(d.weights.RawMatrix().Data, g.Weights.RawMatrix().Data)
	if d.biases != nil && g.Biases != nil {
		o.StepInPlace(d.biases.RawVector().Data, g.Biases.RawVector().Data)
	}
}

// Params returns all dense layer parameters flattened, weights first.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, d.NumParams())
	params = append(params, d.weights.RawMatrix().Data...)
	if d.biases != nil {
		params = append(params, d.biases.RawVector().Data...)
	}
	return params
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) {
	if len(params) != d.NumParams() {
		panic(fmt.Sprintf("Dense.SetParams: got %d values, want %d", len(params), d.NumParams()))
	}
	nw := d.outSize * d.inSize
	copy(d.weights.RawMatrix().Data, params[:nw])
	if d.biases != nil {
		copy(d.biases.RawVector().Data, params[nw:])
	}
}

// NumParams returns the number of trainable values.
func (d *Dense) NumParams() int {
	n := d.outSize * d.inSize
	if d.biases != nil {
		n += d.outSize
	}
	return n
}

// Weights returns a copy of the weight matrix.
func (d *Dense) Weights() *mat.Dense {
	return mat.DenseCopyOf(d.weights)
}

// Biases returns a copy of the bias vector, or nil if the layer has none.
func (d *Dense) Biases() *mat.VecDense {
	if d.biases == nil {
		return nil
	}
	return mat.VecDenseCopyOf(d.biases)
}

// HasBias reports whether the layer adds a bias vector.
func (d *Dense) HasBias() bool {
	return d.biases != nil
}

// Flatten returns the gradients in the same order as Dense.Params.
func (g *Gradients) Flatten() []float64 {
	out := append([]float64(nil), g.Weights.RawMatrix().Data...)
	if g.Biases != nil {
		out = append(out, g.Biases.RawVector().Data...)
	}
	return out
}
