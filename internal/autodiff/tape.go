// Package autodiff differentiates the advisor network with a reverse-mode
// tape. The network graph is rebuilt in gorgonia for every sample from the
// current parameters and the binary cross-entropy is differentiated
// symbolically.
package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/net"
)

// Tape implements net.Differentiator with gorgonia's TapeMachine.
type Tape struct{}

// graph holds the nodes of one sample's computation.
type graph struct {
	g         *G.ExprGraph
	w1, b, w2 *G.Node
	cost      *G.Node
}

// Gradients implements net.Differentiator. The reported prediction comes from
// the network's own forward pass: the backward sweep reuses the output node's
// memory, so its value is not the prediction once the tape has run.
func (Tape) Gradients(n *net.Network, x mat.Vector, yt float64) (*net.Params, float64, error) {
	gr, err := build(n.Params(), x, yt)
	if err != nil {
		return nil, 0, err
	}

	if _, err := G.Grad(gr.cost, gr.w1, gr.b, gr.w2); err != nil {
		return nil, 0, fmt.Errorf("autodiff: symbolic gradient: %w", err)
	}

	vm := G.NewTapeMachine(gr.g, G.BindDualValues(gr.w1, gr.b, gr.w2))
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, 0, fmt.Errorf("autodiff: run tape: %w", err)
	}

	dW1, err := gradOf(gr.w1)
	if err != nil {
		return nil, 0, err
	}
	db, err := gradOf(gr.b)
	if err != nil {
		return nil, 0, err
	}
	dW2, err := gradOf(gr.w2)
	if err != nil {
		return nil, 0, err
	}

	return &net.Params{
		W1: mat.NewDense(net.HiddenSize, net.InputSize, dW1),
		B:  mat.NewVecDense(net.HiddenSize, db),
		W2: mat.NewDense(net.OutputSize, net.HiddenSize, dW2),
	}, n.Forward(x), nil
}

// build constructs y = sigmoid(W2·sigmoid(W1·x + b)) and
// cost = -(yt·ln(y) + (1-yt)·ln(1-y)).
func build(p *net.Params, x mat.Vector, yt float64) (gr *graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("autodiff: build graph: %v", r)
		}
	}()

	g := G.NewGraph()
	xs := make([]float64, x.Len())
	for i := range xs {
		xs[i] = x.AtVec(i)
	}

	xN := matrix(g, "x", net.InputSize, 1, xs)
	w1 := matrix(g, "w1", net.HiddenSize, net.InputSize, p.W1.RawMatrix().Data)
	b := matrix(g, "b", net.HiddenSize, 1, p.B.RawVector().Data)
	w2 := matrix(g, "w2", net.OutputSize, net.HiddenSize, p.W2.RawMatrix().Data)
	ytN := matrix(g, "yt", 1, 1, []float64{yt})
	one := matrix(g, "one", 1, 1, []float64{1})

	h := G.Must(G.Sigmoid(G.Must(G.Add(G.Must(G.Mul(w1, xN)), b))))
	y := G.Must(G.Sigmoid(G.Must(G.Mul(w2, h))))

	pos := G.Must(G.HadamardProd(ytN, G.Must(G.Log(y))))
	neg := G.Must(G.HadamardProd(
		G.Must(G.Sub(one, ytN)),
		G.Must(G.Log(G.Must(G.Sub(one, y)))),
	))
	cost := G.Must(G.Neg(G.Must(G.Sum(G.Must(G.Add(pos, neg))))))

	return &graph{g: g, w1: w1, b: b, w2: w2, cost: cost}, nil
}

func matrix(g *G.ExprGraph, name string, rows, cols int, data []float64) *G.Node {
	backing := append([]float64(nil), data...)
	t := tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
	return G.NewMatrix(g, tensor.Float64, G.WithShape(rows, cols), G.WithName(name), G.WithValue(t))
}

func gradOf(n *G.Node) ([]float64, error) {
	v, err := n.Grad()
	if err != nil {
		return nil, fmt.Errorf("autodiff: gradient of %s: %w", n.Name(), err)
	}
	return values(v)
}

// values copies the float64 data out of a gorgonia value.
func values(v G.Value) ([]float64, error) {
	switch d := v.Data().(type) {
	case []float64:
		return append([]float64(nil), d...), nil
	case float64:
		return []float64{d}, nil
	}
	return nil, fmt.Errorf("autodiff: unexpected value type %T", v.Data())
}
