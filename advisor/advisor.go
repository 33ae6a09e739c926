// Package advisor is the public entry point: it trains the house purchase
// classifier, evaluates it and answers single predictions.
package advisor

import (
	"io"
	"math/rand/v2"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/autodiff"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/metrics"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/net"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/train"
)

// Re-export common types for easier access
type (
	Features   = dataset.Features
	Sample     = dataset.Sample
	Dataset    = dataset.Dataset
	EpochStats = train.EpochStats
	Callback   = train.Callback
	Report     = metrics.Report
	Metric     = metrics.Metric
)

// Settlement codes.
const (
	Village = dataset.Village
	City    = dataset.City
)

// Model is a seeded network together with the way it is differentiated.
type Model struct {
	net  *net.Network
	grad net.Differentiator
}

// Option configures a Model.
type Option func(*Model)

// WithTape differentiates with the reverse-mode tape instead of the
// closed-form equations.
func WithTape() Option {
	return func(m *Model) { m.grad = autodiff.Tape{} }
}

// New creates an untrained model whose parameters are drawn from seed.
func New(seed uint64, opts ...Option) *Model {
	m := &Model{
		net:  net.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		grad: net.ClosedForm{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Train runs the fixed 50-epoch schedule over ds.
func (m *Model) Train(ds *Dataset, callbacks ...Callback) ([]EpochStats, error) {
	return train.New(m.net, m.grad, callbacks...).Run(ds)
}

// Evaluate scores the model on ds.
func (m *Model) Evaluate(ds *Dataset) (Report, error) {
	return metrics.Evaluate(m.net, ds)
}

// Predict returns the probability that buying a house with features f is
// advisable.
func (m *Model) Predict(f Features) float64 {
	return m.net.Predict(f)
}

// Data loading
func LoadTSV(filename string) (*Dataset, error) {
	return dataset.LoadTSV(filename)
}

func ReadTSV(r io.Reader) (*Dataset, error) {
	return dataset.ReadTSV(r)
}

func NewDataset(samples []Sample) (*Dataset, error) {
	return dataset.New(samples)
}

// Synthetic generates n linearly separable samples from seed.
func Synthetic(n int, seed uint64) []Sample {
	return dataset.Synthetic(n, rand.NewPCG(seed, 0))
}

func WriteTSV(w io.Writer, samples []Sample) error {
	return dataset.WriteTSV(w, samples)
}

// Callbacks
func Logger(w io.Writer) Callback {
	return train.NewLogger(w)
}

func CSVLogger(filename string) Callback {
	return train.NewCSVLogger(filename, false)
}
