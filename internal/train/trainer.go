// Package train runs the fixed-length SGD training loop over a dataset and
// reports per-epoch statistics to callbacks.
package train

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/loss"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/net"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/opt"
)

// Fixed training schedule.
const (
	Epochs       = 50
	LearningRate = 0.01
)

// EpochStats summarises one pass over the dataset.
type EpochStats struct {
	Epoch     int     // 1-based
	Loss      float64 // mean binary cross-entropy
	MatchRate float64 // mean of the rounded-prediction match indicator
}

// Trainer drives a Network through Epochs passes of per-sample SGD.
type Trainer struct {
	Net       *net.Network
	Grad      net.Differentiator
	Callbacks []Callback

	loss loss.BCELoss
	opt  opt.Optimizer
}

// New returns a trainer using plain SGD at LearningRate. A nil d selects
// closed-form backpropagation.
func New(n *net.Network, d net.Differentiator, callbacks ...Callback) *Trainer {
	if d == nil {
		d = net.ClosedForm{}
	}
	return &Trainer{
		Net:       n,
		Grad:      d,
		Callbacks: callbacks,
		opt:       opt.SGD{LearningRate: LearningRate},
	}
}

// Run trains on ds in its stored order and returns one EpochStats per epoch.
// Labels are validated before any parameter is touched.
func (t *Trainer) Run(ds *dataset.Dataset) ([]EpochStats, error) {
	if ds.Len() == 0 {
		return nil, dataset.ErrEmpty
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	for i, c := range t.Callbacks {
		if err := c.OnTrainBegin(t); err != nil {
			// Callbacks up to and including the failed one may hold resources.
			err = errors.Join(err, t.end(t.Callbacks[:i+1]))
			return nil, fmt.Errorf("train: callback: %w", err)
		}
	}

	history := make([]EpochStats, 0, Epochs)
	var runErr error
	for epoch := 1; epoch <= Epochs; epoch++ {
		stats, err := t.epoch(epoch, ds)
		if err != nil {
			runErr = err
			break
		}
		history = append(history, stats)
		for _, c := range t.Callbacks {
			c.OnEpochEnd(stats, t)
		}
	}

	endErr := t.end(t.Callbacks)
	if runErr != nil {
		return history, runErr
	}
	if endErr != nil {
		return history, fmt.Errorf("train: callback: %w", endErr)
	}
	return history, nil
}

func (t *Trainer) end(callbacks []Callback) error {
	var err error
	for _, c := range callbacks {
		err = errors.Join(err, c.OnTrainEnd(t))
	}
	return err
}

func (t *Trainer) epoch(epoch int, ds *dataset.Dataset) (EpochStats, error) {
	losses := make([]float64, ds.Len())
	matches := make([]float64, ds.Len())

	for i := 0; i < ds.Len(); i++ {
		s := ds.At(i)
		x := dataset.Normalize(s.Features).Vector()

		y, err := t.Net.TrainSample(x, s.Label, t.Grad, t.opt)
		if err != nil {
			return EpochStats{}, fmt.Errorf("train: epoch %d, sample %d: %w", epoch, i, err)
		}
		losses[i] = t.loss.Sample(y, s.Label)
		matches[i] = loss.Match(y, s.Label)
	}

	return EpochStats{
		Epoch:     epoch,
		Loss:      stat.Mean(losses, nil),
		MatchRate: stat.Mean(matches, nil),
	}, nil
}
