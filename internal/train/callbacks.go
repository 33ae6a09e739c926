package train

import (
	"fmt"
	"io"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(t *Trainer) error
	OnEpochEnd(stats EpochStats, t *Trainer)
	OnTrainEnd(t *Trainer) error
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(t *Trainer) error           { return nil }
func (c BaseCallback) OnEpochEnd(stats EpochStats, t *Trainer) {}
func (c BaseCallback) OnTrainEnd(t *Trainer) error             { return nil }

// Logger writes one progress line per epoch: "<epoch>\tloss:<mean>\teval:<rate>".
type Logger struct {
	BaseCallback
	Out io.Writer
}

// NewLogger creates a Logger writing to out.
func NewLogger(out io.Writer) *Logger {
	return &Logger{Out: out}
}

func (c *Logger) OnEpochEnd(stats EpochStats, t *Trainer) {
	fmt.Fprintf(c.Out, "%d\tloss:%g\teval:%g\n", stats.Epoch, stats.Loss, stats.MatchRate)
}

// History records every epoch's statistics.
type History struct {
	BaseCallback
	Epochs []EpochStats
}

func (c *History) OnTrainBegin(t *Trainer) error {
	c.Epochs = c.Epochs[:0]
	return nil
}

func (c *History) OnEpochEnd(stats EpochStats, t *Trainer) {
	c.Epochs = append(c.Epochs, stats)
}
