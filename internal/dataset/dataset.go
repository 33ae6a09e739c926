// Package dataset holds house records, their normalisation and the
// tab-separated file format they are stored in.
package dataset

import (
	"errors"
	"fmt"

	"gorgonia.org/tensor"
)

// Columns is the number of values stored per record: four features and a label.
const Columns = 5

// Settlement type codes.
const (
	Village = 1
	City    = 2
)

var (
	// ErrMalformedRecord is returned for a record that is not five numbers.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidLabel is returned for a label other than 0 or 1.
	ErrInvalidLabel = errors.New("label must be 0 or 1")

	// ErrEmpty is returned when a data source holds no records.
	ErrEmpty = errors.New("dataset is empty")
)

// Features are the raw, unnormalised inputs describing a house.
type Features struct {
	Rooms      float64
	Area       float64 // square metres
	Settlement float64 // Village or City
	Price      float64
}

// Sample is one labelled house. Label is 1 when buying is advisable.
type Sample struct {
	Features Features
	Label    float64
}

// Class returns the label as 0 or 1, or ErrInvalidLabel.
func (s Sample) Class() (int, error) {
	switch s.Label {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: got %v", ErrInvalidLabel, s.Label)
}

// Dataset is an ordered, immutable collection of samples stored as an
// N×Columns tensor. Iteration order is insertion order.
type Dataset struct {
	t *tensor.Dense // nil for an empty dataset
}

// New builds a dataset from samples, rejecting labels outside {0,1}.
func New(samples []Sample) (*Dataset, error) {
	for i, s := range samples {
		if _, err := s.Class(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return fromSamples(samples), nil
}

// fromSamples builds a dataset without validating labels.
func fromSamples(samples []Sample) *Dataset {
	if len(samples) == 0 {
		return &Dataset{}
	}
	backing := make([]float64, 0, len(samples)*Columns)
	for _, s := range samples {
		f := s.Features
		backing = append(backing, f.Rooms, f.Area, f.Settlement, f.Price, s.Label)
	}
	t := tensor.New(
		tensor.Of(tensor.Float64),
		tensor.WithShape(len(samples), Columns),
		tensor.WithBacking(backing),
	)
	return &Dataset{t: t}
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d == nil || d.t == nil {
		return 0
	}
	return d.t.Shape()[0]
}

// At returns the i-th sample.
func (d *Dataset) At(i int) Sample {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("dataset: index %d out of range [0,%d)", i, d.Len()))
	}
	row := d.t.Data().([]float64)[i*Columns : (i+1)*Columns]
	return Sample{
		Features: Features{
			Rooms:      row[0],
			Area:       row[1],
			Settlement: row[2],
			Price:      row[3],
		},
		Label: row[4],
	}
}

// Samples returns a copy of all samples in order.
func (d *Dataset) Samples() []Sample {
	out := make([]Sample, d.Len())
	for i := range out {
		out[i] = d.At(i)
	}
	return out
}

// Validate checks every label is 0 or 1.
func (d *Dataset) Validate() error {
	for i := 0; i < d.Len(); i++ {
		if _, err := d.At(i).Class(); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

// Positives counts samples labelled 1.
func (d *Dataset) Positives() int {
	n := 0
	for i := 0; i < d.Len(); i++ {
		if d.At(i).Label == 1 {
			n++
		}
	}
	return n
}
