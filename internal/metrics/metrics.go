// Package metrics scores a trained network with a confusion matrix and the
// metrics derived from it.
package metrics

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
)

// Predictor maps raw features to a probability of the positive class.
type Predictor interface {
	Predict(f dataset.Features) float64
}

// ConfusionCounts tallies predictions against labels. Positive class is 1.
type ConfusionCounts struct {
	TP, TN, FP, FN int
}

// Total returns TP+TN+FP+FN.
func (c ConfusionCounts) Total() int {
	return c.TP + c.TN + c.FP + c.FN
}

// Add records one prediction against its label, both in {0,1}.
func (c *ConfusionCounts) Add(predicted, actual int) {
	switch {
	case predicted == 1 && actual == 1:
		c.TP++
	case predicted == 0 && actual == 0:
		c.TN++
	case predicted == 1:
		c.FP++
	default:
		c.FN++
	}
}

// Metric is a ratio that may be undefined because its denominator was zero.
type Metric struct {
	Value   float64
	Defined bool
}

// Undefined is the sentinel for a metric with a zero denominator.
var Undefined = Metric{}

func ratio(num, den float64) Metric {
	if den == 0 {
		return Undefined
	}
	return Metric{Value: num / den, Defined: true}
}

func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

// Accuracy returns (TP+TN)/total.
func (c ConfusionCounts) Accuracy() Metric {
	return ratio(float64(c.TP+c.TN), float64(c.Total()))
}

// Precision returns TP/(TP+FP).
func (c ConfusionCounts) Precision() Metric {
	return ratio(float64(c.TP), float64(c.TP+c.FP))
}

// Sensitivity returns TP/(TP+FN), also known as recall.
func (c ConfusionCounts) Sensitivity() Metric {
	return ratio(float64(c.TP), float64(c.TP+c.FN))
}

// F1 returns the harmonic mean of precision and sensitivity. It is undefined
// when either input is undefined or both are zero.
func (c ConfusionCounts) F1() Metric {
	p, s := c.Precision(), c.Sensitivity()
	if !p.Defined || !s.Defined {
		return Undefined
	}
	return ratio(2*p.Value*s.Value, p.Value+s.Value)
}

// Report is the result of one evaluation pass.
type Report struct {
	Counts      ConfusionCounts
	Accuracy    Metric
	Precision   Metric
	Sensitivity Metric
	F1          Metric
}

// NewReport derives all metrics from c.
func NewReport(c ConfusionCounts) Report {
	return Report{
		Counts:      c,
		Accuracy:    c.Accuracy(),
		Precision:   c.Precision(),
		Sensitivity: c.Sensitivity(),
		F1:          c.F1(),
	}
}

// Evaluate runs p over ds, rounds each probability to the nearest class and
// tallies the result. Labels are validated before anything is counted.
func Evaluate(p Predictor, ds *dataset.Dataset) (Report, error) {
	if err := ds.Validate(); err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}

	var c ConfusionCounts
	for i := 0; i < ds.Len(); i++ {
		s := ds.At(i)
		actual, _ := s.Class()
		c.Add(int(math.Round(p.Predict(s.Features))), actual)
	}
	return NewReport(c), nil
}

// WriteTo writes the counts block followed by the metrics block.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"True positive:\t%d\nTrue negative:\t%d\nFalse positive:\t%d\nFalse negative:\t%d\n"+
			"Accuracy:\t%s\nPrecision:\t%s\nSensitivity:\t%s\nF1 score:\t%s\n",
		r.Counts.TP, r.Counts.TN, r.Counts.FP, r.Counts.FN,
		r.Accuracy, r.Precision, r.Sensitivity, r.F1,
	)
	return int64(n), err
}
