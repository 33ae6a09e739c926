// Package activations provides unit tests for activation functions.
package activations

import (
	"math"
	"testing"
)

// TestSigmoid tests Sigmoid activation.
func TestSigmoid(t *testing.T) {
	sigmoid := Sigmoid{}

	tests := []struct {
		input    float64
		expected float64
	}{
		{0.0, 0.5},
		{1.0, 0.7310585786300049},
		{-1.0, 0.2689414213699951},
		{5.0, 0.9933071490757153},
	}

	for _, tt := range tests {
		output := sigmoid.Activate(tt.input)
		if math.Abs(output-tt.expected) > 1e-12 {
			t.Errorf("Sigmoid(%v) = %v, want %v", tt.input, output, tt.expected)
		}
	}
}

// TestSigmoidDerivative tests the output form against a central difference.
func TestSigmoidDerivative(t *testing.T) {
	sigmoid := Sigmoid{}
	const h = 1e-6

	if d := sigmoid.DerivativeFromOutput(0.5); math.Abs(d-0.25) > 1e-12 {
		t.Errorf("Sigmoid.DerivativeFromOutput(0.5) = %v, want 0.25", d)
	}

	for _, x := range []float64{-4, -1.5, -0.2, 0, 0.3, 2, 6} {
		want := (sigmoid.Activate(x+h) - sigmoid.Activate(x-h)) / (2 * h)
		got := sigmoid.DerivativeFromOutput(sigmoid.Activate(x))
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("DerivativeFromOutput(sigmoid(%v)) = %v, want %v", x, got, want)
		}
	}
}

// TestSigmoidRange tests that outputs stay inside the open unit interval
// for moderate inputs.
func TestSigmoidRange(t *testing.T) {
	sigmoid := Sigmoid{}
	for x := -30.0; x <= 30.0; x += 0.5 {
		y := sigmoid.Activate(x)
		if y <= 0 || y >= 1 {
			t.Errorf("Sigmoid(%v) = %v, want value in (0,1)", x, y)
		}
	}
}

// TestSigmoidSymmetry tests sigmoid(-x) = 1 - sigmoid(x).
func TestSigmoidSymmetry(t *testing.T) {
	sigmoid := Sigmoid{}
	for _, x := range []float64{0.1, 0.7, 1.9, 3.3} {
		if diff := sigmoid.Activate(-x) - (1 - sigmoid.Activate(x)); math.Abs(diff) > 1e-12 {
			t.Errorf("Sigmoid symmetry broken at %v: diff %v", x, diff)
		}
	}
}
