// Package loss provides the binary cross-entropy loss and the match metric
// reported during training.
package loss

import "math"

// Epsilon is how far predictions are kept from 0 and 1 before a logarithm.
const Epsilon = 1e-7

// BCELoss (Binary Cross Entropy) loss.
// Requires predictions to be in range (0, 1).
type BCELoss struct{}

// clip keeps p inside [Epsilon, 1-Epsilon].
func clip(p float64) float64 {
	if p < Epsilon {
		return Epsilon
	}
	if p > 1-Epsilon {
		return 1 - Epsilon
	}
	return p
}

// Forward computes binary cross entropy: -(1/n) * sum(y*log(p) + (1-y)*log(1-p))
func (b BCELoss) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("BCELoss: prediction and target must have same length")
	}

	var sum float64
	for i := 0; i < n; i++ {
		pred := clip(yPred[i])
		sum += yTrue[i]*math.Log(pred) + (1.0-yTrue[i])*math.Log(1.0-pred)
	}
	return -sum / float64(n)
}

// Sample computes the loss of a single prediction y against label yt.
func (b BCELoss) Sample(y, yt float64) float64 {
	return b.Forward([]float64{y}, []float64{yt})
}

// Match returns 1 when y rounded to the nearest class equals yt, else 0.
// It is a training diagnostic and never feeds a gradient.
func Match(y, yt float64) float64 {
	if math.Round(y) == yt {
		return 1
	}
	return 0
}
