package net

import "github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"

// Predict normalises raw features and returns the probability that buying is
// advisable. It only reads the parameters and may be called before training.
func (n *Network) Predict(f dataset.Features) float64 {
	return n.Forward(dataset.Normalize(f).Vector())
}
