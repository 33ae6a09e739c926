package dataset

import "gonum.org/v1/gonum/mat"

// NumFeatures is the network input size.
const NumFeatures = 4

// Fixed per-feature divisors. Values outside the expected range are scaled
// past [0,1] without clamping.
const (
	RoomsScale      = 10
	AreaScale       = 400
	SettlementScale = 2
	PriceScale      = 400000
)

// Normalized is a feature vector ready for the network.
type Normalized [NumFeatures]float64

// Normalize scales raw features by their fixed divisors.
func Normalize(f Features) Normalized {
	return Normalized{
		f.Rooms / RoomsScale,
		f.Area / AreaScale,
		f.Settlement / SettlementScale,
		f.Price / PriceScale,
	}
}

// Vector returns n as a gonum column vector.
func (n Normalized) Vector() *mat.VecDense {
	data := make([]float64, NumFeatures)
	copy(data, n[:])
	return mat.NewVecDense(NumFeatures, data)
}
