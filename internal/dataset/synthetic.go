package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Price-per-square-metre bands used by Synthetic. The gap between them keeps
// the two classes linearly separable in normalised space.
const (
	cheapMinPerM2     = 500
	cheapMaxPerM2     = 900
	expensiveMinPerM2 = 1200
	expensiveMaxPerM2 = 1900
)

// Synthetic generates n houses alternating between advisable (cheap per
// square metre) and not advisable (expensive per square metre).
func Synthetic(n int, src rand.Source) []Sample {
	rng := rand.New(src)
	areaNoise := distuv.Normal{Mu: 0, Sigma: 10, Src: src}
	cheap := distuv.Uniform{Min: cheapMinPerM2, Max: cheapMaxPerM2, Src: src}
	expensive := distuv.Uniform{Min: expensiveMinPerM2, Max: expensiveMaxPerM2, Src: src}

	samples := make([]Sample, n)
	for i := range samples {
		rooms := float64(1 + rng.IntN(8))
		area := math.Max(20, math.Round(rooms*25+areaNoise.Rand()))
		settlement := float64(Village + rng.IntN(2))

		label := float64((i + 1) % 2)
		perM2 := expensive.Rand()
		if label == 1 {
			perM2 = cheap.Rand()
		}

		samples[i] = Sample{
			Features: Features{
				Rooms:      rooms,
				Area:       area,
				Settlement: settlement,
				Price:      math.Round(area * perM2),
			},
			Label: label,
		}
	}
	return samples
}
