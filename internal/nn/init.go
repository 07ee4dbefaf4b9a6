package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes a [fanOut, fanIn] matrix with values drawn from
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
//
// Returns nil when fanIn or fanOut is zero: gonum has no empty matrices,
// and a layer without inputs only carries its bias.
func Xavier(fanIn, fanOut int, src rand.Source) *mat.Dense {
	if fanIn == 0 || fanOut == 0 {
		return nil
	}

	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}

	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = dist.Rand()
	}
	return mat.NewDense(fanOut, fanIn, data)
}

// Zeros returns a zero-filled bias vector.
func Zeros(n int) []float64 {
	return make([]float64, n)
}
