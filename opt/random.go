package opt

import (
	"math"
	"math/rand"
)

// RandomSearch samples the search box uniformly, and keeps the best point.
type RandomSearch struct {
	samples int
	seed    int64
}

// NewRandom returns a RandomSearch optimizer that evaluates samples points.
func NewRandom(samples int, seed int64) Optimizer {
	return &RandomSearch{samples: samples, seed: seed}
}

func (r *RandomSearch) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	rnd := rand.New(rand.NewSource(r.seed))
	best := make([]float64, dim)
	bestCost := math.Inf(1)
	x := make([]float64, dim)
	for s := 0; s < r.samples; s++ {
		for i := range x {
			x[i] = lower[i] + rnd.Float64()*(upper[i]-lower[i])
		}
		if c := eval(x); c < bestCost {
			bestCost = c
			copy(best, x)
		}
	}
	return best, bestCost
}
