package opt

import (
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the Mayfly library to conform to the Optimizer interface.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter. popSize must be at least 20.
func NewMayfly(maxIters, popSize int, seed int64) Optimizer {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Run executes the Mayfly optimization. The library works with the same bounds for
// every dimension. When lower and upper are not uniform, the search runs on the
// unit cube, and each coordinate is mapped to its own [lower, upper] range.
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	space := newSearchBox(lower, upper, dim)
	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(u []float64) float64 { return eval(space.point(u)) }
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound, config.UpperBound = space.bounds()
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		center := space.center()
		return center, eval(center)
	}
	return space.point(result.GlobalBest.Position), result.GlobalBest.Cost
}

// searchBox maps the search space of the library to the bounds of the problem.
type searchBox struct {
	lower, upper []float64
	uniform      bool
}

func newSearchBox(lower, upper []float64, dim int) searchBox {
	b := searchBox{lower: lower[:dim], upper: upper[:dim], uniform: true}
	for i := 1; i < dim; i++ {
		if lower[i] != lower[0] || upper[i] != upper[0] {
			b.uniform = false
			break
		}
	}
	return b
}

// bounds returns the scalar bounds to give the library.
func (b searchBox) bounds() (float64, float64) {
	if !b.uniform {
		return 0, 1
	}
	if len(b.lower) == 0 {
		return 0, 0
	}
	return b.lower[0], b.upper[0]
}

// point returns the problem coordinates for the library's point u, which is not modified.
func (b searchBox) point(u []float64) []float64 {
	x := make([]float64, len(u))
	for i, v := range u {
		if b.uniform {
			x[i] = math.Max(b.lower[i], math.Min(b.upper[i], v))
			continue
		}
		v = math.Max(0, math.Min(1, v))
		x[i] = b.lower[i] + v*(b.upper[i]-b.lower[i])
	}
	return x
}

func (b searchBox) center() []float64 {
	c := make([]float64, len(b.lower))
	for i := range c {
		c[i] = (b.lower[i] + b.upper[i]) / 2
	}
	return c
}
