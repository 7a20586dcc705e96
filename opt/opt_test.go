package opt

import (
	"math"
	"testing"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/v3"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func box(dim int, l float64) ([]float64, []float64) {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = -l
		upper[i] = l
	}
	return lower, upper
}

func TestMayflyAdapterOnSphere(Te *testing.T) {
	optimizer := NewMayfly(100, 20, 42)
	dim := 3
	lower, upper := box(dim, 10)
	best, cost := optimizer.Run(sphere, lower, upper, dim)
	if len(best) != dim {
		Te.Fatalf("Expected %d parameters, got %d", dim, len(best))
	}
	if cost > 0.1 {
		Te.Errorf("Expected cost near 0, got %f", cost)
	}
}

func TestMayflyAdapterDeterministic(Te *testing.T) {
	lower, upper := box(2, 5)
	_, cost1 := NewMayfly(50, 20, 123).Run(sphere, lower, upper, 2)
	_, cost2 := NewMayfly(50, 20, 123).Run(sphere, lower, upper, 2)
	if cost1 != cost2 {
		Te.Errorf("Non-deterministic: cost1=%f, cost2=%f", cost1, cost2)
	}
}

func TestMayflyAdapterBounds(Te *testing.T) {
	//The minimum of the shifted sphere is at (2, -3), inside a box that is
	//different for each dimension.
	shifted := func(x []float64) float64 {
		return (x[0]-2)*(x[0]-2) + (x[1]+3)*(x[1]+3)
	}
	lower := []float64{1, -10}
	upper := []float64{4, -2}
	best, cost := NewMayfly(100, 20, 9).Run(shifted, lower, upper, 2)
	for i, v := range best {
		if v < lower[i] || v > upper[i] {
			Te.Errorf("Point out of bounds: %v", best)
		}
	}
	if cost > 0.1 {
		Te.Errorf("Expected cost near 0, got %f at %v", cost, best)
	}
	if math.Abs(shifted(best)-cost) > 1e-9 {
		Te.Errorf("The cost reported (%f) doesn't correspond to the best point %v", cost, best)
	}
	b := newSearchBox(lower, upper, 2)
	if b.uniform {
		Te.Errorf("Bounds %v, %v taken as uniform", lower, upper)
	}
	if x := b.point([]float64{0.5, 1.5}); x[0] != 2.5 || x[1] != -2 {
		Te.Errorf("Wrong mapping to the bounds: %v", x)
	}
}

func TestRandom(Te *testing.T) {
	lower, upper := box(2, 1)
	best, cost := NewRandom(2000, 7).Run(sphere, lower, upper, 2)
	if cost > 0.05 {
		Te.Errorf("Expected cost near 0, got %f", cost)
	}
	if math.Abs(sphere(best)-cost) > 1e-12 {
		Te.Errorf("The cost reported doesn't correspond to the best point")
	}
	for i, v := range best {
		if v < lower[i] || v > upper[i] {
			Te.Errorf("Point out of bounds: %v", best)
		}
	}
	if _, err := New("simplex", 10, 20, 1); err == nil {
		Te.Errorf("No error for an unknown optimizer")
	}
}

func TestMinimizeBond(Te *testing.T) {
	ff := &mmff.ForceField[float64]{
		Bonds: []mmff.BondStretch[float64]{{I: 0, J: 1, Kb: 5, R0: 1.0}},
	}
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 1.2, 0.1, 0})
	if err != nil {
		Te.Fatal(err)
	}
	before := ff.Energy(coords)
	for _, workers := range []int{1, 2} {
		M := NewMinimizer()
		M.Workers = workers
		res, err := M.Minimize(ff, coords)
		if err != nil {
			Te.Fatal(err)
		}
		if res.Energy > 1e-6 || res.Energy >= before {
			Te.Errorf("Energy not minimized: %f -> %f (%s)", before, res.Energy, res.Status)
		}
		r := geo.Distance(res.Coords.Vec(0), res.Coords.Vec(1))
		if math.Abs(r-1.0) > 1e-3 {
			Te.Errorf("Bond length after minimization %f, expected 1.0", r)
		}
	}
	//the input is not modified
	if coords.At(1, 0) != 1.2 {
		Te.Errorf("The input coordinates were modified")
	}
}

func TestMinimizeBadIndex(Te *testing.T) {
	ff := &mmff.ForceField[float64]{
		Bonds: []mmff.BondStretch[float64]{{I: 0, J: 5, Kb: 5, R0: 1.0}},
	}
	coords := v3.Zeros(2)
	if _, err := NewMinimizer().Minimize(ff, coords); err == nil {
		Te.Errorf("No error for a force field with an invalid atom index")
	}
}
