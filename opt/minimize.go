package opt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/v3"
)

const (
	DefaultGradTol = 1e-3
	DefaultMaxIter = 2000
)

// Minimizer minimizes the energy of a force field in cartesian coordinates,
// with the L-BFGS method and the analytical gradient of the force field.
type Minimizer struct {
	GradTol float64 //convergence criterion for the gradient norm, in kcal/(mol*A)
	MaxIter int
	Workers int //if larger than 1, the gradient is evaluated concurrently
}

// NewMinimizer returns a Minimizer with the default settings.
func NewMinimizer() *Minimizer {
	return &Minimizer{GradTol: DefaultGradTol, MaxIter: DefaultMaxIter}
}

// Result contains the outcome of a minimization.
type Result struct {
	Coords     *v3.Matrix
	Energy     float64
	GradNorm   float64
	Iterations int
	Status     string
}

// flatten copies the gradient accumulator into a flat slice.
func flatten(dst []float64, g []geo.Vec[float64]) {
	for i, v := range g {
		copy(dst[3*i:3*i+3], v[:])
	}
}

// Minimize minimizes the energy of ff starting from coords, which is not modified.
func (M *Minimizer) Minimize(ff *mmff.ForceField[float64], coords *v3.Matrix) (*Result, error) {
	n := coords.NVecs()
	if err := ff.Validate(n); err != nil {
		return nil, mmff.ErrDecorate(err, "opt/Minimize")
	}
	x0 := append([]float64(nil), coords.RawData()...)
	acc := make([]geo.Vec[float64], n)
	//views of the flat vectors the optimizer gives us, no copies.
	view := func(x []float64) *v3.Matrix {
		m, err := v3.NewMatrix(x)
		if err != nil {
			panic(PanicMsg(err.Error()))
		}
		return m
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return ff.Energy(view(x))
		},
		Grad: func(grad, x []float64) {
			geo.ZeroGrad(acc)
			if M.Workers > 1 {
				ff.ParallelGradient(view(x), acc, M.Workers)
			} else {
				ff.Gradient(view(x), acc)
			}
			flatten(grad, acc)
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: M.GradTol,
		MajorIterations:   M.MaxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 50,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if res == nil {
		return nil, Error{fmt.Sprintf("minimization failed: %v", err), []string{"Minimize"}, true}
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return nil, Error{fmt.Sprintf("minimization produced a non-finite energy (%v)", res.Status), []string{"Minimize"}, true}
	}
	final := view(append([]float64(nil), res.X...))
	geo.ZeroGrad(acc)
	e := ff.Gradient(final, acc)
	g := make([]float64, 3*n)
	flatten(g, acc)
	status := res.Status.String()
	if err != nil {
		//A line search failure close to the minimum is not fatal. We report it in the status.
		status = fmt.Sprintf("%s (%v)", status, err)
	}
	return &Result{
		Coords:     final,
		Energy:     e,
		GradNorm:   floats.Norm(g, 2),
		Iterations: res.Stats.MajorIterations,
		Status:     status,
	}, nil
}

// Error is the error type for the opt package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return "goMMFF/opt: " + err.message }

func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) Critical() bool { return err.critical }

// PanicMsg is the type used for panics in this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }
