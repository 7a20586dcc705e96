// Package opt contains the optimizers used by goMMFF: a local, gradient-based
// minimizer for the cartesian coordinates, and global, derivative-free
// optimizers for low-dimensional spaces such as the torsion space of a molecule.
package opt

// Optimizer defines a derivative-free global optimization algorithm.
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: parameter bounds
	// dim: dimensionality of parameter space
	// Returns: best parameters and best cost
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}

// New returns the optimizer with the given name ("mayfly" or "random"). iters is
// the number of iterations for mayfly, and the number of samples for random.
func New(name string, iters, popSize int, seed int64) (Optimizer, error) {
	switch name {
	case "mayfly":
		return NewMayfly(iters, popSize, seed), nil
	case "random":
		return NewRandom(iters, seed), nil
	default:
		return nil, Error{"unknown optimizer: " + name, []string{"New"}, true}
	}
}
