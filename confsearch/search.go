package confsearch

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/confdup"
	"github.com/rmera/gommff/internal/logging"
	"github.com/rmera/gommff/opt"
	"github.com/rmera/gommff/v3"
)

// Options controls a conformer search.
type Options struct {
	Trials int
	// Optimizer returns the global optimizer used in the torsion space for
	// a trial. Each trial gets a different seed.
	Optimizer func(seed int64) opt.Optimizer
	Seed      int64
	Minimizer *opt.Minimizer
	EnergyTol float64
	AngleTol  float64
	// Drivers are the rotatable bonds. If nil, they are obtained from the
	// force field with the Drivers function.
	Drivers []Driver
	Logger  logging.Logger
}

// DefaultOptions returns the default search options, using the Mayfly optimizer.
func DefaultOptions() Options {
	return Options{
		Trials: 20,
		Optimizer: func(seed int64) opt.Optimizer {
			return opt.NewMayfly(30, 20, seed)
		},
		Seed:      1,
		Minimizer: opt.NewMinimizer(),
		EnergyTol: confdup.DefaultEnergyTol,
		AngleTol:  confdup.DefaultAngleTol,
	}
}

// Conformer is a unique, minimized, structure.
type Conformer struct {
	Coords      *v3.Matrix
	Energy      float64
	Fingerprint confdup.Fingerprint[float64]
	Trial       int
}

// Ensemble is the result of a search, with its conformers sorted by
// increasing energy.
type Ensemble struct {
	RunID      string
	Conformers []Conformer
	Trials     int
	Duplicates int
	Failed     int
}

func (E *Ensemble) Len() int { return len(E.Conformers) }

// Lowest returns the conformer with the lowest energy, or nil if the ensemble is empty.
func (E *Ensemble) Lowest() *Conformer {
	if len(E.Conformers) == 0 {
		return nil
	}
	return &E.Conformers[0]
}

// Energies returns the energies of the conformers.
func (E *Ensemble) Energies() []float64 {
	ret := make([]float64, len(E.Conformers))
	for i, c := range E.Conformers {
		ret[i] = c.Energy
	}
	return ret
}

// RelativeEnergies returns the energies of the conformers relative to the lowest.
func (E *Ensemble) RelativeEnergies() []float64 {
	ret := E.Energies()
	for i := range ret {
		ret[i] -= E.Conformers[0].Energy
	}
	return ret
}

// Stats returns the mean and standard deviation of the energies of the
// conformers. The deviation is 0 for less than 2 conformers, and both
// are NaN for an empty ensemble.
func (E *Ensemble) Stats() (mean, std float64) {
	switch len(E.Conformers) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return E.Conformers[0].Energy, 0
	}
	return stat.MeanStdDev(E.Energies(), nil)
}

// Search generates conformers for the molecule described by ff, starting from coords,
// which are not modified. In each trial, the global optimizer finds a low-energy set
// of dihedrals for the drivers, the structure is minimized, and kept only if the
// duplicate checker has not seen an equivalent conformer already.
// ctx is checked between trials. If it is cancelled, the ensemble so far is returned
// together with the context's error.
func Search(ctx context.Context, ff *mmff.ForceField[float64], coords *v3.Matrix, o Options) (*Ensemble, error) {
	log := o.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	natoms := coords.NVecs()
	if err := ff.Validate(natoms); err != nil {
		return nil, mmff.ErrDecorate(err, "confsearch/Search")
	}
	def := DefaultOptions()
	if o.Minimizer == nil {
		o.Minimizer = def.Minimizer
	}
	if o.Optimizer == nil {
		o.Optimizer = def.Optimizer
	}
	if o.Trials < 1 {
		o.Trials = 1
	}
	drivers := o.Drivers
	if drivers == nil {
		var err error
		if drivers, err = Drivers(ff, natoms); err != nil {
			return nil, err
		}
	}
	refs := make([]mmff.Torsion[float64], len(drivers))
	for i, d := range drivers {
		var err error
		if refs[i], err = d.reference(ff.Torsions); err != nil {
			return nil, err
		}
	}
	checker := confdup.New(ff.Torsions)
	if o.EnergyTol > 0 {
		checker.SetEnergyTol(o.EnergyTol)
	}
	if o.AngleTol > 0 {
		checker.SetAngleTol(o.AngleTol)
	}
	ens := &Ensemble{RunID: uuid.NewString()}
	log = log.With(logging.String("run", ens.RunID))
	log.Info("starting conformer search", logging.Int("atoms", natoms), logging.Int("drivers", len(drivers)), logging.Int("trials", o.Trials))
	start := time.Now()

	dim := len(drivers)
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := range lower {
		lower[i] = -math.Pi
		upper[i] = math.Pi
	}
	work := coords.Clone()
	//The geometry is rebuilt from coords in every evaluation, so the energy only depends on x.
	set := func(x []float64) {
		copy(work.RawData(), coords.RawData())
		for i, d := range drivers {
			setDihedral(work, refs[i], d, x[i])
		}
	}
	eval := func(x []float64) float64 {
		set(x)
		return ff.Energy(work)
	}
	trials := o.Trials
	if dim == 0 {
		//no rotatable bonds, there is only one conformer to find.
		trials = 1
	}
	for t := 0; t < trials; t++ {
		if err := ctx.Err(); err != nil {
			log.Warn("conformer search interrupted", logging.Int("trial", t), logging.Err(err))
			sortEnsemble(ens)
			return ens, err
		}
		ens.Trials++
		if dim > 0 {
			best, cost := o.Optimizer(o.Seed+int64(t)).Run(eval, lower, upper, dim)
			set(best)
			log.Debug("torsion-space optimization", logging.Int("trial", t), logging.Float64("energy", cost))
		} else {
			copy(work.RawData(), coords.RawData())
		}
		res, err := o.Minimizer.Minimize(ff, work)
		if err != nil {
			ens.Failed++
			log.Warn("minimization failed", logging.Int("trial", t), logging.Err(err))
			continue
		}
		if checker.IsDuplicate(res.Coords) {
			ens.Duplicates++
			log.Debug("duplicate conformer", logging.Int("trial", t), logging.Float64("energy", res.Energy))
			continue
		}
		ens.Conformers = append(ens.Conformers, Conformer{
			Coords:      res.Coords,
			Energy:      res.Energy,
			Fingerprint: checker.Fingerprint(res.Coords),
			Trial:       t,
		})
		log.Info("new conformer", logging.Int("trial", t), logging.Float64("energy", res.Energy), logging.Int("iterations", res.Iterations), logging.String("status", res.Status))
	}
	sortEnsemble(ens)
	log.Info("conformer search finished", logging.Int("conformers", ens.Len()), logging.Int("duplicates", ens.Duplicates), logging.Int("failed", ens.Failed), logging.Duration("elapsed", time.Since(start)))
	return ens, nil
}

func sortEnsemble(E *Ensemble) {
	sort.SliceStable(E.Conformers, func(i, j int) bool { return E.Conformers[i].Energy < E.Conformers[j].Energy })
}
