package confsearch

import (
	"fmt"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/v3"
)

// ScanPoint is one point of a torsion scan. Angle is in degrees.
type ScanPoint struct {
	Angle  float64
	Energy float64
}

// Scan performs a rigid scan of the dihedral of t, which rotates with the driver
// d, in steps equally spaced points from -180 to 180 (excluded) degrees.
// coords is not modified.
func Scan(ff *mmff.ForceField[float64], coords *v3.Matrix, t mmff.Torsion[float64], d Driver, steps int) ([]ScanPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("confsearch: invalid number of scan steps: %d", steps)
	}
	if err := ff.Validate(coords.NVecs()); err != nil {
		return nil, mmff.ErrDecorate(err, "confsearch/Scan")
	}
	if err := d.check(t); err != nil {
		return nil, err
	}
	work := coords.Clone()
	ret := make([]ScanPoint, 0, steps)
	for i := 0; i < steps; i++ {
		deg := -180 + float64(i)*360/float64(steps)
		setDihedral(work, t, d, deg*mmff.Deg2Rad)
		ret = append(ret, ScanPoint{Angle: deg, Energy: ff.Energy(work)})
	}
	return ret, nil
}
