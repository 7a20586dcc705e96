// Package confsearch generates conformers of a molecule by driving its
// rotatable bonds, and performs rigid torsion scans.
package confsearch

import (
	"fmt"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/chemgraph"
	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/v3"
)

// Driver is a rotatable bond J-K. Moving are the atoms that rotate with K,
// K included.
type Driver struct {
	J, K   int
	Moving []int
}

// Drivers returns a Driver for each rotatable, non-terminal bond that is the
// central bond of a torsion in ff. The bond graph is taken from the bond-stretching
// terms of ff.
func Drivers(ff *mmff.ForceField[float64], natoms int) ([]Driver, error) {
	top, err := chemgraph.FromForceField(ff, natoms)
	if err != nil {
		return nil, err
	}
	bonds := chemgraph.RotatableBonds(top, ff.Torsions)
	ret := make([]Driver, 0, len(bonds))
	for _, b := range bonds {
		ret = append(ret, Driver{J: b[0], K: b[1], Moving: top.Side(b[0], b[1])})
	}
	return ret, nil
}

// Around returns true if the torsion t has d's bond as its central bond, in
// any direction.
func (d Driver) Around(t mmff.Torsion[float64]) bool {
	return (t.J == d.J && t.K == d.K) || (t.J == d.K && t.K == d.J)
}

func (d Driver) check(t mmff.Torsion[float64]) error {
	if !d.Around(t) {
		return fmt.Errorf("confsearch: torsion %d-%d-%d-%d is not around the bond %d-%d", t.I, t.J, t.K, t.L, d.J, d.K)
	}
	return nil
}

// reference returns the first torsion in ts around the bond of d.
func (d Driver) reference(ts []mmff.Torsion[float64]) (mmff.Torsion[float64], error) {
	for _, t := range ts {
		if d.Around(t) {
			return t, nil
		}
	}
	return mmff.Torsion[float64]{}, fmt.Errorf("confsearch: no torsion around the bond %d-%d", d.J, d.K)
}

// bondRotate rotates the atoms in torotate by angle radians around the at1->at2 axis.
func bondRotate(coord *v3.Matrix, at1, at2 int, angle float64, torotate []int) {
	a1 := coord.Vec(at1)
	a2 := coord.Vec(at2)
	for _, i := range torotate {
		coord.SetVec(i, geo.RotateAbout(coord.Vec(i), a1, a2, angle))
	}
}

// SetDihedral rotates the moving atoms of d, in place, so the dihedral of t becomes
// angle, in radians. The central bond of t has to be that of d.
func SetDihedral(coords *v3.Matrix, t mmff.Torsion[float64], d Driver, angle float64) error {
	if err := d.check(t); err != nil {
		return err
	}
	setDihedral(coords, t, d, angle)
	return nil
}

// setDihedral is SetDihedral for a torsion already known to be around d.
func setDihedral(coords *v3.Matrix, t mmff.Torsion[float64], d Driver, angle float64) {
	//The dihedral is the same read in both directions, and a positive rotation of the
	//K side around J->K increases it.
	bondRotate(coords, d.J, d.K, angle-t.Dihedral(coords), d.Moving)
}
