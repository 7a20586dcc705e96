/*
 * confdup.go, part of goMMFF.
 *
 * Copyright 2024 The goMMFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package confdup detects duplicate conformers in a conformer generation run.
//
// A conformer is reduced to a fingerprint: the total torsional energy and the sum of
// the absolute values of its dihedral angles, both from a torsion list. Fingerprints
// are kept in an ordered registry (a B-tree ordered by energy), so only the entries
// within the energy tolerance of a new conformer need to be compared.
//
// A Checker is not safe for concurrent use.
package confdup

import (
	"math"

	"github.com/google/btree"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/geo"
)

const (
	DefaultEnergyTol = 0.05
	DefaultAngleTol  = 0.017
)

const degree = 16

// Fingerprint is the pair of values used to compare conformers.
type Fingerprint[T geo.Real] struct {
	Energy   T
	AngleSum T
}

// entry is a registered fingerprint. seq keeps apart entries with the
// same energy.
type entry[T geo.Real] struct {
	energy   T
	angleSum T
	seq      int
}

func less[T geo.Real](a, b entry[T]) bool {
	if a.energy != b.energy {
		return a.energy < b.energy
	}
	return a.seq < b.seq
}

// Checker keeps the fingerprints of the conformers seen so far.
type Checker[T geo.Real] struct {
	torsions  []mmff.Torsion[T]
	energyTol T
	angleTol  T
	reg       *btree.BTreeG[entry[T]]
	seq       int
}

// New returns an empty Checker for conformers described by the torsions given,
// with the default tolerances.
func New[T geo.Real](torsions []mmff.Torsion[T]) *Checker[T] {
	return &Checker[T]{
		torsions:  torsions,
		energyTol: DefaultEnergyTol,
		angleTol:  DefaultAngleTol,
		reg:       btree.NewG[entry[T]](degree, less[T]),
	}
}

func (C *Checker[T]) SetEnergyTol(tol T) { C.energyTol = tol }
func (C *Checker[T]) SetAngleTol(tol T)  { C.angleTol = tol }
func (C *Checker[T]) EnergyTol() T       { return C.energyTol }

// AngleTol returns the per-torsion angle tolerance. The tolerance applied to the
// angle sums is AngleTol times the number of torsions.
func (C *Checker[T]) AngleTol() T { return C.angleTol }

// Len returns the number of registered conformers.
func (C *Checker[T]) Len() int { return C.reg.Len() }

// Empty returns true if no conformer has been registered since the
// creation of the Checker or the last Reset.
func (C *Checker[T]) Empty() bool { return C.reg.Len() == 0 }

// Reset clears the registry.
func (C *Checker[T]) Reset() {
	C.reg.Clear(false)
	C.seq = 0
}

// Fingerprint returns the fingerprint of the conformer with coordinates pos.
func (C *Checker[T]) Fingerprint(pos geo.Coords[T]) Fingerprint[T] {
	var f Fingerprint[T]
	for _, t := range C.torsions {
		f.Energy += t.Energy(pos)
		f.AngleSum += T(math.Abs(float64(t.Dihedral(pos))))
	}
	return f
}

// IsDuplicate returns true if a conformer with the same fingerprint as pos, within
// the tolerances, has already been registered. Otherwise it registers pos, and
// returns false.
func (C *Checker[T]) IsDuplicate(pos geo.Coords[T]) bool {
	f := C.Fingerprint(pos)
	if C.match(f) {
		return true
	}
	C.reg.ReplaceOrInsert(entry[T]{energy: f.Energy, angleSum: f.AngleSum, seq: C.seq})
	C.seq++
	return false
}

// match looks for a registered fingerprint equivalent to f. It starts from the
// first entry with an energy not smaller than f's, and walks in both directions
// while the energy difference is within the tolerance.
func (C *Checker[T]) match(f Fingerprint[T]) bool {
	angTol := T(len(C.torsions)) * C.angleTol
	pivot := entry[T]{energy: f.Energy, seq: -1}
	found := false
	same := func(e entry[T]) bool {
		d := e.angleSum - f.AngleSum
		return d < angTol && -d < angTol
	}
	C.reg.AscendGreaterOrEqual(pivot, func(e entry[T]) bool {
		if e.energy-f.Energy >= C.energyTol {
			return false
		}
		found = same(e)
		return !found
	})
	if found {
		return true
	}
	//All the entries with the energy of f are above the pivot, so they
	//were already checked.
	C.reg.DescendLessOrEqual(pivot, func(e entry[T]) bool {
		if f.Energy-e.energy >= C.energyTol {
			return false
		}
		found = same(e)
		return !found
	})
	return found
}
