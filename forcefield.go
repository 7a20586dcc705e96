/*
 * forcefield.go, part of goMMFF.
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

package mmff

import (
	"fmt"
	"strings"

	"github.com/rmera/gommff/geo"
)

// Term is implemented by all the interaction records.
type Term[T geo.Real] interface {
	Energy(pos geo.Coords[T]) T
	Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T
	Atoms() []int
}

// Sum returns the total energy of the terms in list.
func Sum[T geo.Real, R Term[T]](list []R, pos geo.Coords[T]) T {
	var e T
	for _, v := range list {
		e += v.Energy(pos)
	}
	return e
}

// SumGradient returns the total energy of the terms in list, and adds their
// gradients to grad. grad is never zeroed, so several calls (one for each
// kind of term) can be accumulated in the same slice.
func SumGradient[T geo.Real, R Term[T]](list []R, pos geo.Coords[T], grad []geo.Vec[T]) T {
	var e T
	for _, v := range list {
		e += v.Gradient(pos, grad)
	}
	return e
}

// ForceField contains the interaction lists for one molecule.
// It doesn't own coordinates, so the same ForceField can be
// evaluated over many geometries (frames, conformers, optimization steps).
type ForceField[T geo.Real] struct {
	Bonds          []BondStretch[T]   `json:"bonds"`
	Angles         []AngleBend[T]     `json:"angles"`
	StretchBends   []StretchBend[T]   `json:"stretchbends"`
	OopBends       []OopBend[T]       `json:"oopbends"`
	Torsions       []Torsion[T]       `json:"torsions"`
	VdW            []VdW[T]           `json:"vdw"`
	Electrostatics []Electrostatic[T] `json:"electrostatics"`
}

// Breakdown holds the energy of each kind of term.
type Breakdown[T geo.Real] struct {
	Bond          T
	Angle         T
	StretchBend   T
	OopBend       T
	Torsion       T
	VdW           T
	Electrostatic T
}

// Total returns the sum of all the contributions.
func (B Breakdown[T]) Total() T {
	return B.Bond + B.Angle + B.StretchBend + B.OopBend + B.Torsion + B.VdW + B.Electrostatic
}

func (B Breakdown[T]) String() string {
	str := []string{
		fmt.Sprintf("Bond stretching %12.5f", float64(B.Bond)),
		fmt.Sprintf("Angle bending   %12.5f", float64(B.Angle)),
		fmt.Sprintf("Stretch-bend    %12.5f", float64(B.StretchBend)),
		fmt.Sprintf("Out-of-plane    %12.5f", float64(B.OopBend)),
		fmt.Sprintf("Torsion         %12.5f", float64(B.Torsion)),
		fmt.Sprintf("Van der Waals   %12.5f", float64(B.VdW)),
		fmt.Sprintf("Electrostatic   %12.5f", float64(B.Electrostatic)),
		fmt.Sprintf("Total           %12.5f", float64(B.Total())),
	}
	return strings.Join(str, "\n")
}

// Terms returns the breakdown of the energy for the coordinates pos.
func (F *ForceField[T]) Terms(pos geo.Coords[T]) Breakdown[T] {
	return Breakdown[T]{
		Bond:          Sum[T](F.Bonds, pos),
		Angle:         Sum[T](F.Angles, pos),
		StretchBend:   Sum[T](F.StretchBends, pos),
		OopBend:       Sum[T](F.OopBends, pos),
		Torsion:       Sum[T](F.Torsions, pos),
		VdW:           Sum[T](F.VdW, pos),
		Electrostatic: Sum[T](F.Electrostatics, pos),
	}
}

// Energy returns the total energy for the coordinates pos.
func (F *ForceField[T]) Energy(pos geo.Coords[T]) T {
	return F.Terms(pos).Total()
}

// Gradient returns the total energy and adds the total gradient to grad,
// which is NOT zeroed first.
func (F *ForceField[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	var e T
	e += SumGradient[T](F.Bonds, pos, grad)
	e += SumGradient[T](F.Angles, pos, grad)
	e += SumGradient[T](F.StretchBends, pos, grad)
	e += SumGradient[T](F.OopBends, pos, grad)
	e += SumGradient[T](F.Torsions, pos, grad)
	e += SumGradient[T](F.VdW, pos, grad)
	e += SumGradient[T](F.Electrostatics, pos, grad)
	return e
}

// Len returns the total number of terms in the force field.
func (F *ForceField[T]) Len() int {
	return len(F.Bonds) + len(F.Angles) + len(F.StretchBends) + len(F.OopBends) +
		len(F.Torsions) + len(F.VdW) + len(F.Electrostatics)
}

// job evaluates a piece of one of the lists.
type job[T geo.Real] func(pos geo.Coords[T], grad []geo.Vec[T]) T

// split divides list in at most n contiguous, disjoint, pieces.
func split[T geo.Real, R Term[T]](list []R, n int) []job[T] {
	ret := make([]job[T], 0, n)
	if len(list) == 0 {
		return ret
	}
	size := len(list) / n
	if len(list)%n != 0 {
		size++
	}
	for start := 0; start < len(list); start += size {
		end := start + size
		if end > len(list) {
			end = len(list)
		}
		piece := list[start:end]
		ret = append(ret, func(pos geo.Coords[T], grad []geo.Vec[T]) T {
			return SumGradient[T](piece, pos, grad)
		})
	}
	return ret
}

type partial[T geo.Real] struct {
	energy T
	grad   []geo.Vec[T]
}

// ParallelGradient does the same as Gradient, using workers gorutines.
// Every worker gets disjoint pieces of the lists and its own accumulator.
// The accumulators are added to grad, in a fixed order, after all the
// workers are done. pos must be safe for concurrent reading.
func (F *ForceField[T]) ParallelGradient(pos geo.Coords[T], grad []geo.Vec[T], workers int) T {
	if workers < 2 {
		return F.Gradient(pos, grad)
	}
	jobs := make([]job[T], 0, 7*workers)
	jobs = append(jobs, split[T](F.Bonds, workers)...)
	jobs = append(jobs, split[T](F.Angles, workers)...)
	jobs = append(jobs, split[T](F.StretchBends, workers)...)
	jobs = append(jobs, split[T](F.OopBends, workers)...)
	jobs = append(jobs, split[T](F.Torsions, workers)...)
	jobs = append(jobs, split[T](F.VdW, workers)...)
	jobs = append(jobs, split[T](F.Electrostatics, workers)...)
	results := make([]chan partial[T], workers)
	for w := range results {
		results[w] = make(chan partial[T], 1)
		go func(w int, out chan partial[T]) {
			g := make([]geo.Vec[T], len(grad))
			var e T
			for j := w; j < len(jobs); j += workers {
				e += jobs[j](pos, g)
			}
			out <- partial[T]{energy: e, grad: g}
		}(w, results[w])
	}
	var e T
	for _, c := range results {
		p := <-c
		e += p.energy
		for i, v := range p.grad {
			grad[i] = geo.Add(grad[i], v)
		}
	}
	return e
}

// NumAtoms returns the number of atoms the force field spans, i.e.
// the largest atom index referenced plus one.
func (F *ForceField[T]) NumAtoms() int {
	highest := -1
	F.eachAtom(func(_ string, _ int, at int) bool {
		if at > highest {
			highest = at
		}
		return true
	})
	return highest + 1
}

// Validate checks that all the atom indexes in the force field are valid for
// a set of natoms coordinates. The evaluators assume this is the case.
func (F *ForceField[T]) Validate(natoms int) error {
	var err error
	F.eachAtom(func(kind string, term int, at int) bool {
		if at < 0 || at >= natoms {
			err = Error{fmt.Sprintf("%s term %d references atom %d, but there are %d atoms", kind, term, at, natoms), []string{"Validate"}, true}
			return false
		}
		return true
	})
	return err
}

// eachAtom calls f for each atom index in each term, until f returns false.
func (F *ForceField[T]) eachAtom(f func(kind string, term, atom int) bool) {
	walk := func(kind string, n int, atoms func(int) []int) bool {
		for i := 0; i < n; i++ {
			for _, at := range atoms(i) {
				if !f(kind, i, at) {
					return false
				}
			}
		}
		return true
	}
	_ = walk("bond", len(F.Bonds), func(i int) []int { return F.Bonds[i].Atoms() }) &&
		walk("angle", len(F.Angles), func(i int) []int { return F.Angles[i].Atoms() }) &&
		walk("stretch-bend", len(F.StretchBends), func(i int) []int { return F.StretchBends[i].Atoms() }) &&
		walk("out-of-plane", len(F.OopBends), func(i int) []int { return F.OopBends[i].Atoms() }) &&
		walk("torsion", len(F.Torsions), func(i int) []int { return F.Torsions[i].Atoms() }) &&
		walk("vdw", len(F.VdW), func(i int) []int { return F.VdW[i].Atoms() }) &&
		walk("electrostatic", len(F.Electrostatics), func(i int) []int { return F.Electrostatics[i].Atoms() })
}
