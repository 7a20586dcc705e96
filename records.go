/*
 * records.go, part of goMMFF.
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

import "github.com/rmera/gommff/geo"

//The interaction records. They are created, fully parameterized, by whoever
//assigns the force field, and are only read here. Atom indexes refer to the
//coordinates passed to the evaluators, and they are not checked (see
//ForceField.Validate). Angles are in degrees, lengths in A, energies in kcal/mol.

// BondStretch is the bond stretching term between atoms I and J.
type BondStretch[T geo.Real] struct {
	I    int `json:"i"`
	J    int `json:"j"`
	Type int `json:"type"`
	Kb   T   `json:"kb"`   //md/A
	R0   T   `json:"r0"`   //A
}

// Atoms returns the indexes of the atoms involved in the term.
func (B BondStretch[T]) Atoms() []int { return []int{B.I, B.J} }

// AngleBend is the angle bending term for the angle I-J-K, J being
// the vertex. Linear is set by the parameterization for angles that are
// (nearly) 180 degrees at equilibrium, and selects the 1+cos(theta) form.
type AngleBend[T geo.Real] struct {
	I      int  `json:"i"`
	J      int  `json:"j"`
	K      int  `json:"k"`
	Type   int  `json:"type"`
	Ka     T    `json:"ka"`     //md*A/rad^2
	Theta0 T    `json:"theta0"` //degrees
	Linear bool `json:"linear"`
}

func (A AngleBend[T]) Atoms() []int { return []int{A.I, A.J, A.K} }

// StretchBend couples the stretching of the I-J and K-J bonds with
// the bending of the I-J-K angle. The parameterization doesn't
// produce these terms for linear angles.
type StretchBend[T geo.Real] struct {
	I      int `json:"i"`
	J      int `json:"j"`
	K      int `json:"k"`
	Type   int `json:"type"`
	R0IJ   T   `json:"r0ij"`
	R0KJ   T   `json:"r0kj"`
	Theta0 T   `json:"theta0"`
	KbaIJK T   `json:"kbaijk"`
	KbaKJI T   `json:"kbakji"`
}

func (S StretchBend[T]) Atoms() []int { return []int{S.I, S.J, S.K} }

// OopBend is the out-of-plane bending of the bond J-L with respect to
// the plane I-J-K. J is the central atom.
type OopBend[T geo.Real] struct {
	I    int `json:"i"`
	J    int `json:"j"`
	K    int `json:"k"`
	L    int `json:"l"`
	Type int `json:"type"`
	Koop T   `json:"koop"` //md*A/rad^2
}

func (O OopBend[T]) Atoms() []int { return []int{O.I, O.J, O.K, O.L} }

// Torsion is the torsional term for the dihedral I-J-K-L.
type Torsion[T geo.Real] struct {
	I    int `json:"i"`
	J    int `json:"j"`
	K    int `json:"k"`
	L    int `json:"l"`
	Type int `json:"type"`
	V1   T   `json:"v1"`   //kcal/mol
	V2   T   `json:"v2"`
	V3   T   `json:"v3"`
}

func (To Torsion[T]) Atoms() []int { return []int{To.I, To.J, To.K, To.L} }

// VdW is the buffered 14-7 van der Waals term between I and J.
// Epsilon, RStar and RStar7 (RStar^7) are the combined pair
// parameters, precomputed during parameterization.
type VdW[T geo.Real] struct {
	I       int `json:"i"`
	J       int `json:"j"`
	Type    int `json:"type"`
	Epsilon T   `json:"epsilon"`
	RStar   T   `json:"rstar"`
	RStar7  T   `json:"rstar7"`
}

// NewVdW returns a VdW term for the pair i,j with RStar7 computed from rstar.
func NewVdW[T geo.Real](i, j int, epsilon, rstar T) VdW[T] {
	r2 := rstar * rstar
	r7 := r2 * r2 * r2 * rstar
	return VdW[T]{I: i, J: j, Epsilon: epsilon, RStar: rstar, RStar7: r7}
}

func (V VdW[T]) Atoms() []int { return []int{V.I, V.J} }

// Electrostatic is the buffered coulombic term between I and J.
// If DistDep is true, a distance-dependent dielectric is used (the
// buffered distance appears squared in the denominator).
// Scale is the total scaling factor, including the 0.75 for 1-4 pairs.
type Electrostatic[T geo.Real] struct {
	I          int  `json:"i"`
	J          int  `json:"j"`
	Type       int  `json:"type"`
	Qi         T    `json:"qi"`
	Qj         T    `json:"qj"`
	Dielectric T    `json:"dielectric"`
	DistDep    bool `json:"distdep"`
	Scale      T    `json:"scale"`
}

// Scale14 is the factor applied to electrostatic interactions between
// atoms in a 1-4 relationship.
const Scale14 = 0.75

// NewElectrostatic returns an Electrostatic term for the atoms i and j with
// charges qi and qj. If is14 is true, the 1-4 scaling is applied.
// A non-positive dielectric is replaced by 1.
func NewElectrostatic[T geo.Real](i, j int, qi, qj, dielectric T, distdep, is14 bool) Electrostatic[T] {
	if dielectric <= 0 {
		dielectric = 1
	}
	var scale T = 1
	if is14 {
		scale = Scale14
	}
	return Electrostatic[T]{I: i, J: j, Qi: qi, Qj: qj, Dielectric: dielectric, DistDep: distdep, Scale: scale}
}

func (E Electrostatic[T]) Atoms() []int { return []int{E.I, E.J} }
