/*
 * energy.go, part of goMMFF.
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
	"math"

	"github.com/rmera/gommff/geo"
)

const (
	// MDyneAToKcal converts md*A to kcal/mol.
	MDyneAToKcal = 143.9325
	// ElectricConst is the coulombic conversion factor to kcal/mol
	// for charges in e and distances in A.
	ElectricConst = 332.0716

	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi

	// The bending constants are the tabulated MMFF94 figures, for angles in degrees.
	angleConst   = 0.043844 // md*A/rad^2 to kcal/mol/deg^2
	cubicBend    = -0.007   // deg^-1
	cubicStretch = -2.0
	quartStretch = 7.0 / 12.0 * cubicStretch * cubicStretch
	stbnConst    = 2.51210 // md/rad to kcal/mol/A/deg
	eleBuffer    = 0.05
	vdwB         = 0.07
	vdwG         = 0.12
)

//Energies from the geometric quantities. These are the "precomputed" forms:
//the methods of the interaction records compute the quantity from the coordinates
//and then call these, so both forms give the exact same number.

// BondStretchEnergy returns the bond stretching energy for a bond of length r,
// with force constant kb and reference length r0.
func BondStretchEnergy[T geo.Real](kb, r0, r T) T {
	dr := r - r0
	dr2 := dr * dr
	return MDyneAToKcal * kb / 2 * dr2 * (1 + cubicStretch*dr + quartStretch*dr2)
}

// AngleBendEnergy returns the bending energy of an angle which cosine is
// cosTheta, with force constant ka and reference angle theta0 (in degrees).
// if linear is true, the form for linear reference angles is used.
func AngleBendEnergy[T geo.Real](ka, theta0, cosTheta T, linear bool) T {
	if linear {
		return MDyneAToKcal * ka * (1 + cosTheta)
	}
	dt := Rad2Deg*geo.Angle(cosTheta) - theta0
	return 0.5 * angleConst * ka * dt * dt * (1 + cubicBend*dt)
}

// StretchBendEnergy returns the stretch-bend energy for bond lengths
// rij and rkj and an angle with cosine cosTheta.
func StretchBendEnergy[T geo.Real](r0ij, r0kj, theta0, kbaijk, kbakji, rij, rkj, cosTheta T) T {
	dt := Rad2Deg*geo.Angle(cosTheta) - theta0
	return stbnConst * (kbaijk*(rij-r0ij) + kbakji*(rkj-r0kj)) * dt
}

// oopChi returns the out-of-plane angle in degrees from the cosine
// of the angle between the bond and the plane normal.
func oopChi[T geo.Real](cosOop T) T {
	return 90 - Rad2Deg*geo.Angle(cosOop)
}

// OopBendEnergy returns the out-of-plane bending energy, with force constant
// koop, where cosOop is the cosine of the angle between the bond and the normal to
// the plane.
func OopBendEnergy[T geo.Real](koop, cosOop T) T {
	chi := oopChi(cosOop)
	return 0.5 * angleConst * koop * chi * chi
}

// TorsionEnergy returns the torsional energy for a dihedral with the cosine
// cosPhi.
func TorsionEnergy[T geo.Real](v1, v2, v3, cosPhi T) T {
	c := cosPhi
	cos2 := 2*c*c - 1
	cos3 := c * (4*c*c - 3)
	return 0.5 * (v1*(1+c) + v2*(1-cos2) + v3*(1+cos3))
}

// VdWEnergy returns the buffered 14-7 energy for the interatomic distance r.
// epsilon, rstar and rstar7 are the pair well depth, minimum-energy separation,
// and minimum-energy separation to the 7th power.
func VdWEnergy[T geo.Real](epsilon, rstar, rstar7, r T) T {
	a := (1 + vdwB) * rstar / (r + vdwB*rstar)
	a2 := a * a
	a7 := a2 * a2 * a2 * a
	r2 := r * r
	r7 := r2 * r2 * r2 * r
	b := (1 + vdwG) * rstar7 / (r7 + vdwG*rstar7)
	return epsilon * a7 * (b - 2)
}

// ElectrostaticEnergy returns the buffered coulombic energy between the
// charges qi and qj at a distance r.
func ElectrostaticEnergy[T geo.Real](qi, qj, dielectric T, distdep bool, scale, r T) T {
	rb := r + eleBuffer
	den := dielectric * rb
	if distdep {
		den *= rb
	}
	return scale * ElectricConst * qi * qj / den
}

/********The record methods*******/

// Energy returns the energy for the term with the coordinates in pos.
func (B BondStretch[T]) Energy(pos geo.Coords[T]) T {
	r := geo.Distance(pos.Vec(B.I), pos.Vec(B.J))
	return BondStretchEnergy(B.Kb, B.R0, r)
}

func (A AngleBend[T]) Energy(pos geo.Coords[T]) T {
	c := geo.BondAngleCos(pos.Vec(A.I), pos.Vec(A.J), pos.Vec(A.K))
	return AngleBendEnergy(A.Ka, A.Theta0, c, A.Linear)
}

func (S StretchBend[T]) Energy(pos geo.Coords[T]) T {
	pi, pj, pk := pos.Vec(S.I), pos.Vec(S.J), pos.Vec(S.K)
	rij := geo.Distance(pi, pj)
	rkj := geo.Distance(pk, pj)
	c := geo.BondAngleCosLen(pi, pj, pk, rij, rkj)
	return StretchBendEnergy(S.R0IJ, S.R0KJ, S.Theta0, S.KbaIJK, S.KbaKJI, rij, rkj, c)
}

func (O OopBend[T]) Energy(pos geo.Coords[T]) T {
	c := geo.OopCos(pos.Vec(O.I), pos.Vec(O.J), pos.Vec(O.K), pos.Vec(O.L))
	return OopBendEnergy(O.Koop, c)
}

func (To Torsion[T]) Energy(pos geo.Coords[T]) T {
	c := geo.DihedralCos(pos.Vec(To.I), pos.Vec(To.J), pos.Vec(To.K), pos.Vec(To.L))
	return TorsionEnergy(To.V1, To.V2, To.V3, c)
}

// Dihedral returns the signed dihedral angle, in radians, for the torsion.
func (To Torsion[T]) Dihedral(pos geo.Coords[T]) T {
	return geo.Dihedral(pos.Vec(To.I), pos.Vec(To.J), pos.Vec(To.K), pos.Vec(To.L))
}

func (V VdW[T]) Energy(pos geo.Coords[T]) T {
	r := geo.Distance(pos.Vec(V.I), pos.Vec(V.J))
	return VdWEnergy(V.Epsilon, V.RStar, V.RStar7, r)
}

func (E Electrostatic[T]) Energy(pos geo.Coords[T]) T {
	r := geo.Distance(pos.Vec(E.I), pos.Vec(E.J))
	return ElectrostaticEnergy(E.Qi, E.Qj, E.Dielectric, E.DistDep, E.Scale, r)
}
