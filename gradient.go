/*
 * gradient.go, part of goMMFF.
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

//All the Gradient methods return the energy of the term and ADD the derivatives
//of the energy with respect to the coordinates of each atom in the term
//to the corresponding elements of grad. They never overwrite grad, so
//the caller has to zero it before a new pass. grad must have the same
//indexing as pos.

// addTo adds s*v to the i-th element of the accumulator.
func addTo[T geo.Real](grad []geo.Vec[T], i int, s T, v geo.Vec[T]) {
	g := &grad[i]
	g[0] += s * v[0]
	g[1] += s * v[1]
	g[2] += s * v[2]
}

// dThetaDegdCos returns d(theta, in degrees)/d(cos theta), with the sine
// clamped away from zero.
func dThetaDegdCos[T geo.Real](c T) T {
	return -Rad2Deg / geo.Sin(c)
}

// BondStretchDeriv returns the derivative of the bond-stretching energy with
// respect to the bond length.
func BondStretchDeriv[T geo.Real](kb, r0, r T) T {
	dr := r - r0
	return MDyneAToKcal * kb * dr * (1 + 1.5*cubicStretch*dr + 2*quartStretch*dr*dr)
}

// Gradient returns the energy and adds its gradient to grad.
func (B BondStretch[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	r, gi, gj := geo.DistanceGrad(pos.Vec(B.I), pos.Vec(B.J))
	de := BondStretchDeriv(B.Kb, B.R0, r)
	addTo(grad, B.I, de, gi)
	addTo(grad, B.J, de, gj)
	return BondStretchEnergy(B.Kb, B.R0, r)
}

// AngleBendDeriv returns the derivative of the angle bending energy with
// respect to the cosine of the angle.
func AngleBendDeriv[T geo.Real](ka, theta0, cosTheta T, linear bool) T {
	if linear {
		return MDyneAToKcal * ka
	}
	dt := Rad2Deg*geo.Angle(cosTheta) - theta0
	dEdt := angleConst * ka * dt * (1 + 1.5*cubicBend*dt)
	return dEdt * dThetaDegdCos(cosTheta)
}

func (A AngleBend[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	c, gi, gj, gk := geo.BondAngleCosGrad(pos.Vec(A.I), pos.Vec(A.J), pos.Vec(A.K))
	de := AngleBendDeriv(A.Ka, A.Theta0, c, A.Linear)
	addTo(grad, A.I, de, gi)
	addTo(grad, A.J, de, gj)
	addTo(grad, A.K, de, gk)
	return AngleBendEnergy(A.Ka, A.Theta0, c, A.Linear)
}

func (S StretchBend[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	pi, pj, pk := pos.Vec(S.I), pos.Vec(S.J), pos.Vec(S.K)
	rij, dij_i, dij_j := geo.DistanceGrad(pi, pj)
	rkj, dkj_k, dkj_j := geo.DistanceGrad(pk, pj)
	c, ci, cj, ck := geo.BondAngleCosGradLen(pi, pj, pk, rij, rkj)
	dt := Rad2Deg*geo.Angle(c) - S.Theta0
	stretch := S.KbaIJK*(rij-S.R0IJ) + S.KbaKJI*(rkj-S.R0KJ)
	dErij := stbnConst * S.KbaIJK * dt
	dErkj := stbnConst * S.KbaKJI * dt
	dEc := stbnConst * stretch * dThetaDegdCos(c)
	addTo(grad, S.I, dErij, dij_i)
	addTo(grad, S.I, dEc, ci)
	addTo(grad, S.J, dErij, dij_j)
	addTo(grad, S.J, dErkj, dkj_j)
	addTo(grad, S.J, dEc, cj)
	addTo(grad, S.K, dErkj, dkj_k)
	addTo(grad, S.K, dEc, ck)
	return StretchBendEnergy(S.R0IJ, S.R0KJ, S.Theta0, S.KbaIJK, S.KbaKJI, rij, rkj, c)
}

// OopBendDeriv returns the derivative of the out-of-plane energy with respect
// to the cosine between the bond and the plane normal.
func OopBendDeriv[T geo.Real](koop, cosOop T) T {
	chi := oopChi(cosOop)
	//chi = 90 - acos(c), so dchi/dc = +1/sin
	return angleConst * koop * chi * Rad2Deg / geo.Sin(cosOop)
}

func (O OopBend[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	c, gi, gj, gk, gl := geo.OopCosGrad(pos.Vec(O.I), pos.Vec(O.J), pos.Vec(O.K), pos.Vec(O.L))
	de := OopBendDeriv(O.Koop, c)
	addTo(grad, O.I, de, gi)
	addTo(grad, O.J, de, gj)
	addTo(grad, O.K, de, gk)
	addTo(grad, O.L, de, gl)
	return OopBendEnergy(O.Koop, c)
}

// TorsionDeriv returns the derivative of the torsion energy with respect to
// the cosine of the dihedral. It goes through dE/dPhi, with the sine of the
// dihedral clamped in the denominator.
func TorsionDeriv[T geo.Real](v1, v2, v3, cosPhi T) T {
	s2 := 1 - cosPhi*cosPhi
	if s2 < 0 {
		s2 = 0
	}
	s := T(math.Sqrt(float64(s2)))
	sin2 := 2 * s * cosPhi
	sin3 := 3*s - 4*s*s2
	dEdPhi := v2*sin2 - 0.5*v1*s - 1.5*v3*sin3
	return -dEdPhi / geo.Sin(cosPhi)
}

func (To Torsion[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	c, gi, gj, gk, gl := geo.DihedralCosGrad(pos.Vec(To.I), pos.Vec(To.J), pos.Vec(To.K), pos.Vec(To.L))
	de := TorsionDeriv(To.V1, To.V2, To.V3, c)
	addTo(grad, To.I, de, gi)
	addTo(grad, To.J, de, gj)
	addTo(grad, To.K, de, gk)
	addTo(grad, To.L, de, gl)
	return TorsionEnergy(To.V1, To.V2, To.V3, c)
}

// VdWDeriv returns the derivative of the buffered 14-7 energy with respect to
// the distance.
func VdWDeriv[T geo.Real](epsilon, rstar, rstar7, r T) T {
	rb := r + vdwB*rstar
	a := (1 + vdwB) * rstar / rb
	a2 := a * a
	a7 := a2 * a2 * a2 * a
	r2 := r * r
	r6 := r2 * r2 * r2
	den := r6*r + vdwG*rstar7
	b := (1 + vdwG) * rstar7 / den
	return epsilon * (-7*a7*(b-2)/rb - 7*a7*b*r6/den)
}

func (V VdW[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	r, gi, gj := geo.DistanceGrad(pos.Vec(V.I), pos.Vec(V.J))
	de := VdWDeriv(V.Epsilon, V.RStar, V.RStar7, r)
	addTo(grad, V.I, de, gi)
	addTo(grad, V.J, de, gj)
	return VdWEnergy(V.Epsilon, V.RStar, V.RStar7, r)
}

func (E Electrostatic[T]) Gradient(pos geo.Coords[T], grad []geo.Vec[T]) T {
	r, gi, gj := geo.DistanceGrad(pos.Vec(E.I), pos.Vec(E.J))
	e := ElectrostaticEnergy(E.Qi, E.Qj, E.Dielectric, E.DistDep, E.Scale, r)
	var n T = 1
	if E.DistDep {
		n = 2
	}
	de := -n * e / (r + eleBuffer)
	addTo(grad, E.I, de, gi)
	addTo(grad, E.J, de, gj)
	return e
}
