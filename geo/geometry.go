/*
 * geometry.go, part of goMMFF.
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

package geo

import "math"

// MinDenominator is the smallest magnitude allowed for a denominator that
// can vanish at a degenerate geometry (coincident atoms, linear angles,
// coplanar dihedrals). Smaller values are replaced by it.
const MinDenominator = 1e-7

func clampDen[T Real](x T) T {
	if x < MinDenominator {
		return MinDenominator
	}
	return x
}

// clampCos takes care of floating point errors that could put
// a cosine slightly outside [-1,1]
func clampCos[T Real](c T) T {
	if c > 1 {
		return 1
	} else if c < -1 {
		return -1
	}
	return c
}

// Angle returns the angle, in radians, that has the cosine c.
// c is clamped to [-1,1] first.
func Angle[T Real](c T) T {
	return T(math.Acos(float64(clampCos(c))))
}

// Sin returns the sine corresponding to the cosine c of an angle
// in [0,pi], i.e., sqrt(1-c^2), never smaller than MinDenominator.
func Sin[T Real](c T) T {
	s2 := 1 - c*c
	if s2 < 0 {
		s2 = 0
	}
	return clampDen(T(math.Sqrt(float64(s2))))
}

/*******Distances********/

// Distance returns the distance between p1 and p2.
func Distance[T Real](p1, p2 Vec[T]) T {
	return Norm(Sub(p1, p2))
}

// DistanceGrad returns the distance between p1 and p2, and the derivatives
// of the distance with respect to p1 and p2. For coincident points the
// derivatives are zero.
func DistanceGrad[T Real](p1, p2 Vec[T]) (r T, g1, g2 Vec[T]) {
	d := Sub(p1, p2)
	r = Norm(d)
	if r < MinDenominator {
		return r, g1, g2
	}
	g1 = Scale(1/r, d)
	g2 = Neg(g1)
	return r, g1, g2
}

/*******Bond angles*******/

// BondAngleCos returns the cosine of the angle p1-p2-p3, where p2 is the
// vertex.
func BondAngleCos[T Real](p1, p2, p3 Vec[T]) T {
	return BondAngleCosLen(p1, p2, p3, Distance(p1, p2), Distance(p3, p2))
}

// BondAngleCosLen is like BondAngleCos, but takes the already computed
// lengths of the sides, r21 (p1-p2) and r23 (p3-p2).
func BondAngleCosLen[T Real](p1, p2, p3 Vec[T], r21, r23 T) T {
	ua := Scale(1/clampDen(r21), Sub(p1, p2))
	ub := Scale(1/clampDen(r23), Sub(p3, p2))
	return clampCos(Dot(ua, ub))
}

// BondAngleCosGrad returns the cosine of the angle p1-p2-p3 and its
// derivatives with respect to p1, p2 and p3.
func BondAngleCosGrad[T Real](p1, p2, p3 Vec[T]) (c T, g1, g2, g3 Vec[T]) {
	return BondAngleCosGradLen(p1, p2, p3, Distance(p1, p2), Distance(p3, p2))
}

// BondAngleCosGradLen is like BondAngleCosGrad, with the lengths of the sides
// given.
func BondAngleCosGradLen[T Real](p1, p2, p3 Vec[T], r21, r23 T) (c T, g1, g2, g3 Vec[T]) {
	ra := clampDen(r21)
	rb := clampDen(r23)
	ua := Scale(1/ra, Sub(p1, p2))
	ub := Scale(1/rb, Sub(p3, p2))
	c = Dot(ua, ub)
	g1 = Scale(1/ra, Sub(ub, Scale(c, ua)))
	g3 = Scale(1/rb, Sub(ua, Scale(c, ub)))
	g2 = Neg(Add(g1, g3))
	return clampCos(c), g1, g2, g3
}

/*******Out-of-plane angles*******/

// OopCos returns the cosine of the angle between the bond j-l and the normal
// to the plane defined by i, j and k (j being the central atom). The
// out-of-plane angle is 90 degrees minus the angle with that cosine.
func OopCos[T Real](i, j, k, l Vec[T]) T {
	n := Cross(Sub(i, j), Sub(k, j))
	v := Sub(l, j)
	un := Scale(1/clampDen(Norm(n)), n)
	uv := Scale(1/clampDen(Norm(v)), v)
	return clampCos(Dot(un, uv))
}

// OopCosGrad returns the same value as OopCos and its derivatives with
// respect to the four points.
func OopCosGrad[T Real](i, j, k, l Vec[T]) (c T, gi, gj, gk, gl Vec[T]) {
	A := Sub(i, j)
	B := Sub(k, j)
	n := Cross(A, B)
	v := Sub(l, j)
	nn := clampDen(Norm(n))
	nv := clampDen(Norm(v))
	un := Scale(1/nn, n)
	uv := Scale(1/nv, v)
	c = Dot(un, uv)
	wn := Scale(1/nn, Sub(uv, Scale(c, un))) //dc/dn
	wv := Scale(1/nv, Sub(un, Scale(c, uv))) //dc/dv
	gi = Cross(B, wn)
	gk = Cross(wn, A)
	gl = wv
	gj = Neg(Add(Add(gi, gk), gl))
	return clampCos(c), gi, gj, gk, gl
}

/*******Dihedrals*******/

// DihedralCos returns the cosine of the dihedral angle i-j-k-l, i.e. the
// angle between the planes ijk and jkl.
func DihedralCos[T Real](i, j, k, l Vec[T]) T {
	b1 := Sub(j, i)
	b2 := Sub(k, j)
	b3 := Sub(l, k)
	n1 := Cross(b1, b2)
	n2 := Cross(b2, b3)
	u1 := Scale(1/clampDen(Norm(n1)), n1)
	u2 := Scale(1/clampDen(Norm(n2)), n2)
	return clampCos(Dot(u1, u2))
}

// DihedralCosGrad returns the cosine of the dihedral i-j-k-l and its
// derivatives with respect to the four points.
func DihedralCosGrad[T Real](i, j, k, l Vec[T]) (c T, gi, gj, gk, gl Vec[T]) {
	b1 := Sub(j, i)
	b2 := Sub(k, j)
	b3 := Sub(l, k)
	n1 := Cross(b1, b2)
	n2 := Cross(b2, b3)
	r1 := clampDen(Norm(n1))
	r2 := clampDen(Norm(n2))
	u1 := Scale(1/r1, n1)
	u2 := Scale(1/r2, n2)
	c = Dot(u1, u2)
	w1 := Scale(1/r1, Sub(u2, Scale(c, u1))) //dc/dn1
	w2 := Scale(1/r2, Sub(u1, Scale(c, u2))) //dc/dn2
	gb1 := Cross(b2, w1)
	gb2 := Add(Cross(w1, b1), Cross(b3, w2))
	gb3 := Cross(w2, b2)
	gi = Neg(gb1)
	gj = Sub(gb1, gb2)
	gk = Sub(gb2, gb3)
	gl = gb3
	return clampCos(c), gi, gj, gk, gl
}

// Dihedral returns the signed dihedral angle i-j-k-l in radians, in the
// range (-pi,pi].
func Dihedral[T Real](i, j, k, l Vec[T]) T {
	b1 := Sub(j, i)
	b2 := Sub(k, j)
	b3 := Sub(l, k)
	first := Dot(Scale(Norm(b2), b1), Cross(b2, b3))
	second := Dot(Cross(b1, b2), Cross(b2, b3))
	return T(math.Atan2(float64(first), float64(second)))
}
