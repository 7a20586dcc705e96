/*
 * vec.go, part of goMMFF.
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

// Package geo implements the geometric primitives used by the force field:
// distances, bond angles, out-of-plane angles and dihedrals, together with
// their derivatives with respect to the cartesian coordinates of every atom
// involved. All functions are generic over the floating point type.
package geo

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Real is the set of floating point types the library works with.
type Real interface {
	constraints.Float
}

// Vec is a point or vector in 3D space.
type Vec[T Real] [3]T

// Coords is anything that can give the cartesian position of its i-th atom.
// The force field never owns coordinates, it only reads them through this
// interface.
type Coords[T Real] interface {
	Len() int
	Vec(i int) Vec[T]
}

// Vecs is the simplest Coords, a slice of points.
type Vecs[T Real] []Vec[T]

// Len returns the number of points in V.
func (V Vecs[T]) Len() int { return len(V) }

// Vec returns the i-th point of V.
func (V Vecs[T]) Vec(i int) Vec[T] { return V[i] }

// Copy returns a deep copy of the coordinates in c as a Vecs.
func Copy[T Real](c Coords[T]) Vecs[T] {
	ret := make(Vecs[T], c.Len())
	for i := range ret {
		ret[i] = c.Vec(i)
	}
	return ret
}

// ZeroGrad sets all the elements of g to zero.
func ZeroGrad[T Real](g []Vec[T]) {
	for i := range g {
		g[i] = Vec[T]{}
	}
}

func Add[T Real](a, b Vec[T]) Vec[T] {
	return Vec[T]{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Sub[T Real](a, b Vec[T]) Vec[T] {
	return Vec[T]{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Scale[T Real](s T, a Vec[T]) Vec[T] {
	return Vec[T]{s * a[0], s * a[1], s * a[2]}
}

func Dot[T Real](a, b Vec[T]) T {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross[T Real](a, b Vec[T]) Vec[T] {
	return Vec[T]{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the euclidean norm of a.
func Norm[T Real](a Vec[T]) T {
	return T(math.Sqrt(float64(Dot(a, a))))
}

// Neg returns -a
func Neg[T Real](a Vec[T]) Vec[T] {
	return Vec[T]{-a[0], -a[1], -a[2]}
}

// RotateAbout rotates the point p by angle radians around the axis that
// goes from a1 to a2, following the right hand rule. It uses Rodrigues'
// formula, which is what the quaternion (Clifford) rotation reduces to
// for a single point.
func RotateAbout[T Real](p, a1, a2 Vec[T], angle T) Vec[T] {
	axis := Sub(a2, a1)
	n := Norm(axis)
	if n < MinDenominator {
		return p
	}
	k := Scale(1/n, axis)
	v := Sub(p, a1)
	s := T(math.Sin(float64(angle)))
	c := T(math.Cos(float64(angle)))
	//v cos + (k x v) sin + k (k.v)(1-cos)
	rot := Add(Add(Scale(c, v), Scale(s, Cross(k, v))), Scale(Dot(k, v)*(1-c), k))
	return Add(rot, a1)
}
