/*
 * numgrad.go, part of goMMFF.
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

// DefaultStep is the default displacement, in A, for NumericalGradient.
const DefaultStep = 1e-5

// NumericalGradient returns a brute-force central-difference gradient of the function f
// at the coordinates pos, with a displacement h (DefaultStep if h<=0).
// It is meant to check the analytical gradients, not to be used in optimizations, as it
// needs 6N evaluations of f. pos is not modified.
func NumericalGradient[T geo.Real](f func(geo.Coords[T]) T, pos geo.Coords[T], h T) []geo.Vec[T] {
	if h <= 0 {
		h = DefaultStep
	}
	work := geo.Copy(pos)
	grad := make([]geo.Vec[T], len(work))
	for i := range work {
		for j := 0; j < 3; j++ {
			orig := work[i][j]
			work[i][j] = orig + h
			plus := f(work)
			work[i][j] = orig - h
			minus := f(work)
			work[i][j] = orig
			grad[i][j] = (plus - minus) / (2 * h)
		}
	}
	return grad
}
