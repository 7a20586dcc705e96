/*
 * doc.go, part of goMMFF.
 *
 * Copyright 2015 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

/*
Package v3 implements a Matrix type representing a row-major 3D matrix (i.e. a Nx3 matrix).
The v3.Matrix is used to keep the cartesian coordinates of sets of atoms in goMMFF.
It is based on gonum's Dense type, with some additional restrictions
because of the fixed number of columns.

A *v3.Matrix implements geo.Coords[float64], so it can be given directly to the
energy and gradient evaluators. A Matrix created with NewMatrix shares its
storage with the slice given, which is what the optimizers need to evaluate a
flat parameter vector without copying it.
*/
package v3
