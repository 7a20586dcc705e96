/*
 * doc.go, part of goMMFF.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package mmff is the main package of the goMMFF library. It implements the energy terms
of the MMFF94 force field, and their analytical gradients, for already parameterized
interactions.

	**goMMFF Capabilities**

	Bond stretching (quartic), angle bending (cubic, and the special form for linear angles),
	stretch-bend coupling, out-of-plane bending, torsions, buffered 14-7 van der Waals
	and buffered coulombic electrostatics.

	Each term can be evaluated from the coordinates or from the already-obtained geometric
	quantity (distance, cosine of the angle/dihedral). Both forms give the same number.

	Analytical gradients for every term. The gradients are always added to the
	accumulator given, never overwritten, so several kinds of terms can be
	accumulated in one slice.

	A ForceField container with per-term energy breakdown and a concurrent gradient.

	Conformer duplicate detection (package confdup), conformational search and
	torsion scans (confsearch), local and global optimization (opt), which use
	gonum and the mayfly library, respectively.

	Reading and writing of parameterized systems in JSON (chemjson) and conformer
	ensembles in the compressed STF trajectory format (traj/stf).

The library doesn't assign atom types or parameters. Whoever creates the interaction
records is responsible for giving correct parameters and atom indexes
(ForceField.Validate can help with the latter).

All the numerical code is generic over the floating point type (see geo.Real), and
reads the coordinates through the geo.Coords interface, implemented by geo.Vecs and
by the gonum-based v3.Matrix.
*/
package mmff
