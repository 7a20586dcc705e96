/*
 * doc.go, part of goMMFF.
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 *
 * /

//package stf implements the simple trajectory format (STF) for goMMFF, where it is used
//to store conformer ensembles and torsion scans. stf aims to produce reasonably small files
//and to be very easy to read and write, so readers/writers can be easily implemented in other
//programing languages / for other libraries or programs.


/******************** Format Specification   ***************************************************


An STF file has the extension stf, and it is compressed with z-standard (zstd). The last letter
of the file name selects the compression: 'z' (as in .stz) for gzip, 'r' for deflate, and zstd
for anything else.

A STF file may only contain ASCII symbols.

A STF file has a "header" starting in the first line, and ending with a line that starts with the
characters "**" followed by one or more spaces, and the number of atoms per frame.

Each line of the header must be a pair key=value. The precision (an integer greater than 0,
see below) must be included in the header, with the corresponding key "prec". For example,
a 'precision' line could be:

prec=3

goMMFF also writes the keys "run" (the ID of the conformer search that produced the file) and
"comment". Readers must ignore keys they don't know.

After the header, the file has one line per atom, per frame. Each line contains  3 numbers,
corresponding to the x y and z cartesian coordinates, respectively, and nothing more. Each
of these 3 number contains the respective coordinate in Angstrom, multiplied by 10 to the
power of (precision), and rounded to make it an integer. The default precision in this
package is 3.

Each frame ends with a line starting with the character "*" (no whitespaces before) , optionally
followed by one or more whitespace and the string "e=" followed by the energy of the frame,
in kcal/mol, as a floating point number (precision unspecified).

The "**" sequence may only be used as a header termination, as described above and can not appear
anywhere else in the file.

***************************************************************************************************/

package stf
