/*
 * matrix.go, part of goMMFF.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/rmera/gommff/geo"
)

const cols int = 3

// Matrix is a set of vectors in 3D space.
// Within the package it is understood that a "vector" is a row vector, i.e. the
// cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

func Dense2Matrix(A *mat.Dense) *Matrix {
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// The Matrix uses data as its storage, so changes in one are seen in the other.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	rows := l / cols
	if l == 0 {
		return nil, Error{"Input slice is empty", []string{"NewMatrix"}, true}
	}
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice lenght %d not divisible by %d: %d", l, cols, l%cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors. Panics if vecs<1.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

// FromCoords returns a new Matrix with the vectors in c.
func FromCoords(c geo.Coords[float64]) *Matrix {
	F := Zeros(c.Len())
	for i := 0; i < c.Len(); i++ {
		F.SetVec(i, c.Vec(i))
	}
	return F
}

// NVecs returns the number of vectors (rows) in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != cols {
		panic(PanicMsg(fmt.Sprintf("goMMFF/v3: A v3.Matrix should have 3 columns, has %d", c)))
	}
	return r
}

// Len returns the number of vectors in F. Together with Vec, it makes Matrix
// a geo.Coords.
func (F *Matrix) Len() int {
	return F.NVecs()
}

// Vec returns a copy of the ith vector of F.
func (F *Matrix) Vec(i int) geo.Vec[float64] {
	return geo.Vec[float64]{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v geo.Vec[float64]) {
	F.Set(i, 0, v[0])
	F.Set(i, 1, v[1])
	F.Set(i, 2, v[2])
}

// Vecs returns a copy of all the vectors in F.
func (F *Matrix) Vecs() geo.Vecs[float64] {
	return geo.Copy[float64](F)
}

// VecView returns a view of the ith vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, cols).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F containing the vectors from i (inclusive) to j (exclusive).
// Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j int) *Matrix {
	r := F.Dense.Slice(i, j, 0, cols).(*mat.Dense)
	return &Matrix{r}
}

// RawData returns the backing slice of F, with the vectors one after the other.
func (F *Matrix) RawData() []float64 {
	raw := F.RawMatrix()
	return raw.Data[:raw.Rows*raw.Stride]
}

// Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	return &Matrix{mat.DenseCopyOf(F.Dense)}
}

// SomeVecs puts in the receiver the vectors of A with the indexes in clist,
// in the same order as clist. Panics if the receiver doesn't have
// len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(PanicMsg(fmt.Sprintf("goMMFF/v3: SomeVecs: The receiver has %d vectors, %d are requested", F.NVecs(), len(clist))))
	}
	for key, val := range clist {
		F.SetVec(key, A.Vec(val))
	}
}

// SomeVecsSafe does the same as SomeVecs, but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"SomeVecsSafe"}, true}
			case mat.Error:
				err = Error{fmt.Sprintf("goMMFF/v3: Error in a gonum function: %s", e), []string{"SomeVecsSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.SomeVecs(A, clist)
	return err
}

// SetVecs sets the vectors of F with the indexes in clist to
// the vectors of A, in order.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	if A.NVecs() != len(clist) {
		panic(PanicMsg(fmt.Sprintf("goMMFF/v3: SetVecs: %d vectors to set, %d given", len(clist), A.NVecs())))
	}
	for key, val := range clist {
		F.SetVec(val, A.Vec(key))
	}
}

// Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() geo.Vec[float64] {
	var c geo.Vec[float64]
	n := F.NVecs()
	for j := 0; j < cols; j++ {
		c[j] = floats.Sum(mat.Col(nil, j, F.Dense)) / float64(n)
	}
	return c
}

// SubVec subtracts v from each vector of F, in place.
func (F *Matrix) SubVec(v geo.Vec[float64]) {
	for i := 0; i < F.NVecs(); i++ {
		F.SetVec(i, geo.Sub(F.Vec(i), v))
	}
}

// RMSD returns the root-mean-square deviation between the vectors of F and
// those of A, without superimposing them.
func (F *Matrix) RMSD(A *Matrix) (float64, error) {
	if F.NVecs() != A.NVecs() {
		return -1, Error{fmt.Sprintf("Matrices with different number of vectors: %d and %d", F.NVecs(), A.NVecs()), []string{"RMSD"}, true}
	}
	d := floats.Distance(F.RawData(), A.RawData(), 2)
	return d / math.Sqrt(float64(F.NVecs())), nil
}

// String returns a neat string representation of F.
func (F *Matrix) String() string {
	r := F.NVecs()
	v := make([]string, 0, r)
	for i := 0; i < r; i++ {
		row := F.Vec(i)
		v = append(v, fmt.Sprintf(" %8.4f %8.4f %8.4f", row[0], row[1], row[2]))
	}
	return "[" + strings.TrimPrefix(strings.Join(v, "\n"), " ") + " ]"
}

// Error is the error type for the v3 package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("goMMFF/v3: %s", err.message)
}

// Decorate adds the caller's name to the error's decoration, and returns
// the whole decoration.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) Critical() bool { return err.critical }

// PanicMsg is the type used for the panics in this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }
