/*
 * json.go, part of goMMFF.
 *
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
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chemjson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/v3"
)

//A ready-to-serialize molecular system: coordinates, in A, and force field terms.
type System struct {
	Comment    string                   `json:"comment,omitempty"`
	Coords     [][3]float64             `json:"coords"`
	ForceField mmff.ForceField[float64] `json:"forcefield"`
}

//NewSystem returns a System with the given force field and a copy of the coordinates.
func NewSystem(ff *mmff.ForceField[float64], coords geo.Coords[float64], comment string) *System {
	S := &System{Comment: comment, ForceField: *ff}
	S.Coords = make([][3]float64, coords.Len())
	for i := range S.Coords {
		S.Coords[i] = coords.Vec(i)
	}
	return S
}

//Matrix returns the coordinates of the system in a new v3.Matrix.
func (S *System) Matrix() (*v3.Matrix, error) {
	raw := make([]float64, 0, 3*len(S.Coords))
	for _, c := range S.Coords {
		raw = append(raw, c[:]...)
	}
	return v3.NewMatrix(raw)
}

//Validate checks that all the terms refer to existing atoms.
func (S *System) Validate() error {
	if len(S.Coords) == 0 {
		return NewError("decode", "System.Validate", fmt.Errorf("system without coordinates"))
	}
	if err := S.ForceField.Validate(len(S.Coords)); err != nil {
		return NewError("decode", "System.Validate", err)
	}
	return nil
}

//An easily JSON-serializable error type,
type Error struct {
	deco       []string
	IsError    bool //If this is false (no error) all the other fields will be at their zero-values.
	InDecoding bool
	InEncoding bool
	InIO       bool
	Function   string //which go function gave the error
	Message    string //the error itself
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

func (J *Error) Critical() bool { return J.IsError }

//Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

//Takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "decode":
		jerr.InDecoding = true
	case "encode":
		jerr.InEncoding = true
	default:
		jerr.InIO = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

//Decode reads a JSON System from in, and validates it.
func Decode(in io.Reader) (*System, error) {
	S := new(System)
	if err := json.NewDecoder(in).Decode(S); err != nil {
		return nil, NewError("decode", "Decode", err)
	}
	if err := S.Validate(); err != nil {
		return nil, err
	}
	return S, nil
}

//Encode writes S as JSON to out.
func Encode(S *System, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", " ")
	if err := enc.Encode(S); err != nil {
		return NewError("encode", "Encode", err)
	}
	return nil
}

//zstd's Decoder has a Close method that returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//ReadFile reads a System from the file name. The compression is chosen
//by the file extension.
func ReadFile(name string) (*System, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, NewError("io", "ReadFile", err)
	}
	defer f.Close()
	var in io.ReadCloser = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, NewError("io", "ReadFile", err)
		}
		in = zstdReadCloser{d}
		defer in.Close()
	case strings.HasSuffix(name, ".gz"):
		in, err = gzip.NewReader(f)
		if err != nil {
			return nil, NewError("io", "ReadFile", err)
		}
		defer in.Close()
	}
	return Decode(in)
}

//WriteFile writes S to the file name, compressed according to its extension.
func WriteFile(name string, S *System) error {
	f, err := os.Create(name)
	if err != nil {
		return NewError("io", "WriteFile", err)
	}
	var out io.WriteCloser
	switch {
	case strings.HasSuffix(name, ".zst"):
		out, err = zstd.NewWriter(f)
	case strings.HasSuffix(name, ".gz"):
		out = gzip.NewWriter(f)
	}
	if err != nil {
		f.Close()
		return NewError("io", "WriteFile", err)
	}
	if out == nil {
		err = Encode(S, f)
	} else {
		err = Encode(S, out)
		if err2 := out.Close(); err == nil && err2 != nil {
			err = NewError("io", "WriteFile", err2)
		}
	}
	if err2 := f.Close(); err == nil && err2 != nil {
		err = NewError("io", "WriteFile", err2)
	}
	return err
}
