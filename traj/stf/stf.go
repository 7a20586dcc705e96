package stf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/v3"
)

const defaultPrec = 3

//Write!
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
	p         float64
	frames    int
}

//Close flushes and closes the trajectory. It returns the first error found.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.h.Close()
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

//Len returns the number of atoms per frame.
func (S *StfW) Len() int {
	return S.natoms
}

//Frames returns the number of frames written so far.
func (S *StfW) Frames() int {
	return S.frames
}

//WNext writes a frame with the coordinates in coord.
func (S *StfW) WNext(coord geo.Coords[float64]) error {
	return S.wnext(coord, "*\n")
}

//WNextEnergy writes a frame with the coordinates in coord, and the
//given energy in the frame termination line.
func (S *StfW) WNextEnergy(coord geo.Coords[float64], energy float64) error {
	return S.wnext(coord, "* e="+strconv.FormatFloat(energy, 'g', -1, 64)+"\n")
}

func (S *StfW) wnext(coord geo.Coords[float64], end string) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.Len()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	b := make([]byte, 0, 64*v)
	for i := 0; i < v; i++ {
		b = coordsEncode(b, coord.Vec(i), S.p)
	}
	b = append(b, end...)
	if _, err := S.h.Write(b); err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	S.frames++
	return nil
}

func coordsEncode(b []byte, f geo.Vec[float64], p float64) []byte {
	for i, v := range f {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(math.RoundToEven(v*p)), 10)
	}
	return append(b, '\n')
}

//NewWriter creates a trajectory file name for natoms atoms per frame. header is written in
//the header of the file. If it contains the key "prec", it sets the precision.
func NewWriter(name string, natoms int, header map[string]string) (*StfW, error) {
	S := &StfW{natoms: natoms, filename: name, prec: defaultPrec}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 1 {
			return nil, Error{fmt.Sprintf("Invalid precision %q", p), name, []string{"NewWriter"}, true}
		}
		S.prec = prec
	}
	S.p = math.Pow(10, float64(S.prec))
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		S.h, err = gzip.NewWriterLevel(S.f, gzip.BestCompression)
	case 'r':
		S.h, err = flate.NewWriter(S.f, flate.BestCompression)
	default:
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't create the compressor " + err.Error(), name, []string{"NewWriter"}, true}
	}
	//sorted, so the files are reproducible
	keys := make([]string, 0, len(header))
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	headerstr := fmt.Sprintf("prec=%d\n", S.prec)
	for _, k := range keys {
		headerstr += fmt.Sprintf("%s=%s\n", k, strings.ReplaceAll(header[k], "\n", " "))
	}
	headerstr += fmt.Sprintf("** %d\n", S.natoms)
	if _, err := S.h.Write([]byte(headerstr)); err != nil {
		S.f.Close()
		return nil, Error{"Can't write header " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.writeable = true
	return S, nil
}

//Read!
type StfR struct {
	f         *os.File
	dec       io.ReadCloser
	h         *bufio.Reader
	natoms    int
	filename  string
	p         float64
	readable  bool
	energy    float64
	hasEnergy bool
}

//zstd's Decoder doesn't implement io.ReadCloser.
type zstdql struct {
	*zstd.Decoder
}

func (s zstdql) Close() error {
	s.Decoder.Close()
	return nil
}

//New opens a STF trajectory for reading, and returns a pointer
//to the handle, a map with the header and error or nil.
func New(name string) (*StfR, map[string]string, error) {
	S := &StfR{natoms: -1, filename: name}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	intermediate := bufio.NewReader(S.f)
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		S.dec, err = gzip.NewReader(intermediate)
	case 'r':
		S.dec = flate.NewReader(intermediate)
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(intermediate)
		S.dec = zstdql{d}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.closeAll()
			return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.closeAll()
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s'", str), name, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				S.closeAll()
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s': %s", nat[1], err.Error()), name, []string{"New"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			S.closeAll()
			return nil, nil, Error{"Malformed header line: " + str, name, []string{"New"}, true}
		}
		m[k] = v
	}
	prec := defaultPrec
	if p, ok := m["prec"]; ok {
		prec, err = strconv.Atoi(p)
		if err != nil || prec < 1 {
			S.closeAll()
			return nil, nil, Error{fmt.Sprintf("Invalid precision %q", p), name, []string{"New"}, true}
		}
	}
	S.p = math.Pow(10, float64(prec))
	S.readable = true
	return S, m, nil
}

//Readabe returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

func coordsDecode(str string, temp *geo.Vec[float64], p float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: %d fields: %s", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Next puts in the given matrix (c) the coordinates for the next frame of the trajectory.
//If c is nil, the frame is read and checked, but discarded.
//When the end of the trajectory is reached, it returns an error for which IsLastFrame
//is true.
func (S *StfR) Next(c *v3.Matrix) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp geo.Vec[float64]
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			// EOF should only happen when reading the first atom
			if err == io.EOF && i == 0 && len(b) == 0 {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		if strings.HasPrefix(b, "*") {
			return Error{WrongFormat + ": frame with fewer atoms than expected", S.filename, []string{"Next"}, true}
		}
		if err = coordsDecode(b, &temp, S.p); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c != nil {
			c.SetVec(i, temp)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{WrongFormat + ": frame with more atoms than expected", S.filename, []string{"Next"}, true}
	}
	S.hasEnergy = false
	for _, field := range strings.Fields(s[1:]) {
		if e, ok := strings.CutPrefix(field, "e="); ok {
			S.energy, err = strconv.ParseFloat(e, 64)
			if err != nil {
				return Error{"Can't read the frame energy: " + err.Error(), S.filename, []string{"Next"}, true}
			}
			S.hasEnergy = true
		}
	}
	return nil
}

//Energy returns the energy of the last frame read, and whether the frame has
//an energy.
func (S *StfR) Energy() (float64, bool) {
	return S.energy, S.hasEnergy
}

func (S *StfR) closeAll() {
	S.dec.Close()
	S.f.Close()
}

//Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.closeAll()
	S.readable = false
}

//Len returns the number of atoms in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.natoms
}

//Errors

//Error is the general structure for STF trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Filename returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

//lastFrameError is returned by Next at the end of the trajectory.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing, it just marks the error
//as the normal end of a trajectory.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "stf" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

//IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	_, ok := err.(interface{ NormalLastFrameTermination() })
	return ok
}
