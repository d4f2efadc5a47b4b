// Package mmf is the Matrix Market file collaborator named out of scope by
// spec §1: it emits (row, col, value) triples and the matrix header, and
// nothing else. Coordinates on the wire are one-based; this package converts
// to zero-based internal coordinates at the boundary (spec §3).
//
// The on-disk grammar follows the original source's minimal MMF reader
// (original_source/patterns/mmf.cc): a run of comment lines beginning with
// '%' or '#', a single "nrows ncols nnz" header line, then nnz "row col
// value" triple lines. This is the coordinate-format subset of the standard
// NIST Matrix Market format; symmetric/pattern MMF headers are out of scope
// here, matching spec §1's "only their contracts are specified" framing.
package mmf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/errs"
)

// Header is the matrix's declared shape, read from the first non-comment
// line.
type Header struct {
	NRows, NCols int
	NNZ          int
}

// Reader is the contract the core's loader depends on: something that
// yields a Header followed by exactly NNZ (row, col, value) triples,
// one-based, in any order.
type Reader interface {
	Header() Header
	Next() (row, col int, value float64, ok bool)
}

type fileReader struct {
	s      *bufio.Scanner
	header Header
	err    error
}

// Open parses the header of an MMF stream and returns a Reader positioned
// to yield its triples via Next.
func Open(r io.Reader) (Reader, error) {
	const op = "mmf.Open"
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header Header
	found := false
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errs.New(errs.BadInput, op, fmt.Errorf("malformed header line %q", line))
		}
		nrows, err1 := strconv.Atoi(fields[0])
		ncols, err2 := strconv.Atoi(fields[1])
		nnz, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errs.New(errs.BadInput, op, fmt.Errorf("malformed header line %q", line))
		}
		header = Header{NRows: nrows, NCols: ncols, NNZ: nnz}
		found = true
		break
	}
	if !found {
		if err := s.Err(); err != nil {
			return nil, errs.New(errs.BadInput, op, err)
		}
		return nil, errs.New(errs.BadInput, op, fmt.Errorf("no header line found"))
	}

	return &fileReader{s: s, header: header}, nil
}

func (f *fileReader) Header() Header { return f.header }

func (f *fileReader) Next() (row, col int, value float64, ok bool) {
	for f.s.Scan() {
		line := strings.TrimSpace(f.s.Text())
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			f.err = fmt.Errorf("mmf: malformed triple line %q", line)
			return 0, 0, 0, false
		}
		r, err1 := strconv.Atoi(fields[0])
		c, err2 := strconv.Atoi(fields[1])
		v := 1.0
		var err3 error
		if len(fields) >= 3 {
			v, err3 = strconv.ParseFloat(fields[2], 64)
		}
		if err1 != nil || err2 != nil || err3 != nil {
			f.err = fmt.Errorf("mmf: malformed triple line %q", line)
			return 0, 0, 0, false
		}
		return r - 1, c - 1, v, true
	}
	return 0, 0, 0, false
}

// LoadCSR drains r entirely and builds a csr.Matrix, sorting triples by
// (row, col) as csr.FromSortedTriples requires (spec §4.2). This is the
// bridge between the out-of-scope MMF collaborator and the in-scope CSR
// store.
func LoadCSR(r Reader) (*csr.Matrix, error) {
	const op = "mmf.LoadCSR"
	h := r.Header()
	triples := make([]csr.Triple, 0, h.NNZ)
	for {
		row, col, val, ok := r.Next()
		if !ok {
			break
		}
		triples = append(triples, csr.Triple{Row: row, Col: col, Value: val})
	}
	if fr, ok := r.(*fileReader); ok && fr.err != nil {
		return nil, errs.New(errs.BadInput, op, fr.err)
	}
	if len(triples) != h.NNZ {
		return nil, errs.New(errs.BadInput, op, fmt.Errorf("header declares %d nonzeros, stream had %d", h.NNZ, len(triples)))
	}

	sort.Slice(triples, func(i, j int) bool {
		if triples[i].Row != triples[j].Row {
			return triples[i].Row < triples[j].Row
		}
		return triples[i].Col < triples[j].Col
	})

	return csr.FromSortedTriples(h.NRows, h.NCols, triples)
}
