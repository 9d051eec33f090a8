// Package jaspar parses JASPAR-style position matrix text: whitespace
// separated numeric rows, optionally preceded by '>' comment lines. For
// example:
//
// >MA0045.1 HMG-I/Y
// 0  7 15  2  0  1
// 9  0  0  0  0  0
// 1  8  0  0  9  7
// 6  1  1 14  7  8
//
// The four base rows may be laid out row-major as above (4 rows of L
// values, A, C, G, T from top), column-major (L rows of 4 values), or as
// a single row of 4*L values holding the concatenated base rows. Both
// orientations of the same matrix parse to the same result.
package jaspar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/motif/pwm"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Kind says how the numbers in matrix text are to be interpreted.
type Kind int

const (
	// Counts marks raw per-base counts or frequencies, converted to
	// log-odds weights on load.
	Counts Kind = iota
	// Weights marks matrices that already hold log-odds weights.
	Weights
)

// ReadOpts configures matrix loading.
type ReadOpts struct {
	Kind   Kind
	Matrix pwm.Opts
}

// DefaultReadOpts sets the default values to ReadOpts.
var DefaultReadOpts = ReadOpts{
	Kind:   Counts,
	Matrix: pwm.DefaultOpts,
}

// ParseError describes malformed matrix text. Line is 1-based, or 0 when
// the problem concerns the grid as a whole.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Read parses one matrix from r.
func Read(r io.Reader, opts ReadOpts) (*pwm.Matrix, error) {
	scanner := bufio.NewScanner(r)
	var (
		grid  [][]float64
		width int
	)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '>' {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, ParseError{Line: lineno, Message: fmt.Sprintf("bad number %q", f)}
			}
			row[i] = v
		}
		if grid == nil {
			width = len(row)
		} else if len(row) != width {
			return nil, ParseError{Line: lineno, Message: fmt.Sprintf("row has %d values; previous rows have %d", len(row), width)}
		}
		grid = append(grid, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading matrix")
	}
	if len(grid) == 0 {
		return nil, ParseError{Message: "no matrix data"}
	}
	rows, err := orient(grid)
	if err != nil {
		return nil, err
	}
	if opts.Kind == Weights {
		return pwm.NewFromWeights(rows, opts.Matrix)
	}
	return pwm.New(rows, opts.Matrix)
}

// Parse parses matrix text, such as a whitespace-delimited string of
// row-concatenated counts.
func Parse(text string, opts ReadOpts) (*pwm.Matrix, error) {
	return Read(strings.NewReader(text), opts)
}

// ReadPath reads one matrix from a file, transparently decompressing
// gzip.
func ReadPath(path string, opts ReadOpts) (m *pwm.Matrix, err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
	}
	return Read(reader, opts)
}

// orient arranges a rectangular grid into the four base rows A, C, G, T.
// Grids with 4 rows are taken as is; a single row whose length is a
// multiple of 4 is split into 4 equal chunks; any other grid must have 4
// columns and is transposed. A 4x4 grid is ambiguous and read row-major.
func orient(grid [][]float64) ([][]float64, error) {
	switch {
	case len(grid) == 4:
		return grid, nil
	case len(grid) == 1 && len(grid[0])%4 == 0:
		n := len(grid[0]) / 4
		rows := make([][]float64, 4)
		for k := range rows {
			rows[k] = grid[0][k*n : (k+1)*n]
		}
		return rows, nil
	case len(grid[0]) == 4:
		rows := make([][]float64, 4)
		for k := range rows {
			rows[k] = make([]float64, len(grid))
			for p := range grid {
				rows[k][p] = grid[p][k]
			}
		}
		return rows, nil
	}
	return nil, ParseError{Message: fmt.Sprintf("cannot arrange a %dx%d grid into 4 base rows", len(grid), len(grid[0]))}
}
