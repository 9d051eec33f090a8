package pwm

import (
	"fmt"
	"math"
)

// Row indices within a matrix.
const (
	baseA = iota
	baseC
	baseG
	baseT
)

// maxDigits bounds the granularity: beyond 10^15 the rescaled weights lose
// float64 precision before quantization even begins.
const maxDigits = 15

var baseIndex [256]int8

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	baseIndex['A'], baseIndex['a'] = baseA, baseA
	baseIndex['C'], baseIndex['c'] = baseC, baseC
	baseIndex['G'], baseIndex['g'] = baseG, baseG
	baseIndex['T'], baseIndex['t'] = baseT, baseT
}

// Matrix is a 4xL position weight matrix over the DNA alphabet together
// with the state needed to answer score <-> p-value queries: a background
// model, a granularity setting, and cached score distributions.
//
// A Matrix is not safe for concurrent mutation or querying. Score, Scan
// and ReverseComplement touch only immutable state and may be called
// concurrently with each other.
type Matrix struct {
	length  int
	weights [4][]float64 // log-odds, rows A, C, G, T
	counts  [4][]float64 // retained so SetBackground can re-derive weights
	bg      [4]float64
	pseudo  float64
	log2    bool
	digits  int

	tables map[int]*tailTable
}

// New builds a weight matrix from a 4xL grid of counts or frequencies,
// rows in A, C, G, T order. Cells must be finite and non-negative; every
// cell is smoothed with opts.Pseudocount and converted to a log-odds
// weight against opts.Background.
func New(rows [][]float64, opts Opts) (*Matrix, error) {
	m, err := newMatrix(rows, opts)
	if err != nil {
		return nil, err
	}
	if opts.Pseudocount < 0 {
		return nil, DomainError{Message: fmt.Sprintf("pseudocount must be non-negative; got %g", opts.Pseudocount)}
	}
	for k := range rows {
		for p, v := range rows[k] {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, InvalidMatrixError{Message: fmt.Sprintf("count at row %d, column %d is %g; counts must be finite and non-negative", k, p, v)}
			}
		}
	}
	for k := 0; k < 4; k++ {
		m.counts[k] = make([]float64, m.length)
		copy(m.counts[k], rows[k])
	}
	if err := m.computeWeights(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewFromWeights builds a matrix whose rows already hold log-odds weights.
// No conversion is applied: opts.Pseudocount and opts.Log2 are ignored and
// negative cells are expected. SetBackground on such a matrix reweights
// the score distribution but leaves the weights unchanged.
func NewFromWeights(rows [][]float64, opts Opts) (*Matrix, error) {
	m, err := newMatrix(rows, opts)
	if err != nil {
		return nil, err
	}
	for k := range rows {
		for p, v := range rows[k] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, InvalidMatrixError{Message: fmt.Sprintf("weight at row %d, column %d is %g; weights must be finite", k, p, v)}
			}
		}
	}
	for k := 0; k < 4; k++ {
		m.weights[k] = make([]float64, m.length)
		copy(m.weights[k], rows[k])
	}
	return m, nil
}

// newMatrix validates the grid shape and the options shared by New and
// NewFromWeights.
func newMatrix(rows [][]float64, opts Opts) (*Matrix, error) {
	if len(rows) != 4 {
		return nil, InvalidMatrixError{Message: fmt.Sprintf("matrix must have 4 rows (A, C, G, T); got %d", len(rows))}
	}
	length := len(rows[0])
	if length == 0 {
		return nil, InvalidMatrixError{Message: "matrix must have at least one column"}
	}
	for k := 1; k < 4; k++ {
		if len(rows[k]) != length {
			return nil, InvalidMatrixError{Message: fmt.Sprintf("row %d has %d columns; row 0 has %d", k, len(rows[k]), length)}
		}
	}
	if err := validBackground(opts.Background); err != nil {
		return nil, err
	}
	digits := opts.Digits
	if digits == 0 {
		digits = DefaultOpts.Digits
	}
	if digits < 1 || digits > maxDigits {
		return nil, DomainError{Message: fmt.Sprintf("granularity digits must be in [1, %d]; got %d", maxDigits, opts.Digits)}
	}
	return &Matrix{
		length: length,
		bg:     opts.Background,
		pseudo: opts.Pseudocount,
		log2:   opts.Log2,
		digits: digits,
		tables: map[int]*tailTable{},
	}, nil
}

func validBackground(bg [4]float64) error {
	sum := 0.0
	for _, v := range bg {
		if !(v > 0) {
			return DomainError{Message: fmt.Sprintf("background frequencies must be positive; got %v", bg)}
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return DomainError{Message: fmt.Sprintf("background frequencies must sum to 1; got %v (sum %g)", bg, sum)}
	}
	return nil
}

// computeWeights derives log-odds weights from the retained counts and the
// current background: log((count+q) / (total+4q)) - log(bg), where q is
// the pseudocount.
func (m *Matrix) computeWeights() error {
	logBase := 1.0
	if m.log2 {
		logBase = math.Ln2
	}
	var weights [4][]float64
	for k := 0; k < 4; k++ {
		weights[k] = make([]float64, m.length)
	}
	for p := 0; p < m.length; p++ {
		total := 4 * m.pseudo
		for k := 0; k < 4; k++ {
			total += m.counts[k][p]
		}
		for k := 0; k < 4; k++ {
			w := (math.Log((m.counts[k][p]+m.pseudo)/total) - math.Log(m.bg[k])) / logBase
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return InvalidMatrixError{Message: fmt.Sprintf("column %d yields a non-finite weight; zero counts need a positive pseudocount", p)}
			}
			weights[k][p] = w
		}
	}
	m.weights = weights
	return nil
}

// Length returns the number of matrix columns (the motif width).
func (m *Matrix) Length() int { return m.length }

// Background returns the current background frequencies in A, C, G, T
// order.
func (m *Matrix) Background() [4]float64 { return m.bg }

// ScoreRange returns the lowest and highest achievable scores.
func (m *Matrix) ScoreRange() (min, max float64) {
	for p := 0; p < m.length; p++ {
		lo, hi := m.weights[0][p], m.weights[0][p]
		for k := 1; k < 4; k++ {
			if w := m.weights[k][p]; w < lo {
				lo = w
			} else if w > hi {
				hi = w
			}
		}
		min += lo
		max += hi
	}
	return min, max
}

// SetBackground replaces the background model. When the matrix was built
// from counts the log-odds weights are re-derived; a matrix built directly
// from weights keeps them, so only the word probabilities change. Cached
// distributions are discarded either way.
func (m *Matrix) SetBackground(bg [4]float64) error {
	if err := validBackground(bg); err != nil {
		return err
	}
	m.bg = bg
	if m.counts[0] != nil {
		if err := m.computeWeights(); err != nil {
			return err
		}
	}
	m.tables = map[int]*tailTable{}
	return nil
}

// SetGranularity sets the refinement cap: queries quantize scores at
// 10^-digits in the deepest round. Cached distributions are discarded.
func (m *Matrix) SetGranularity(digits int) error {
	if digits < 1 || digits > maxDigits {
		return DomainError{Message: fmt.Sprintf("granularity digits must be in [1, %d]; got %d", maxDigits, digits)}
	}
	m.digits = digits
	m.tables = map[int]*tailTable{}
	return nil
}

// Score returns the matrix score of a word of exactly Length() bases.
// Bases may be upper or lower case; anything outside ACGT is rejected.
func (m *Matrix) Score(seq []byte) (float64, error) {
	if len(seq) != m.length {
		return 0, DomainError{Message: fmt.Sprintf("sequence length %d does not match matrix length %d", len(seq), m.length)}
	}
	score := 0.0
	for p, b := range seq {
		k := baseIndex[b]
		if k < 0 {
			return 0, DomainError{Message: fmt.Sprintf("base %q at position %d is not one of ACGT", b, p)}
		}
		score += m.weights[k][p]
	}
	return score, nil
}

// ReverseComplement returns a new matrix that assigns to every word the
// score the receiver assigns to the word's reverse complement. The
// background is complemented to match, so the two matrices have identical
// score distributions.
func (m *Matrix) ReverseComplement() *Matrix {
	comp := [4]int{baseT, baseG, baseC, baseA}
	rc := &Matrix{
		length: m.length,
		bg:     [4]float64{m.bg[baseT], m.bg[baseG], m.bg[baseC], m.bg[baseA]},
		pseudo: m.pseudo,
		log2:   m.log2,
		digits: m.digits,
		tables: map[int]*tailTable{},
	}
	for k := 0; k < 4; k++ {
		rc.weights[k] = make([]float64, m.length)
		for p := 0; p < m.length; p++ {
			rc.weights[k][p] = m.weights[comp[k]][m.length-1-p]
		}
	}
	if m.counts[0] != nil {
		for k := 0; k < 4; k++ {
			rc.counts[k] = make([]float64, m.length)
			for p := 0; p < m.length; p++ {
				rc.counts[k][p] = m.counts[comp[k]][m.length-1-p]
			}
		}
	}
	return rc
}
