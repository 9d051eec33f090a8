package pwm

import (
	"math"
	"os"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfWeightsMatrix returns a weight matrix whose cells are all multiples
// of 0.5, so the one-digit integer rescale is error-free and every query
// converges in the first refinement round. With the uniform background the
// word masses are powers of two, making the expected values exact.
func halfWeightsMatrix(t *testing.T) *Matrix {
	m, err := NewFromWeights([][]float64{
		{2, -0.5, 1, 0},
		{0.5, 1.5, -1, 0.5},
		{-1, 0, 0.5, -0.5},
		{-2, -1.5, -0.5, 1},
	}, DefaultOpts)
	require.NoError(t, err)
	return m
}

// countsMatrix returns a small count matrix built with the default
// options.
func countsMatrix(t *testing.T) *Matrix {
	m, err := New([][]float64{
		{4, 19, 0, 0, 3},
		{16, 0, 1, 20, 2},
		{1, 2, 20, 1, 14},
		{0, 0, 0, 0, 2},
	}, DefaultOpts)
	require.NoError(t, err)
	return m
}

func TestNewValidation(t *testing.T) {
	uniform := DefaultOpts.Background
	ok := [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}}

	tests := []struct {
		name    string
		rows    [][]float64
		opts    Opts
		invalid bool // InvalidMatrixError when true, DomainError when false
	}{
		{"three rows", [][]float64{{1}, {1}, {1}}, DefaultOpts, true},
		{"five rows", [][]float64{{1}, {1}, {1}, {1}, {1}}, DefaultOpts, true},
		{"ragged", [][]float64{{1, 2}, {1}, {1, 2}, {1, 2}}, DefaultOpts, true},
		{"no columns", [][]float64{{}, {}, {}, {}}, DefaultOpts, true},
		{"negative count", [][]float64{{1, -2}, {1, 1}, {1, 1}, {1, 1}}, DefaultOpts, true},
		{"NaN count", [][]float64{{1, math.NaN()}, {1, 1}, {1, 1}, {1, 1}}, DefaultOpts, true},
		{"zero column without pseudocount", [][]float64{{0, 1}, {1, 1}, {1, 1}, {1, 1}},
			Opts{Background: uniform, Pseudocount: 0, Digits: 10}, true},
		{"background sums low", ok, Opts{Background: [4]float64{0.2, 0.2, 0.2, 0.2}, Pseudocount: 0.25, Digits: 10}, false},
		{"background zero entry", ok, Opts{Background: [4]float64{0.5, 0.5, 0, 0}, Pseudocount: 0.25, Digits: 10}, false},
		{"negative pseudocount", ok, Opts{Background: uniform, Pseudocount: -1, Digits: 10}, false},
		{"digits too deep", ok, Opts{Background: uniform, Pseudocount: 0.25, Digits: 16}, false},
		{"digits negative", ok, Opts{Background: uniform, Pseudocount: 0.25, Digits: -3}, false},
	}
	for _, test := range tests {
		_, err := New(test.rows, test.opts)
		require.Error(t, err, test.name)
		if test.invalid {
			_, isInvalid := err.(InvalidMatrixError)
			assert.True(t, isInvalid, "%s: got %T: %v", test.name, err, err)
		} else {
			_, isDomain := err.(DomainError)
			assert.True(t, isDomain, "%s: got %T: %v", test.name, err, err)
		}
	}

	// NewFromWeights accepts negative cells but not non-finite ones.
	_, err := NewFromWeights([][]float64{{-1, 2}, {1, -1}, {0, 0}, {1, 1}}, DefaultOpts)
	assert.NoError(t, err)
	_, err = NewFromWeights([][]float64{{math.Inf(-1), 2}, {1, -1}, {0, 0}, {1, 1}}, DefaultOpts)
	require.Error(t, err)
	_, isInvalid := err.(InvalidMatrixError)
	assert.True(t, isInvalid, "got %T: %v", err, err)
}

func TestLogOddsConversion(t *testing.T) {
	counts := [][]float64{
		{3, 0},
		{0, 10},
		{5, 0},
		{2, 0},
	}
	m, err := New(counts, DefaultOpts)
	require.NoError(t, err)

	// Column totals are 10, so with the default pseudocount the weight of
	// A in column 0 is log(3.25/11) - log(0.25).
	assert.InDelta(t, math.Log(3.25/11)-math.Log(0.25), m.weights[baseA][0], 1e-12)
	assert.InDelta(t, math.Log(0.25/11)-math.Log(0.25), m.weights[baseC][0], 1e-12)
	assert.InDelta(t, math.Log(10.25/11)-math.Log(0.25), m.weights[baseC][1], 1e-12)

	log2, err := New(counts, Opts{Background: DefaultOpts.Background, Pseudocount: 0.25, Log2: true, Digits: 10})
	require.NoError(t, err)
	for k := 0; k < 4; k++ {
		for p := 0; p < m.length; p++ {
			assert.InDelta(t, m.weights[k][p]/math.Ln2, log2.weights[k][p], 1e-12, "row %d col %d", k, p)
		}
	}
}

func TestScore(t *testing.T) {
	m := halfWeightsMatrix(t)

	lo, hi := m.ScoreRange()
	assert.Equal(t, -5.0, lo)
	assert.Equal(t, 5.5, hi)

	score, err := m.Score([]byte("ACGT"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)

	score, err = m.Score([]byte("acgt"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)

	_, err = m.Score([]byte("ACG"))
	assert.Error(t, err)
	_, err = m.Score([]byte("ACGN"))
	assert.Error(t, err)
}

func revComp(s string) string {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = comp[s[len(s)-1-i]]
	}
	return string(out)
}

func TestReverseComplement(t *testing.T) {
	m := halfWeightsMatrix(t)
	rc := m.ReverseComplement()

	for _, w := range []string{"ACGT", "AAAA", "TTTT", "GTCA", "CCGG"} {
		fwd, err := m.Score([]byte(w))
		require.NoError(t, err)
		rev, err := rc.Score([]byte(revComp(w)))
		require.NoError(t, err)
		assert.Equal(t, fwd, rev, w)
	}
	assert.Equal(t, m.weights, rc.ReverseComplement().weights)
}

func TestSetBackground(t *testing.T) {
	m := countsMatrix(t)
	before := m.weights[baseA][0]

	// Re-deriving against a new background shifts each weight by
	// log(oldBg) - log(newBg).
	require.NoError(t, m.SetBackground([4]float64{0.4, 0.1, 0.1, 0.4}))
	assert.InDelta(t, before+math.Log(0.25)-math.Log(0.4), m.weights[baseA][0], 1e-12)

	err := m.SetBackground([4]float64{0.5, 0.5, 0.1, 0.1})
	require.Error(t, err)
	_, isDomain := err.(DomainError)
	assert.True(t, isDomain, "got %T: %v", err, err)

	// A matrix built from weights keeps them.
	w := halfWeightsMatrix(t)
	wa := w.weights[baseA][0]
	require.NoError(t, w.SetBackground([4]float64{0.4, 0.1, 0.1, 0.4}))
	assert.Equal(t, wa, w.weights[baseA][0])
}

func TestSetGranularity(t *testing.T) {
	m := countsMatrix(t)
	for _, d := range []int{0, -1, 16} {
		err := m.SetGranularity(d)
		require.Error(t, err, "digits %d", d)
		_, isDomain := err.(DomainError)
		assert.True(t, isDomain, "digits %d: got %T", d, err)
	}

	_, err := m.ScoreToPvalue(1, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, m.tables)
	require.NoError(t, m.SetGranularity(6))
	assert.Empty(t, m.tables)
}

func TestParseBackground(t *testing.T) {
	bg, err := ParseBackground("0.3, 0.2,0.2,0.3")
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0.3, 0.2, 0.2, 0.3}, bg)

	for _, s := range []string{"", "0.25,0.25,0.25", "0.25,0.25,0.25,0.25,0", "0.25,x,0.25,0.25"} {
		_, err := ParseBackground(s)
		require.Error(t, err, s)
		_, isDomain := err.(DomainError)
		assert.True(t, isDomain, "%s: got %T", s, err)
	}
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}
