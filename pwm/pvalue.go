package pwm

import (
	"fmt"
	"math"

	"github.com/grailbio/base/log"
)

// queryDigits resolves a per-query granularity cap. digits <= 0 defers to
// the matrix setting.
func (m *Matrix) queryDigits(digits int) (int, error) {
	if digits <= 0 {
		return m.digits, nil
	}
	if digits > maxDigits {
		return 0, DomainError{Message: fmt.Sprintf("granularity digits must be in [1, %d]; got %d", maxDigits, digits)}
	}
	return digits, nil
}

// intMatrixAt returns the integer rescaling at the given digits, reusing
// the one attached to a cached distribution when present.
func (m *Matrix) intMatrixAt(digits int) *intMatrix {
	if tt := m.tables[digits]; tt != nil {
		return tt.im
	}
	return newIntMatrix(m.weights, digits)
}

// table returns a tail table for im whose window covers [min, max],
// computing and caching one when the cached table does not.
func (m *Matrix) table(im *intMatrix, min, max int64) *tailTable {
	if tt := m.tables[im.digits]; tt != nil && tt.covers(min, max) {
		return tt
	}
	tt := newTailTable(im, m.bg, min, max)
	m.tables[im.digits] = tt
	return tt
}

// ScoreToPvalue returns the probability that a word drawn from the
// background model scores at least score. digits caps the granularity
// refinement for this query; digits <= 0 uses the matrix setting.
//
// The refinement starts at one digit and deepens tenfold per round until
// the quantization error band below score holds no word mass, at which
// point the returned p-value is exact. When the cap is reached first the
// tail at the bottom of the band is returned; a query at an exactly
// achievable score lands here whenever the rescale carries rounding
// error, since the word's own mass then never leaves the band, and the
// returned tail includes it.
func (m *Matrix) ScoreToPvalue(score float64, digits int) (float64, error) {
	maxd, err := m.queryDigits(digits)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, DomainError{Message: fmt.Sprintf("score must be finite; got %g", score)}
	}
	lo, hi := m.ScoreRange()
	if score > hi {
		return 0, nil
	}
	if score <= lo {
		return 1, nil
	}

	approx := 0.0
	for d := 1; d <= maxd; d++ {
		im := m.intMatrixAt(d)
		r := score*im.scale + float64(im.offset)
		tt := m.table(im, int64(r-im.errorMax-1), int64(r+im.errorMax+1))
		pLow := tt.tailAtLeast(int64(math.Ceil(r)))
		pHigh := tt.tailAtLeast(int64(math.Ceil(r - im.errorMax)))
		if pLow == pHigh {
			return pLow, nil
		}
		// A word scoring exactly score can quantize anywhere in
		// [ceil(r-errorMax), floor(r)]; pHigh is the bracket that
		// counts it.
		approx = pHigh
	}
	log.Debug.Printf("pwm: p-value of score %g still approximate at %d digits", score, maxd)
	return approx, nil
}

// PvalueToScore returns the lowest score threshold that a word drawn from
// the background model reaches with probability at most pvalue. The
// refinement always runs to the digits cap, so the threshold is the
// quantile word's score quantized at 10^-digits (or just past the highest
// achievable score, when pvalue is smaller than every word's
// probability); feeding it to ScoreToPvalue recovers the largest
// attainable p-value that does not exceed pvalue. digits is as in
// ScoreToPvalue.
func (m *Matrix) PvalueToScore(pvalue float64, digits int) (float64, error) {
	maxd, err := m.queryDigits(digits)
	if err != nil {
		return 0, err
	}
	if !(pvalue > 0 && pvalue <= 1) {
		return 0, DomainError{Message: fmt.Sprintf("p-value must be in (0, 1]; got %g", pvalue)}
	}

	var (
		alpha            int64
		last             *intMatrix
		min, max         int64
		pAlpha, pBracket float64
	)
	for d := 1; ; d++ {
		im := m.intMatrixAt(d)
		if d == 1 {
			min, max = 0, im.maxScore+int64(math.Ceil(im.errorMax+0.5))
		}
		tt := m.table(im, min, max)
		alpha, pAlpha, pBracket = tt.scoreFor(pvalue)
		last = im
		if d == maxd {
			break
		}
		slack := int64(math.Ceil(im.errorMax + 0.5))
		min = (alpha - slack) * 10
		max = (alpha + slack) * 10
	}
	if pAlpha != pBracket {
		log.Debug.Printf("pwm: tail at the score for p-value %g still approximate at %d digits", pvalue, maxd)
	}
	return last.real(alpha), nil
}

// Distribution returns the full score distribution at the given number of
// granularity digits (digits <= 0 uses the matrix setting): every score
// achievable by the quantized matrix in ascending order, its probability
// under the background model, and the inclusive tail. The table can hold
// up to 4^Length entries, so deep granularities on long matrices are
// expensive.
func (m *Matrix) Distribution(digits int) ([]ScoreProb, error) {
	d, err := m.queryDigits(digits)
	if err != nil {
		return nil, err
	}
	im := m.intMatrixAt(d)
	tt := m.table(im, 0, im.maxScore)
	out := make([]ScoreProb, len(tt.scores))
	for i, s := range tt.scores {
		out[i] = ScoreProb{Score: im.real(s), Prob: tt.probs[i], Pvalue: tt.tails[i]}
	}
	return out, nil
}
