package pwm

import (
	"math"
	"sort"
)

// ScoreProb is one entry of a score distribution table.
type ScoreProb struct {
	// Score is a real (unscaled) score achievable by the quantized matrix.
	Score float64
	// Prob is the probability of drawing a word with exactly this score
	// from the background model.
	Prob float64
	// Pvalue is the probability of drawing a word scoring this much or
	// higher.
	Pvalue float64
}

// distribution computes the probability of every achievable integer score
// within [min, max] under bg. The shifted cells are non-negative, so
// partial sums only grow: states that can no longer reach min are dropped,
// and everything above max is lumped into the single bucket max+1.
func (im *intMatrix) distribution(bg [4]float64, min, max int64) map[int64]float64 {
	q := map[int64]float64{0: 1}
	for p := 0; p < im.length; p++ {
		suffix := im.bestSuffix[p+1]
		next := make(map[int64]float64, len(q))
		for s, prob := range q {
			for k := 0; k < 4; k++ {
				ns := s + im.cells[k][p]
				if ns > max {
					ns = max + 1
				} else if ns+suffix < min {
					continue
				}
				next[ns] += prob * bg[k]
			}
		}
		q = next
	}
	return q
}

// tailTable holds the score distribution of one granularity level: the
// achievable integer scores within a window, sorted ascending, with their
// probabilities and inclusive tail sums. Tails are accumulated from the
// highest score down so the smallest masses combine first.
type tailTable struct {
	im *intMatrix
	// Window the distribution was computed over. windowMin of MinInt64
	// means nothing was pruned; windowMax of MaxInt64 means nothing was
	// lumped. Queries within the window are exact.
	windowMin, windowMax int64
	scores               []int64
	probs                []float64
	tails                []float64
	lumped               float64 // mass above the window
}

func newTailTable(im *intMatrix, bg [4]float64, min, max int64) *tailTable {
	dist := im.distribution(bg, min, max)
	tt := &tailTable{im: im, windowMin: min, windowMax: max}
	if min <= 0 {
		tt.windowMin = math.MinInt64
	}
	if max >= im.maxScore {
		tt.windowMax = math.MaxInt64
	}
	tt.lumped = dist[max+1]
	delete(dist, max+1)
	tt.scores = make([]int64, 0, len(dist))
	for s := range dist {
		tt.scores = append(tt.scores, s)
	}
	sort.Slice(tt.scores, func(i, j int) bool { return tt.scores[i] < tt.scores[j] })
	tt.probs = make([]float64, len(tt.scores))
	tt.tails = make([]float64, len(tt.scores))
	sum := tt.lumped
	for i := len(tt.scores) - 1; i >= 0; i-- {
		tt.probs[i] = dist[tt.scores[i]]
		sum += tt.probs[i]
		tt.tails[i] = sum
	}
	return tt
}

func (tt *tailTable) covers(min, max int64) bool {
	return tt.windowMin <= min && max <= tt.windowMax
}

// tailAtLeast returns the probability of scoring at or above s. s must not
// exceed the table's window.
func (tt *tailTable) tailAtLeast(s int64) float64 {
	i := sort.Search(len(tt.scores), func(i int) bool { return tt.scores[i] >= s })
	if i == len(tt.scores) {
		return tt.lumped
	}
	return tt.tails[i]
}

// scoreFor returns the smallest achievable score alpha whose inclusive
// tail is at most p, together with that tail and the tail at the first
// achievable score at or above alpha-errorMax. The two tails agree exactly
// when no word mass lies inside the quantization error band below alpha.
// When even the highest achievable score has a tail above p, alpha is one
// past it.
func (tt *tailTable) scoreFor(p float64) (alpha int64, pAlpha, pBracket float64) {
	i := sort.Search(len(tt.tails), func(i int) bool { return tt.tails[i] <= p })
	if i == len(tt.tails) {
		alpha = tt.im.maxScore + 1
		if n := len(tt.scores); n > 0 {
			alpha = tt.scores[n-1] + 1
		}
		pAlpha = tt.lumped
	} else {
		alpha = tt.scores[i]
		pAlpha = tt.tails[i]
	}
	pBracket = tt.tailAtLeast(int64(math.Ceil(float64(alpha) - tt.im.errorMax)))
	return alpha, pAlpha, pBracket
}
