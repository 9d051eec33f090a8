package pwm

import (
	"math"
	"sort"
)

// intMatrix is the integer rescaling of a weight matrix at one
// granularity: every weight is scaled by 10^digits and rounded down, and
// every column is shifted so that its minimum cell is zero. Columns are
// stored in descending score-range order, which tightens the pruning
// bound during the distribution computation; the total-score distribution
// is invariant under the permutation.
type intMatrix struct {
	digits int
	scale  float64 // 10^digits
	length int
	cells  [4][]int64
	// offset is the total shift applied: integer score s stands for the
	// real score (s - offset) / scale.
	offset int64
	// errorMax bounds the quantization deficit: for any word, the real
	// scaled score exceeds the integer score by at most errorMax.
	errorMax float64
	// maxScore is the highest achievable integer score; the lowest is 0.
	maxScore int64
	// bestSuffix[p] is the highest integer score achievable from columns
	// p onward.
	bestSuffix []int64
}

func newIntMatrix(weights [4][]float64, digits int) *intMatrix {
	length := len(weights[0])
	im := &intMatrix{
		digits: digits,
		scale:  math.Pow(10, float64(digits)),
		length: length,
	}

	type column struct {
		cells [4]int64
		max   int64 // after the shift; the column minimum is 0
	}
	cols := make([]column, length)
	for p := 0; p < length; p++ {
		var cells [4]int64
		colErr := 0.0
		for k := 0; k < 4; k++ {
			raw := weights[k][p] * im.scale
			cell := int64(math.Floor(raw))
			if frac := raw - float64(cell); frac > colErr {
				colErr = frac
			}
			cells[k] = cell
		}
		min, max := cells[0], cells[0]
		for k := 1; k < 4; k++ {
			if cells[k] < min {
				min = cells[k]
			}
			if cells[k] > max {
				max = cells[k]
			}
		}
		for k := 0; k < 4; k++ {
			cells[k] -= min
		}
		cols[p] = column{cells: cells, max: max - min}
		im.offset -= min
		im.errorMax += colErr
		im.maxScore += max - min
	}

	sort.SliceStable(cols, func(i, j int) bool { return cols[i].max > cols[j].max })

	for k := 0; k < 4; k++ {
		im.cells[k] = make([]int64, length)
	}
	im.bestSuffix = make([]int64, length+1)
	for p := length - 1; p >= 0; p-- {
		for k := 0; k < 4; k++ {
			im.cells[k][p] = cols[p].cells[k]
		}
		im.bestSuffix[p] = im.bestSuffix[p+1] + cols[p].max
	}
	return im
}

// real converts an integer score back to the weight-matrix scale.
func (im *intMatrix) real(s int64) float64 {
	return (float64(s) - float64(im.offset)) / im.scale
}
