package pwm

// Hit is a single match reported by Scan: the window [Start, End) on the
// scanned sequence, 0-based half-open, with the score of that window
// against the matrix (for the '-' strand, against its reverse complement).
type Hit struct {
	Start  int
	End    int
	Strand byte // '+' or '-'
	Score  float64
}

// Scan slides the matrix along seq and returns every window scoring at
// least threshold, in position order. Windows containing a base outside
// ACGT (either case) are skipped. Unless forwardOnly is set, the reverse
// complement of the matrix is scanned too, reporting minus-strand matches
// at their forward-strand coordinates. Scan does not mutate m and is safe
// to call concurrently.
func (m *Matrix) Scan(seq []byte, threshold float64, forwardOnly bool) []Hit {
	if m.length > len(seq) {
		return nil
	}
	mats := []*Matrix{m}
	strands := []byte{'+'}
	if !forwardOnly {
		mats = append(mats, m.ReverseComplement())
		strands = append(strands, '-')
	}

	idx := make([]int8, len(seq))
	// bad[i] counts the non-ACGT bases in seq[:i].
	bad := make([]int, len(seq)+1)
	for i, b := range seq {
		idx[i] = baseIndex[b]
		bad[i+1] = bad[i]
		if idx[i] < 0 {
			bad[i+1]++
		}
	}

	var hits []Hit
	for i := 0; i+m.length <= len(seq); i++ {
		if bad[i+m.length]-bad[i] > 0 {
			continue
		}
		for si, mat := range mats {
			score := 0.0
			for p := 0; p < m.length; p++ {
				score += mat.weights[idx[i+p]][p]
			}
			if score >= threshold {
				hits = append(hits, Hit{Start: i, End: i + m.length, Strand: strands[si], Score: score})
			}
		}
	}
	return hits
}
