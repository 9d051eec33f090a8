package pwm

import (
	"fmt"
	"strconv"
	"strings"
)

// Opts configures matrix construction and the score <-> p-value queries.
type Opts struct {
	// Background holds the base composition [A, C, G, T] used both for the
	// log-odds conversion and for word probabilities in the score
	// distribution. Every entry must be positive and the four must sum
	// to 1.
	Background [4]float64
	// Pseudocount is added to every cell of a count matrix before the
	// log-odds conversion, so columns with an unobserved base keep finite
	// weights.
	Pseudocount float64
	// Log2 selects base-2 log-odds; the default is the natural log.
	Log2 bool
	// Digits caps the granularity refinement: the deepest round quantizes
	// scores at 10^-Digits. 0 means DefaultOpts.Digits.
	Digits int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Background:  [4]float64{0.25, 0.25, 0.25, 0.25},
	Pseudocount: 0.25,
	Log2:        false,
	Digits:      10,
}

// ParseBackground parses a comma-separated "A,C,G,T" probability string,
// e.g. "0.3,0.2,0.2,0.3". It checks shape and syntax only; New and
// SetBackground validate the values themselves.
func ParseBackground(s string) ([4]float64, error) {
	var bg [4]float64
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return bg, DomainError{Message: fmt.Sprintf("background %q needs 4 comma-separated values, got %d", s, len(fields))}
	}
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return bg, DomainError{Message: fmt.Sprintf("bad background value %q", field)}
		}
		bg[i] = v
	}
	return bg, nil
}
