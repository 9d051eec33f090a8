/*
Package pwm computes exact p-values for position weight matrix (PWM)
scores, and score thresholds for p-values, using the lazy granularity
refinement of Touzet and Varré (TFM-Pvalue, Algorithms for Molecular
Biology 2008).

A matrix is built from per-base counts (New) or from precomputed log-odds
weights (NewFromWeights); rows are A, C, G, T from top. The score of a
word is the sum of the per-position weights of its bases, and the p-value
of a score is the probability that a word drawn from the background model
scores at least that high.

Both query directions share one mechanism. Weights are rescaled to
integers at a granularity of 10^-digits, the exact distribution of the
integer score is computed by dynamic programming over matrix columns, and
the accumulated rounding error brackets the true answer from both sides.
When the brackets agree the answer is exact and the refinement stops;
otherwise the granularity deepens tenfold and the distribution is
recomputed over a narrowed score window.

All probability arithmetic is plain float64. Tail sums are accumulated
from the highest score down, so the smallest masses combine first.
*/
package pwm
