/*
bio-pwm-distrib dumps the exact score distribution of a position weight
matrix under its background base composition.

Scores are quantized at 10^-precision; each output row holds one achievable
score, its probability, and the probability of scoring at least that much.
The table size (and the computation time) grows roughly with 10^precision,
so the default keeps two digits.

Sample usage:
bio-pwm-distrib -precision 2 MA0045.pfm
*/
package main
