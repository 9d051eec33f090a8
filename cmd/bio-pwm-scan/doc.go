/*
bio-pwm-scan scans FASTA sequences for matches of a position weight matrix.

The score threshold is given either directly with -score or as a p-value
with -pvalue, in which case it is resolved to the lowest score whose
p-value does not exceed the requested one.  Both strands are scanned unless
-forward-only is set; minus-strand hits are reported at forward-strand
coordinates.  Output rows are 0-based half-open intervals, one per hit.

Sample usage:
bio-pwm-scan \
    -pvalue 1e-4 \
    MA0045.pfm \
    promoters.fa.gz
*/
package main
