/*
bio-pwm-pvalue converts between motif scores and p-values for one or more
position weight matrices.

With -score, it reports for each matrix the probability that a random word
drawn from the background base composition scores at least that high.  With
-pvalue, it reports for each matrix the lowest score whose p-value does not
exceed the requested one.

Matrix files hold whitespace-separated JASPAR-style counts, one file per
matrix, oriented either 4xL, Lx4, or flattened on a single line.  With
-weights the cells are taken as ready-made log-odds weights instead.  Paths
may name any file system supported by grailbio/base/file and may be
gzip-compressed.

Sample usage:
bio-pwm-pvalue \
    -pvalue 1e-5 \
    MA0045.pfm \
    MA0048.pfm
*/
package main
