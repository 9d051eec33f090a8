package main

/*
bio-pwm-distrib dumps the score distribution of a position weight matrix.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/motif/encoding/jaspar"
	"github.com/grailbio/motif/pwm"
)

var (
	background  = flag.String("background", "0.25,0.25,0.25,0.25", "Comma-separated A,C,G,T background probabilities")
	pseudocount = flag.Float64("pseudocount", pwm.DefaultOpts.Pseudocount, "Pseudocount added to each count cell before the log-odds conversion")
	log2        = flag.Bool("log2", pwm.DefaultOpts.Log2, "Take log-odds in base 2 instead of base e")
	weights     = flag.Bool("weights", false, "Treat the matrix file as log-odds weights rather than counts")
	precision   = flag.Int("precision", 2, "Decimal digits kept when rescaling weights to integers; the table grows with 10^precision")
	out         = flag.String("out", "", "Output TSV path; empty = stdout")
)

func bioPwmDistribUsage() {
	fmt.Printf("Usage: %s [OPTIONS] matrixpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioPwmDistribUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (matrixpath) required; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	bg, err := pwm.ParseBackground(*background)
	if err != nil {
		log.Fatalf("Invalid -background: %v", err)
	}
	readOpts := jaspar.ReadOpts{
		Kind: jaspar.Counts,
		Matrix: pwm.Opts{
			Background:  bg,
			Pseudocount: *pseudocount,
			Log2:        *log2,
			Digits:      *precision,
		},
	}
	if *weights {
		readOpts.Kind = jaspar.Weights
	}
	m, err := jaspar.ReadPath(flag.Arg(0), readOpts)
	if err != nil {
		log.Panicf("%v", err)
	}
	dist, err := m.Distribution(0)
	if err != nil {
		log.Panicf("%v", err)
	}
	if err := writeDistribution(dist, *out); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}

func writeDistribution(dist []pwm.ScoreProb, path string) (err error) {
	ctx := vcontext.Background()
	w := io.Writer(os.Stdout)
	if path != "" {
		var f file.File
		if f, err = file.Create(ctx, path); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, f, &err)
		w = f.Writer(ctx)
	}
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("SCORE\tPROB\tPVALUE")
	if err = tsvw.EndLine(); err != nil {
		return err
	}
	for _, sp := range dist {
		tsvw.WriteString(strconv.FormatFloat(sp.Score, 'g', -1, 64))
		tsvw.WriteString(strconv.FormatFloat(sp.Prob, 'g', -1, 64))
		tsvw.WriteString(strconv.FormatFloat(sp.Pvalue, 'g', -1, 64))
		if err = tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}
