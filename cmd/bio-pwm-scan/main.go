package main

/*
bio-pwm-scan reports matrix matches above a score or p-value threshold in
FASTA sequences.
*/

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/motif/encoding/fasta"
	"github.com/grailbio/motif/encoding/jaspar"
	"github.com/grailbio/motif/pwm"
)

var (
	score       = flag.Float64("score", math.NaN(), "Score threshold; this xor -pvalue required")
	pvalue      = flag.Float64("pvalue", math.NaN(), "P-value threshold, resolved to a score before scanning; this xor -score required")
	background  = flag.String("background", "0.25,0.25,0.25,0.25", "Comma-separated A,C,G,T background probabilities")
	pseudocount = flag.Float64("pseudocount", pwm.DefaultOpts.Pseudocount, "Pseudocount added to each count cell before the log-odds conversion")
	log2        = flag.Bool("log2", pwm.DefaultOpts.Log2, "Take log-odds in base 2 instead of base e")
	weights     = flag.Bool("weights", false, "Treat the matrix file as log-odds weights rather than counts")
	precision   = flag.Int("precision", 0, "Decimal digits kept when rescaling weights to integers; 0 = default (10)")
	forwardOnly = flag.Bool("forward-only", false, "Scan only the forward strand")
	parallelism = flag.Int("parallelism", 0, "Maximum number of sequences scanned at once; 0 = runtime.NumCPU()")
	out         = flag.String("out", "", "Output TSV path; empty = stdout")
)

func bioPwmScanUsage() {
	fmt.Printf("Usage: %s [OPTIONS] matrixpath fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioPwmScanUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("Exactly two positional arguments (matrixpath and fapath) required; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	haveScore := !math.IsNaN(*score)
	if haveScore == !math.IsNaN(*pvalue) {
		log.Fatalf("Exactly one of -score and -pvalue is required")
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
	threshold := *score
	if !haveScore {
		if threshold, err = m.PvalueToScore(*pvalue, 0); err != nil {
			log.Panicf("%v", err)
		}
		log.Printf("resolved p-value %g to score threshold %g", *pvalue, threshold)
	}
	seqs, err := fasta.ReadPath(flag.Arg(1))
	if err != nil {
		log.Panicf("%v", err)
	}

	hits := make([][]pwm.Hit, len(seqs))
	workers := *parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(seqs) {
		workers = len(seqs)
	}
	if len(seqs) > 0 {
		err = traverse.Each(workers, func(job int) error {
			startIdx := (job * len(seqs)) / workers
			endIdx := ((job + 1) * len(seqs)) / workers
			for i := startIdx; i < endIdx; i++ {
				hits[i] = m.Scan([]byte(seqs[i].Bases), threshold, *forwardOnly)
			}
			return nil
		})
		if err != nil {
			log.Panicf("%v", err)
		}
	}
	if err := writeHits(seqs, hits, *out); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}

func writeHits(seqs []fasta.Seq, hits [][]pwm.Hit, path string) (err error) {
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
	tsvw.WriteString("SEQ\tSTART\tEND\tSTRAND\tSCORE")
	if err = tsvw.EndLine(); err != nil {
		return err
	}
	for i, seq := range seqs {
		for _, h := range hits[i] {
			tsvw.WriteString(seq.Name)
			tsvw.WriteUint32(uint32(h.Start))
			tsvw.WriteUint32(uint32(h.End))
			tsvw.WriteByte(h.Strand)
			tsvw.WriteString(strconv.FormatFloat(h.Score, 'g', -1, 64))
			if err = tsvw.EndLine(); err != nil {
				return err
			}
		}
	}
	return tsvw.Flush()
}
