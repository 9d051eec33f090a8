package main

/*
bio-pwm-pvalue converts between motif scores and p-values for a set of
position weight matrices.
*/

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/motif/encoding/jaspar"
	"github.com/grailbio/motif/pwm"
	"github.com/pkg/errors"
)

var (
	score       = flag.Float64("score", math.NaN(), "Score to convert to a p-value; this xor -pvalue required")
	pvalue      = flag.Float64("pvalue", math.NaN(), "P-value to convert to a score; this xor -score required")
	background  = flag.String("background", "0.25,0.25,0.25,0.25", "Comma-separated A,C,G,T background probabilities")
	pseudocount = flag.Float64("pseudocount", pwm.DefaultOpts.Pseudocount, "Pseudocount added to each count cell before the log-odds conversion")
	log2        = flag.Bool("log2", pwm.DefaultOpts.Log2, "Take log-odds in base 2 instead of base e")
	weights     = flag.Bool("weights", false, "Treat matrix files as log-odds weights rather than counts")
	precision   = flag.Int("precision", 0, "Decimal digits kept when rescaling weights to integers; 0 = default (10)")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous matrix jobs to launch; 0 = runtime.NumCPU()")
	out         = flag.String("out", "", "Output TSV path; empty = stdout")
)

type row struct {
	matrix string
	length int
	score  float64
	pvalue float64
}

func bioPwmPvalueUsage() {
	fmt.Printf("Usage: %s [OPTIONS] matrixpath...\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioPwmPvalueUsage
	shutdown := grail.Init()
	defer shutdown()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatalf("Missing positional arguments (at least one matrixpath required)")
	}
	toPvalue := !math.IsNaN(*score)
	if toPvalue == !math.IsNaN(*pvalue) {
		log.Fatalf("Exactly one of -score and -pvalue is required")
	}
	readOpts, err := makeReadOpts(*background, *pseudocount, *log2, *weights, *precision)
	if err != nil {
		log.Fatalf("%v", err)
	}

	rows := make([]row, len(paths))
	workers := *parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	err = traverse.Each(workers, func(job int) error {
		startIdx := (job * len(paths)) / workers
		endIdx := ((job + 1) * len(paths)) / workers
		for i := startIdx; i < endIdx; i++ {
			r, err := convert(paths[i], readOpts, toPvalue)
			if err != nil {
				return errors.Wrap(err, paths[i])
			}
			rows[i] = r
		}
		return nil
	})
	if err != nil {
		log.Panicf("%v", err)
	}
	if err := writeRows(rows, *out); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}

// makeReadOpts assembles the matrix options shared by the bio-pwm tools.
func makeReadOpts(background string, pseudocount float64, log2, weights bool, precision int) (jaspar.ReadOpts, error) {
	bg, err := pwm.ParseBackground(background)
	if err != nil {
		return jaspar.ReadOpts{}, errors.Wrap(err, "-background")
	}
	opts := jaspar.ReadOpts{
		Kind: jaspar.Counts,
		Matrix: pwm.Opts{
			Background:  bg,
			Pseudocount: pseudocount,
			Log2:        log2,
			Digits:      precision,
		},
	}
	if weights {
		opts.Kind = jaspar.Weights
	}
	return opts, nil
}

func convert(path string, opts jaspar.ReadOpts, toPvalue bool) (row, error) {
	m, err := jaspar.ReadPath(path, opts)
	if err != nil {
		return row{}, err
	}
	r := row{matrix: matrixName(path), length: m.Length()}
	if toPvalue {
		r.score = *score
		r.pvalue, err = m.ScoreToPvalue(*score, 0)
	} else {
		r.pvalue = *pvalue
		r.score, err = m.PvalueToScore(*pvalue, 0)
	}
	return r, err
}

// matrixName derives the MATRIX column from a path: the base name with any
// .gz and matrix-file extension removed.
func matrixName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".gz")
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func writeRows(rows []row, path string) (err error) {
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
	tsvw.WriteString("MATRIX\tLENGTH\tSCORE\tPVALUE")
	if err = tsvw.EndLine(); err != nil {
		return err
	}
	for _, r := range rows {
		tsvw.WriteString(r.matrix)
		tsvw.WriteUint32(uint32(r.length))
		tsvw.WriteString(strconv.FormatFloat(r.score, 'g', -1, 64))
		tsvw.WriteString(strconv.FormatFloat(r.pvalue, 'g', -1, 64))
		if err = tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}
