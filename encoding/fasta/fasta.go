// Package fasta contains code for parsing FASTA files.  Briefly, FASTA
// files consist of a number of named sequences whose bases may be
// interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters
// excluding spaces immediately after '>'.  Any text appearing after a
// space is ignored.  For example, '>chr1 A viral sequence' becomes
// 'chr1'.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"
)

// A single unwrapped line can hold a whole chromosome.
const maxLineBytes = 1024 * 1024 * 300 // 300 MB

// Seq is one named sequence, with bases exactly as they appear in the
// file.
type Seq struct {
	Name  string
	Bases string
}

// Read parses all sequences from r, in order of appearance.
func Read(r io.Reader) ([]Seq, error) {
	var (
		seqs  []Seq
		name  string
		seen  bool
		bases strings.Builder
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if seen {
				seqs = append(seqs, Seq{Name: name, Bases: bases.String()})
				bases.Reset()
			}
			name = strings.Split(line[1:], " ")[0]
			if name == "" {
				return nil, errors.New("sequence header with no name")
			}
			seen = true
		} else {
			if !seen {
				return nil, errors.New("sequence data before the first '>' header")
			}
			bases.WriteString(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if seen {
		seqs = append(seqs, Seq{Name: name, Bases: bases.String()})
	}
	return seqs, nil
}

// ReadPath reads all sequences from the file at path.  The path may
// name any file system supported by grailbio/base/file, and compressed
// inputs are transparently uncompressed.
func ReadPath(path string) (seqs []Seq, err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	r := io.Reader(in.Reader(ctx))
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return Read(r)
}
