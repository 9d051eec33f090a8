package fasta_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/motif/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

const fastaData = ">seq1\nACGTA\nCGTAC\nGT\n>seq2 A viral sequence\nACGT\nACGT\n"

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []fasta.Seq
		err  string
	}{
		{"two seqs", fastaData,
			[]fasta.Seq{{Name: "seq1", Bases: "ACGTACGTACGT"}, {Name: "seq2", Bases: "ACGTACGT"}}, ""},
		{"no trailing newline", ">a\nACGT",
			[]fasta.Seq{{Name: "a", Bases: "ACGT"}}, ""},
		{"empty sequence kept", ">a\n>b\nAC\n",
			[]fasta.Seq{{Name: "a"}, {Name: "b", Bases: "AC"}}, ""},
		{"blank lines skipped", ">a\n\nAC\n\nGT\n",
			[]fasta.Seq{{Name: "a", Bases: "ACGT"}}, ""},
		{"empty input", "", nil, ""},
		{"data before header", "ACGT\n>a\n", nil, "sequence data before the first '>' header"},
		{"empty name", "> desc\nACGT\n", nil, "sequence header with no name"},
	}
	for _, tt := range tests {
		got, err := fasta.Read(strings.NewReader(tt.in))
		if tt.err != "" {
			if err == nil || err.Error() != tt.err {
				t.Errorf("%s: want error %q, got %v", tt.name, tt.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestReadPath(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	plain := filepath.Join(tmpdir, "ref.fa")
	assert.NoError(t, ioutil.WriteFile(plain, []byte(fastaData), 0644))

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	zipped := filepath.Join(tmpdir, "ref.fa.gz")
	assert.NoError(t, ioutil.WriteFile(zipped, buf.Bytes(), 0644))

	want, err := fasta.Read(strings.NewReader(fastaData))
	assert.NoError(t, err)
	for _, path := range []string{plain, zipped} {
		got, err := fasta.ReadPath(path)
		assert.NoError(t, err, path)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: want %v, got %v", path, want, got)
		}
	}
}
