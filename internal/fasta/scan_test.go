package fasta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/textio"
)

func TestReadAll(t *testing.T) {
	input := ">chr1 Homo sapiens chromosome 1\nACGT\nNNAC\n>2\nGGCC\n"
	records, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "chr1", records[0].Name)
	assert.Equal(t, "ACGTNNAC", string(records[0].Seq))
	assert.Equal(t, "chr2", records[1].Name)
	assert.Equal(t, "GGCC", string(records[1].Seq))
}

func TestReadAll_DataBeforeHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("ACGT\n"))
	assert.Error(t, err)
}

func TestTargetRegions(t *testing.T) {
	rec := Record{Name: "chr1", Seq: []byte("NNACGTNNACNN")}
	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 2, End: 6},
		{Chrom: "chr1", Start: 8, End: 10},
	}, TargetRegions(rec, "ACGT"))
}

func TestTargetRegions_RunToEnd(t *testing.T) {
	rec := Record{Name: "chr1", Seq: []byte("ACGT")}
	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 0, End: 4},
	}, TargetRegions(rec, "ACGT"))
}

func TestTargetRegions_CaseSensitivity(t *testing.T) {
	rec := Record{Name: "chr1", Seq: []byte("ACacGT")}

	// Uppercase-only targets skip soft-masked bases.
	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 0, End: 2},
		{Chrom: "chr1", Start: 4, End: 6},
	}, TargetRegions(rec, "ACGT"))

	// Including lowercase letters covers the whole run.
	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 0, End: 6},
	}, TargetRegions(rec, "ACGTacgt"))
}

func TestTargetRegions_NoTargets(t *testing.T) {
	rec := Record{Name: "chr1", Seq: []byte("NNNN")}
	assert.Empty(t, TargetRegions(rec, "ACGT"))
}

func TestScanner_ScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genome.fa")
	content := ">chr2\nNNACGT\n>chr1\nACNNGT\n>chrX\nACGT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := NewScanner("ACGT")
	s.Workers = 2
	intervals, err := s.ScanFile(path, textio.Options{})
	require.NoError(t, err)

	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 0, End: 2},
		{Chrom: "chr1", Start: 4, End: 6},
		{Chrom: "chr2", Start: 2, End: 6},
		{Chrom: "chrX", Start: 0, End: 4},
	}, intervals)
}

func TestScanner_HumanAutosomeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genome.fa")
	content := ">chr1\nACGT\n>chrX\nACGT\n>chrM\nACGT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := NewScanner("ACGT")
	s.HumanAutosome = true
	intervals, err := s.ScanFile(path, textio.Options{})
	require.NoError(t, err)

	assert.Equal(t, []bed.Interval{
		{Chrom: "chr1", Start: 0, End: 4},
	}, intervals)
}
