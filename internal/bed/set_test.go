package bed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_CoalescesOverlappingAndAdjacent(t *testing.T) {
	merged := Merge([]Interval{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 150, End: 250}, // overlaps
		{Chrom: "chr1", Start: 250, End: 300}, // adjacent
		{Chrom: "chr1", Start: 400, End: 500}, // separate
		{Chrom: "chr2", Start: 100, End: 200}, // other chromosome
	})

	assert.Equal(t, []Interval{
		{Chrom: "chr1", Start: 100, End: 300},
		{Chrom: "chr1", Start: 400, End: 500},
		{Chrom: "chr2", Start: 100, End: 200},
	}, merged)
}

func TestMerge_Idempotent(t *testing.T) {
	intervals := []Interval{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 300, End: 400},
		{Chrom: "chr3", Start: 0, End: 50},
	}
	once := Merge(intervals)
	assert.Equal(t, intervals, once)
	assert.Equal(t, once, Merge(once))
}

func TestMerge_SortsUnsortedInput(t *testing.T) {
	merged := Merge([]Interval{
		{Chrom: "chr2", Start: 10, End: 20},
		{Chrom: "chr1", Start: 500, End: 600},
		{Chrom: "chr1", Start: 100, End: 200},
	})
	assert.Equal(t, []Interval{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 500, End: 600},
		{Chrom: "chr2", Start: 10, End: 20},
	}, merged)
}

func TestNewSet_SizeAndMerge(t *testing.T) {
	s, err := NewSet("panel", []Interval{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 150, End: 250},
		{Chrom: "chr2", Start: 0, End: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, "panel", s.Name)
	assert.Equal(t, int64(150+1000), s.Size)
	assert.Len(t, s.Intervals, 2)
	assert.Equal(t, []string{"chr1", "chr2"}, s.Chromosomes())
}

func TestNewSet_EmptyIsConfigurationError(t *testing.T) {
	_, err := NewSet("empty", nil)
	assert.Error(t, err)
}

func TestNewSet_ZeroSizeIsConfigurationError(t *testing.T) {
	_, err := NewSet("degenerate", []Interval{{Chrom: "chr1", Start: 100, End: 100}})
	assert.Error(t, err)
}

func TestSet_ContainsBoundaries(t *testing.T) {
	s, err := NewSet("b", []Interval{{Chrom: "chr1", Start: 99, End: 100}})
	require.NoError(t, err)

	// start < posStart and end >= posEnd: contained.
	assert.True(t, s.Contains("chr1", 100, 100))

	s2, err := NewSet("b2", []Interval{{Chrom: "chr1", Start: 100, End: 101}})
	require.NoError(t, err)

	// start == posStart fails the strict inequality.
	assert.False(t, s2.Contains("chr1", 100, 100))
}

func TestSet_Contains(t *testing.T) {
	s, err := NewSet("panel", []Interval{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 300, End: 400},
	})
	require.NoError(t, err)

	assert.True(t, s.Contains("chr1", 150, 150))
	assert.True(t, s.Contains("chr1", 101, 200))
	assert.True(t, s.Contains("chr1", 301, 400))
	assert.False(t, s.Contains("chr1", 250, 250))  // in the gap
	assert.False(t, s.Contains("chr1", 150, 250))  // spans past the interval end
	assert.False(t, s.Contains("chr2", 150, 150))  // chromosome absent
	assert.False(t, s.Contains("chr1", 50, 50))    // left of all intervals
	assert.False(t, s.Contains("chr1", 450, 450))  // right of all intervals
	assert.False(t, s.Contains("chr1", 150, 0))    // undefined end never matches
}

func TestNormalizeChrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "chr1"},
		{"chr1", "chr1"},
		{"CHR1", "chr1"},
		{"Chr1", "chr1"},
		{"X", "chrX"},
		{"chrX", "chrX"},
		{"MT", "chrMT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeChrom(tt.in))
	}
}
