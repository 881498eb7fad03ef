package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/vcf"
)

func mustSet(t *testing.T, name string, intervals ...bed.Interval) *bed.Set {
	t.Helper()
	s, err := bed.NewSet(name, intervals)
	require.NoError(t, err)
	return s
}

func snv(chrom string, pos int64, ref, alt string) *vcf.Variant {
	return &vcf.Variant{
		Chrom:    chrom,
		PosStart: pos,
		PosEnd:   pos + int64(len(ref)) - 1,
		Ref:      ref,
		Alt:      alt,
	}
}

func TestTally_CountsContainedVariants(t *testing.T) {
	set := mustSet(t, "panel", bed.Interval{Chrom: "chr1", Start: 100, End: 200})

	variants := vcf.Dedup([]*vcf.Variant{
		snv("chr1", 150, "A", "T"),
		snv("chr1", 150, "A", "T"), // duplicate, must collapse
		snv("chr1", 300, "A", "G"), // outside the region
	})

	counts := Tally(variants, set)
	require.Len(t, counts, 1)
	assert.Equal(t, Count{
		Bed:      "panel",
		Size:     100,
		Class:    vcf.ClassSNV,
		Ref:      "A",
		Alt:      "T",
		Observed: 1,
	}, counts[0])
}

func TestTally_GroupsByAllelePair(t *testing.T) {
	set := mustSet(t, "panel", bed.Interval{Chrom: "chr1", Start: 0, End: 1000})

	counts := Tally([]*vcf.Variant{
		snv("chr1", 10, "A", "T"),
		snv("chr1", 20, "A", "T"),
		snv("chr1", 30, "C", "G"),
		snv("chr1", 40, "CT", "C"),
	}, set)

	require.Len(t, counts, 3)
	// Sorted by (class, ref, alt): SNVs first, then the deletion.
	assert.Equal(t, vcf.ClassSNV, counts[0].Class)
	assert.Equal(t, "A", counts[0].Ref)
	assert.Equal(t, int64(2), counts[0].Observed)
	assert.Equal(t, vcf.ClassSNV, counts[1].Class)
	assert.Equal(t, "C", counts[1].Ref)
	assert.Equal(t, vcf.ClassDeletion, counts[2].Class)
	assert.Equal(t, int64(1), counts[2].Observed)
}

func TestTally_UndefinedEndNeverMatches(t *testing.T) {
	set := mustSet(t, "panel", bed.Interval{Chrom: "chr1", Start: 0, End: 10000})

	sv := &vcf.Variant{Chrom: "chr1", PosStart: 100, PosEnd: 0, Ref: "A", Alt: "<DEL>"}
	counts := Tally([]*vcf.Variant{sv}, set)
	assert.Empty(t, counts)
}

func TestTally_MultiIntervalOverlapCountsOnce(t *testing.T) {
	// Adjacent raw intervals coalesce at construction, so a span across the
	// seam is contained exactly once.
	set := mustSet(t, "panel",
		bed.Interval{Chrom: "chr1", Start: 100, End: 200},
		bed.Interval{Chrom: "chr1", Start: 200, End: 300},
	)

	counts := Tally([]*vcf.Variant{snv("chr1", 195, "ACGTACGTAC", "A")}, set)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Observed)
}

func TestTally_SpanContainment(t *testing.T) {
	set := mustSet(t, "panel", bed.Interval{Chrom: "chr1", Start: 99, End: 200})

	// A deletion spanning past the interval end is not contained.
	inside := snv("chr1", 100, "ACG", "A")       // span 100-102
	overhang := snv("chr1", 199, "ACG", "A")     // span 199-201
	counts := Tally([]*vcf.Variant{inside, overhang}, set)
	require.Len(t, counts, 1)
	assert.Equal(t, "ACG", counts[0].Ref)
	assert.Equal(t, int64(1), counts[0].Observed)
}
