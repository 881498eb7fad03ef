package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dceoy/tmber/internal/vcf"
)

func TestAggregate_ZeroFillCompleteness(t *testing.T) {
	rows := Aggregate([]Result{{
		Bed:  "panel",
		Size: 100,
		Counts: []Count{
			{Bed: "panel", Size: 100, Class: vcf.ClassSNV, Ref: "A", Alt: "T", Observed: 1},
		},
	}})

	// Nine enumeration classes plus the synthetic total.
	require.Len(t, rows, 10)

	byClass := make(map[vcf.Class]Row)
	for _, r := range rows {
		byClass[r.Class] = r
	}
	for _, class := range vcf.Classes() {
		r, ok := byClass[class]
		require.True(t, ok, "missing row for class %q", class)
		if class == vcf.ClassSNV {
			assert.Equal(t, int64(1), r.Observed)
		} else {
			assert.Zero(t, r.Observed)
		}
	}
	assert.Equal(t, int64(1), byClass[ClassTotal].Observed)
}

func TestAggregate_SumsAllelePairsPerClass(t *testing.T) {
	rows := Aggregate([]Result{{
		Bed:  "panel",
		Size: 1000,
		Counts: []Count{
			{Class: vcf.ClassSNV, Ref: "A", Alt: "T", Observed: 2},
			{Class: vcf.ClassSNV, Ref: "C", Alt: "G", Observed: 3},
			{Class: vcf.ClassDeletion, Ref: "AT", Alt: "A", Observed: 1},
		},
	}})

	byClass := make(map[vcf.Class]Row)
	for _, r := range rows {
		byClass[r.Class] = r
	}
	assert.Equal(t, int64(5), byClass[vcf.ClassSNV].Observed)
	assert.Equal(t, int64(1), byClass[vcf.ClassDeletion].Observed)
	assert.Equal(t, int64(6), byClass[ClassTotal].Observed)
}

func TestAggregate_TotalExcludesNoSequenceAlteration(t *testing.T) {
	rows := Aggregate([]Result{{
		Bed:  "panel",
		Size: 1000,
		Counts: []Count{
			{Class: vcf.ClassSNV, Ref: "A", Alt: "T", Observed: 2},
			{Class: vcf.ClassNoSequenceAlteration, Ref: "A", Alt: ".", Observed: 7},
			{Class: vcf.ClassUnclassified, Ref: "AT", Alt: "G", Observed: 4},
		},
	}})

	byClass := make(map[vcf.Class]Row)
	for _, r := range rows {
		byClass[r.Class] = r
	}
	assert.Equal(t, int64(7), byClass[vcf.ClassNoSequenceAlteration].Observed)
	assert.Equal(t, int64(4), byClass[vcf.ClassUnclassified].Observed)
	assert.Equal(t, int64(2), byClass[ClassTotal].Observed)
}

func TestAggregate_RateCorrectness(t *testing.T) {
	rows := Aggregate([]Result{{
		Bed:  "exome",
		Size: 1_000_000,
		Counts: []Count{
			{Class: vcf.ClassSNV, Ref: "A", Alt: "T", Observed: 3},
		},
	}})

	for _, r := range rows {
		if r.Class == vcf.ClassSNV {
			assert.Equal(t, 3.0, r.PerMB)
		}
	}
}

func TestAggregate_SortedByBedSizeClass(t *testing.T) {
	rows := Aggregate([]Result{
		{Bed: "zpanel", Size: 100, Counts: nil},
		{Bed: "apanel", Size: 100, Counts: nil},
	})
	require.Len(t, rows, 20)

	assert.Equal(t, "apanel", rows[0].Bed)
	assert.Equal(t, "zpanel", rows[10].Bed)
	for i := 1; i < 10; i++ {
		assert.Less(t, string(rows[i-1].Class), string(rows[i].Class))
	}
}

func TestAggregate_EmptyRegionSetStillZeroFilled(t *testing.T) {
	rows := Aggregate([]Result{{Bed: "panel", Size: 500, Counts: nil}})
	require.Len(t, rows, 10)
	for _, r := range rows {
		assert.Zero(t, r.Observed)
		assert.Zero(t, r.PerMB)
	}
}
