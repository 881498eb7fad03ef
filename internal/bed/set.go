// Package bed provides genomic region sets built from BED intervals.
package bed

import (
	"fmt"
	"sort"
	"strings"
)

// Interval is a 0-based, half-open genomic interval.
type Interval struct {
	Chrom string
	Start int64
	End   int64
}

// Set is a named, immutable collection of non-overlapping intervals.
// Intervals are coalesced once at construction; queries never re-merge.
type Set struct {
	Name      string
	Intervals []Interval // sorted by chrom then start
	Size      int64      // sum of (End - Start) over all intervals

	byChrom map[string][]Interval
}

// NewSet builds a region set from raw intervals, coalescing overlapping and
// adjacent intervals. Chromosome names must already be chr-normalized by the
// caller (see NormalizeChrom).
//
// An empty interval list or a merged set covering zero bases is a
// configuration error: TMB is undefined over an empty territory.
func NewSet(name string, intervals []Interval) (*Set, error) {
	if len(intervals) == 0 {
		return nil, fmt.Errorf("region set %q has no intervals", name)
	}

	merged := Merge(intervals)

	var size int64
	byChrom := make(map[string][]Interval)
	for _, iv := range merged {
		size += iv.End - iv.Start
		byChrom[iv.Chrom] = append(byChrom[iv.Chrom], iv)
	}
	if size <= 0 {
		return nil, fmt.Errorf("region set %q covers zero bases", name)
	}

	return &Set{
		Name:      name,
		Intervals: merged,
		Size:      size,
		byChrom:   byChrom,
	}, nil
}

// Merge returns a sorted copy of intervals with overlapping and adjacent
// intervals on the same chromosome coalesced. Merging an already-merged
// list returns it unchanged.
func Merge(intervals []Interval) []Interval {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Chrom != sorted[j].Chrom {
			return sorted[i].Chrom < sorted[j].Chrom
		}
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := sorted[:0]
	for _, iv := range sorted {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.Chrom == iv.Chrom && iv.Start <= last.End {
				if iv.End > last.End {
					last.End = iv.End
				}
				continue
			}
		}
		merged = append(merged, iv)
	}
	return merged
}

// Contains reports whether the 1-based inclusive span [posStart, posEnd]
// falls entirely within one interval of the set. The test against an
// interval (start, end) is: start < posStart && end >= posEnd. A span with
// an undefined end (posEnd == 0) never matches.
//
// Intervals within a chromosome are disjoint with strictly increasing ends,
// so the only candidate is the rightmost interval starting left of posStart;
// a binary search finds it in O(log n).
func (s *Set) Contains(chrom string, posStart, posEnd int64) bool {
	if posEnd == 0 {
		return false
	}
	ivs := s.byChrom[chrom]
	if len(ivs) == 0 {
		return false
	}
	i := sort.Search(len(ivs), func(i int) bool {
		return ivs[i].Start >= posStart
	})
	if i == 0 {
		return false
	}
	return ivs[i-1].End >= posEnd
}

// Chromosomes returns the chromosome names covered by the set, sorted.
func (s *Set) Chromosomes() []string {
	chroms := make([]string, 0, len(s.byChrom))
	for c := range s.byChrom {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// NormalizeChrom strips any case-insensitive "chr" prefix and re-prepends
// "chr" exactly once, so "1", "chr1" and "CHR1" all become "chr1".
func NormalizeChrom(chrom string) string {
	if len(chrom) >= 3 && strings.EqualFold(chrom[:3], "chr") {
		chrom = chrom[3:]
	}
	return "chr" + chrom
}
