// Package tally joins variant collections against region sets and
// aggregates the per-class counts into a TMB table.
package tally

import (
	"sort"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/vcf"
)

// Count is the number of variants of one (ref, alt) allele pair contained
// in a region set.
type Count struct {
	Bed      string
	Size     int64
	Class    vcf.Class
	Ref      string
	Alt      string
	Observed int64
}

// Tally counts, per distinct (ref, alt) pair, the variants whose span is
// contained in at least one interval of the set. A variant overlapping
// several intervals counts once, and a variant with an undefined end never
// matches. The variant slice is shared and read-only; results are sorted by
// (class, ref, alt).
func Tally(variants []*vcf.Variant, set *bed.Set) []Count {
	type pair struct {
		ref, alt string
	}
	observed := make(map[pair]int64)
	for _, v := range variants {
		if set.Contains(v.Chrom, v.PosStart, v.PosEnd) {
			observed[pair{v.Ref, v.Alt}]++
		}
	}

	counts := make([]Count, 0, len(observed))
	for p, n := range observed {
		counts = append(counts, Count{
			Bed:      set.Name,
			Size:     set.Size,
			Class:    vcf.Classify(p.ref, p.alt),
			Ref:      p.ref,
			Alt:      p.alt,
			Observed: n,
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Class != counts[j].Class {
			return counts[i].Class < counts[j].Class
		}
		if counts[i].Ref != counts[j].Ref {
			return counts[i].Ref < counts[j].Ref
		}
		return counts[i].Alt < counts[j].Alt
	})
	return counts
}
