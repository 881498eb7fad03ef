package tally

import (
	"sort"

	"github.com/dceoy/tmber/internal/vcf"
)

// ClassTotal is the synthetic per-region-set class summing every concrete
// class except no_sequence_alteration (and unclassified pairs, which are
// not countable mutations).
const ClassTotal vcf.Class = "total"

// Row is one line of the final TMB table.
type Row struct {
	Bed      string
	Size     int64
	Class    vcf.Class
	Observed int64
	PerMB    float64
}

// Aggregate folds per-region-set tallies into the final TMB table: one row
// per (bed, size, class) with allele pairs of the same class summed, a
// zero-count row for every unobserved class of the enumeration, and a total
// row per region set. Rows are sorted by (bed, size, class).
func Aggregate(results []Result) []Row {
	var rows []Row
	for _, res := range results {
		perClass := make(map[vcf.Class]int64, len(vcf.Classes())+1)
		for _, class := range vcf.Classes() {
			perClass[class] = 0
		}

		var total int64
		for _, c := range res.Counts {
			perClass[c.Class] += c.Observed
			if c.Class != vcf.ClassNoSequenceAlteration && c.Class != vcf.ClassUnclassified {
				total += c.Observed
			}
		}
		perClass[ClassTotal] = total

		for class, observed := range perClass {
			rows = append(rows, Row{
				Bed:      res.Bed,
				Size:     res.Size,
				Class:    class,
				Observed: observed,
				PerMB:    float64(observed) / float64(res.Size) * 1e6,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Bed != rows[j].Bed {
			return rows[i].Bed < rows[j].Bed
		}
		if rows[i].Size != rows[j].Size {
			return rows[i].Size < rows[j].Size
		}
		return rows[i].Class < rows[j].Class
	})
	return rows
}
