// Package vcf provides VCF variant parsing, filtering and mutation-class
// derivation.
package vcf

import (
	"strconv"
	"strings"

	"github.com/dceoy/tmber/internal/bed"
)

// Variant is a single variant call with a normalized chromosome name and a
// derived end coordinate. Variants are immutable once constructed.
type Variant struct {
	Chrom    string // chr-normalized chromosome name
	PosStart int64  // 1-based start, as read
	PosEnd   int64  // 1-based inclusive end; 0 when underivable
	Ref      string
	Alt      string // may be symbolic (<DEL>), breakend, "." or "*"
	Filter   string
	Format   string   // colon-delimited FORMAT keys, "" when absent
	Samples  []string // per-sample values, aligned with the header's sample names
}

// Key identifies a variant for deduplication.
type Key struct {
	Chrom    string
	PosStart int64
	PosEnd   int64
	Ref      string
	Alt      string
}

// Key returns the deduplication key of v.
func (v *Variant) Key() Key {
	return Key{
		Chrom:    v.Chrom,
		PosStart: v.PosStart,
		PosEnd:   v.PosEnd,
		Ref:      v.Ref,
		Alt:      v.Alt,
	}
}

// Class returns the mutation class of v's allele pair.
func (v *Variant) Class() Class {
	return Classify(v.Ref, v.Alt)
}

// Passed reports whether v survived upstream filtering (FILTER is PASS
// or ".").
func (v *Variant) Passed() bool {
	return v.Filter == "PASS" || v.Filter == "."
}

// AlleleFrequency returns the AF subfield of the sample at index i, located
// by zipping the colon-delimited FORMAT keys with the sample's
// colon-delimited value. The second return is false when the sample or its
// AF subfield is absent or non-numeric.
func (v *Variant) AlleleFrequency(i int) (float64, bool) {
	if v.Format == "" || i < 0 || i >= len(v.Samples) {
		return 0, false
	}
	keys := strings.Split(v.Format, ":")
	values := strings.Split(v.Samples[i], ":")
	for j, key := range keys {
		if key != "AF" {
			continue
		}
		if j >= len(values) {
			return 0, false
		}
		af, err := strconv.ParseFloat(values[j], 64)
		if err != nil {
			return 0, false
		}
		return af, true
	}
	return 0, false
}

// Dedup collapses exact duplicates (same chrom, start, end, ref and alt),
// keeping first-occurrence order. Duplicate input lines must not be counted
// twice.
func Dedup(variants []*Variant) []*Variant {
	seen := make(map[Key]struct{}, len(variants))
	out := make([]*Variant, 0, len(variants))
	for _, v := range variants {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// deriveEnd computes the 1-based inclusive end coordinate. Symbolic alleles
// take it from the INFO END key; a missing or non-numeric END leaves the
// end undefined (0), which excludes the record from containment matching.
// Literal alleles span posStart + len(ref) - 1.
func deriveEnd(posStart int64, ref, alt string, info map[string]string) int64 {
	if strings.HasPrefix(alt, "<") {
		raw, ok := info["END"]
		if !ok {
			return 0
		}
		end, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0
		}
		return end
	}
	return posStart + int64(len(ref)) - 1
}

// newVariant builds a Variant from raw VCF fields, normalizing the
// chromosome name and deriving the end coordinate.
func newVariant(chrom string, pos int64, ref, alt, filter string, info map[string]string, format string, samples []string) *Variant {
	return &Variant{
		Chrom:    bed.NormalizeChrom(chrom),
		PosStart: pos,
		PosEnd:   deriveEnd(pos, ref, alt, info),
		Ref:      ref,
		Alt:      alt,
		Filter:   filter,
		Format:   format,
		Samples:  samples,
	}
}
