package vcf

import "strings"

// Class is a coarse sequence-ontology mutation class derived from the shape
// of a ref/alt allele pair.
type Class string

// The closed class enumeration. ClassUnclassified is the sentinel for
// allele pairs matching no rule; it is a defined outcome, not an error.
const (
	ClassSNV                  Class = "SNV"
	ClassInsertion            Class = "insertion"
	ClassDeletion             Class = "deletion"
	ClassDelins               Class = "delins"
	ClassDuplication          Class = "duplication"
	ClassInversion            Class = "inversion"
	ClassStructuralVariant    Class = "structural_variant"
	ClassCopyNumberVariation  Class = "copy_number_variation"
	ClassNoSequenceAlteration Class = "no_sequence_alteration"
	ClassUnclassified         Class = ""
)

// Classes returns every concrete class, in a stable order. The unclassified
// sentinel is excluded; it only appears in output when observed.
func Classes() []Class {
	return []Class{
		ClassSNV,
		ClassInsertion,
		ClassDeletion,
		ClassDelins,
		ClassDuplication,
		ClassInversion,
		ClassStructuralVariant,
		ClassCopyNumberVariation,
		ClassNoSequenceAlteration,
	}
}

// Classify maps a ref/alt allele pair to its mutation class. The rule chain
// is evaluated top to bottom and the first match wins; breakend and symbolic
// forms are tested before literal allele shapes. Multi-allelic alts are
// classified by their first comma-delimited allele.
func Classify(ref, alt string) Class {
	switch {
	case strings.ContainsAny(alt, "[]"):
		return ClassStructuralVariant
	case symbolicTag(alt, "DEL"):
		return ClassDeletion
	case symbolicTag(alt, "INS"):
		return ClassInsertion
	case symbolicTag(alt, "DUP"):
		return ClassDuplication
	case symbolicTag(alt, "INV"):
		return ClassInversion
	case symbolicTag(alt, "CNV"):
		return ClassCopyNumberVariation
	case alt == ".":
		return ClassNoSequenceAlteration
	case alt == "*":
		return ClassDeletion
	}

	alt0 := alt
	if i := strings.IndexByte(alt, ','); i >= 0 {
		alt0 = alt[:i]
	}

	switch {
	case len(ref) == 1 && len(alt0) == 1:
		return ClassSNV
	case len(ref) > 1 && len(alt0) == 1 && ref[0] == alt0[0]:
		return ClassDeletion
	case len(ref) == 1 && len(alt0) > 1 && ref[0] == alt0[0]:
		return ClassInsertion
	case len(ref) > 1 && len(alt0) > 1:
		return ClassDelins
	}

	return ClassUnclassified
}

// symbolicTag reports whether alt is a symbolic allele of the given tag,
// i.e. "<TAG>" or "<TAG:...".
func symbolicTag(alt, tag string) bool {
	return strings.HasPrefix(alt, "<"+tag+">") || strings.HasPrefix(alt, "<"+tag+":")
}
