package sherd

import "github.com/arcslab/arcfield/internal/domain/catalog"

// DiagnosticTypes is the closed set of morphological fragment classes.
var DiagnosticTypes = []string{"rim", "base", "body", "foot", "handle", "spout", "lip"}

// Qualification vocabularies are ware-specific: fine ware and coarse ware
// use disjoint label sets. Wares without a vocabulary accept any label.
var (
	fineWareQualifications = map[string]bool{
		"its":         true,
		"african":     true,
		"black_gloss": true,
		"sardinian":   true,
		"thin_wall":   true,
	}
	coarseWareQualifications = map[string]bool{
		"unidentified": true,
		"punic":        true,
	}
)

// ValidDiagnosticType reports whether the value is a known fragment class
// or the unknown placeholder.
func ValidDiagnosticType(v string) bool {
	if v == UnknownType {
		return true
	}
	for _, d := range DiagnosticTypes {
		if d == v {
			return true
		}
	}
	return false
}

// ValidQualification reports whether the qualification label belongs to
// the vocabulary of the given ware. The unknown placeholder is always
// accepted.
func ValidQualification(materialType, qualification string) bool {
	if qualification == UnknownType {
		return true
	}
	switch catalog.MaterialType(materialType) {
	case catalog.MaterialFineWare:
		return fineWareQualifications[qualification]
	case catalog.MaterialCoarseWare:
		return coarseWareQualifications[qualification]
	default:
		return qualification != ""
	}
}
