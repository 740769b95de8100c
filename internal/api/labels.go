package api

import (
	"strings"

	"github.com/arcslab/arcfield/internal/domain/catalog"
)

// Vocabulary values that are acronyms keep full capitals in display labels.
var labelAcronyms = map[string]string{
	"its": "ITS",
}

// FormatLabel renders a stored vocabulary value ("fine-ware",
// "black_gloss") as a display label ("Fine Ware", "Black Gloss").
func FormatLabel(v string) string {
	if v == "" {
		return ""
	}
	words := strings.FieldsFunc(v, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		lower := strings.ToLower(w)
		if a, ok := labelAcronyms[lower]; ok {
			words[i] = a
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// materialGroupResponse decorates a group with its display label.
type materialGroupResponse struct {
	*catalog.MaterialGroup
	MaterialTypeLabel string `json:"materialTypeLabel"`
}

func groupResponse(g *catalog.MaterialGroup) materialGroupResponse {
	return materialGroupResponse{
		MaterialGroup:     g,
		MaterialTypeLabel: FormatLabel(string(g.MaterialType)),
	}
}

func groupListResponse(groups []catalog.MaterialGroup) []materialGroupResponse {
	out := make([]materialGroupResponse, len(groups))
	for i := range groups {
		out[i] = groupResponse(&groups[i])
	}
	return out
}
