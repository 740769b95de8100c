package sherd

import (
	"time"

	"github.com/arcslab/arcfield/internal/domain/universal"
)

// UnknownType is substituted for missing diagnostic or qualification
// values during normalization; missing data is recorded, not rejected.
const UnknownType = "unknown"

// Sherd is a single recorded pottery fragment under a material group.
type Sherd struct {
	DocID              string                `json:"docId"`
	SherdID            string                `json:"sherdId"`
	ProjectID          string                `json:"projectId"`
	StudyAreaID        string                `json:"studyAreaId"`
	StratUnitID        string                `json:"stratUnitId"`
	ContainerID        string                `json:"containerId"`
	GroupID            string                `json:"objectGroupId"`
	DiagnosticType     string                `json:"diagnosticType"`
	QualificationType  string                `json:"qualificationType"`
	Weight             float64               `json:"weight"`
	BoundingBox        universal.BoundingBox `json:"boundingBox"`
	AnalysisConfidence *float64              `json:"analysisConfidence,omitempty"`
	OriginalImageURL   string                `json:"originalImageUrl,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// Observation is one sherd as observed in the field or returned by the
// detection service, before normalization and persistence.
type Observation struct {
	SherdID           string   `json:"sherd_id"`
	DiagnosticType    string   `json:"type_prediction"`
	QualificationType string   `json:"qualification_prediction"`
	Weight            float64  `json:"weight"`
	Confidence        *float64 `json:"confidence,omitempty"`
	X                 *float64 `json:"x,omitempty"`
	Y                 *float64 `json:"y,omitempty"`
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	DetectionID       string   `json:"detection_id,omitempty"`
}

// GroupedRow is one aggregate manual-entry row: a count of fragments
// sharing a diagnostic and qualification type, with their combined weight.
type GroupedRow struct {
	DiagnosticType    string  `json:"diagnosticType"`
	QualificationType string  `json:"qualificationType"`
	Count             int     `json:"count"`
	Weight            float64 `json:"weight"`
}

// GroupedSummary is a persisted aggregate row under a material group.
// This is a distinct write shape from individual Sherd records.
type GroupedSummary struct {
	DocID             string    `json:"docId"`
	GroupID           string    `json:"objectGroupId"`
	DiagnosticType    string    `json:"diagnosticType"`
	QualificationType string    `json:"qualificationType"`
	Count             int       `json:"count"`
	Weight            float64   `json:"weight"`
	CreatedAt         time.Time `json:"createdAt"`
}

// GroupRef addresses the material group an ingestion targets, carrying the
// ancestry denormalized into mirrored index entries. GroupDocID may be
// empty, in which case the group is created during ingestion.
type GroupRef struct {
	ProjectID    string
	StudyAreaID  string
	StratUnitID  string
	ContainerID  string
	GroupDocID   string
	MaterialID   string
	MaterialType string
}

// SherdError records the failure of a single observation within a batch.
type SherdError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestResult reports the outcome of a batch ingestion. A batch is not
// all-or-nothing: SavedCount and Failures partition the input.
type IngestResult struct {
	GroupDocID  string       `json:"groupDocId"`
	SavedCount  int          `json:"savedCount"`
	TotalWeight float64      `json:"totalWeight"`
	Failures    []SherdError `json:"failures,omitempty"`
}
