package universal

import "time"

// BoundingBox locates a detected sherd within its source photograph.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Entry is a denormalized mirror of a recorded sherd, stored in the flat
// cross-project index with the full ancestry of its owning hierarchy.
type Entry struct {
	DocID              string      `json:"docId"`
	SherdID            string      `json:"sherdId"`
	ProjectID          string      `json:"projectId"`
	StudyAreaID        string      `json:"studyAreaId"`
	StratUnitID        string      `json:"stratUnitId"`
	ContainerID        string      `json:"containerId"`
	ObjectGroupID      string      `json:"objectGroupId"`
	DiagnosticType     string      `json:"diagnosticType"`
	QualificationType  string      `json:"qualificationType"`
	Weight             float64     `json:"weight"`
	BoundingBox        BoundingBox `json:"boundingBox"`
	AnalysisConfidence *float64    `json:"analysisConfidence,omitempty"`
	OriginalImageURL   string      `json:"originalImageUrl,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// Filter narrows an index query. A zero ProjectID matches every project.
type Filter struct {
	ProjectID string
	Limit     int
}

// Stats summarizes a query result for the read-only viewer.
type Stats struct {
	TotalSherds   int            `json:"totalSherds"`
	TotalWeight   float64        `json:"totalWeight"`
	ProjectCounts map[string]int `json:"projectCounts"`
}
