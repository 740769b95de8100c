package sherd

import (
	"context"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/universal"
)

// Repository provides persistence for sherds and grouped summaries.
type Repository interface {
	Create(ctx context.Context, s *Sherd) error
	Get(ctx context.Context, docID string) (*Sherd, error)
	ListByGroup(ctx context.Context, groupDocID string) ([]Sherd, error)
	CreateSummary(ctx context.Context, s *GroupedSummary) error
	ListSummaries(ctx context.Context, groupDocID string) ([]GroupedSummary, error)
}

// GroupRepository provides the material group operations the ingestion
// pipeline needs.
type GroupRepository interface {
	Create(ctx context.Context, g *catalog.MaterialGroup) error
	Get(ctx context.Context, docID string) (*catalog.MaterialGroup, error)
	AddAggregates(ctx context.Context, docID string, weightDelta float64, countDelta int64) error
}

// Mirror writes denormalized sherd entries into the universal index.
type Mirror interface {
	Mirror(ctx context.Context, entry universal.Entry) (string, error)
}
