package universal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultQueryLimit = 100

// Repository provides persistence for universal index entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}

// Service handles the cross-project sherd index.
type Service struct {
	entries Repository
	logger  *slog.Logger
}

// NewService creates a new universal index service.
func NewService(entries Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{entries: entries, logger: logger}
}

// Mirror writes a denormalized sherd entry into the index and returns its
// store-assigned ID. Optional fields are normalized before the write: a NaN
// confidence is dropped rather than persisted.
func (s *Service) Mirror(ctx context.Context, entry Entry) (string, error) {
	entry.DocID = uuid.NewString()
	entry.CreatedAt = time.Now()
	if entry.AnalysisConfidence != nil && math.IsNaN(*entry.AnalysisConfidence) {
		entry.AnalysisConfidence = nil
	}
	if err := s.entries.Create(ctx, &entry); err != nil {
		return "", fmt.Errorf("mirroring sherd %s: %w", entry.SherdID, err)
	}
	return entry.DocID, nil
}

// Query returns index entries newest first, optionally filtered by project.
func (s *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	filter.ProjectID = strings.TrimSpace(filter.ProjectID)
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	return s.entries.Query(ctx, filter)
}

// Summarize computes viewer statistics over a query result.
func Summarize(entries []Entry) Stats {
	stats := Stats{ProjectCounts: make(map[string]int)}
	for _, e := range entries {
		stats.TotalSherds++
		stats.TotalWeight += e.Weight
		stats.ProjectCounts[e.ProjectID]++
	}
	return stats
}
