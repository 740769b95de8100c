package sherd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/arcslab/arcfield/internal/repository"
	"github.com/google/uuid"
)

// Service is the sherd ingestion pipeline. It persists batches of sherd
// observations under a material group, keeps the group's aggregates
// consistent through a single atomic increment per batch, and mirrors
// every persisted sherd into the universal index on a best-effort basis.
type Service struct {
	sherds Repository
	groups GroupRepository
	index  Mirror
	logger *slog.Logger
}

// NewService creates a new sherd ingestion service.
func NewService(sherds Repository, groups GroupRepository, index Mirror, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sherds: sherds, groups: groups, index: index, logger: logger}
}

// IngestDetections persists a batch of individual sherd observations
// (typically detection-service output reviewed by a user) under the
// referenced material group. Failures are isolated per observation; the
// group's sherdCount and totalWeight are incremented once, by the actual
// successful-write totals.
func (s *Service) IngestDetections(ctx context.Context, ref GroupRef, batch []Observation, annotatedImage string) (*IngestResult, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	group, materialType, err := s.resolveGroup(ctx, &ref)
	if err != nil {
		return nil, err
	}

	// Vocabulary gating happens before any write. Missing labels are
	// normalized to "unknown" later; present-but-invalid ones abort the
	// whole batch.
	for i, obs := range batch {
		qual := normalizeLabel(obs.QualificationType)
		if qual != "" && qual != UnknownType && !ValidQualification(materialType, qual) {
			return nil, fmt.Errorf("observation %d: %q for %s: %w", i, qual, materialType, ErrInvalidQualification)
		}
	}

	if group == nil {
		if group, err = s.createGroup(ctx, &ref, materialType); err != nil {
			return nil, err
		}
	}

	imageURL := ""
	if annotatedImage != "" {
		imageURL = "data:image/jpeg;base64," + annotatedImage
	}

	result := &IngestResult{GroupDocID: group.DocID}
	now := time.Now()
	for i, obs := range batch {
		rec := s.normalize(ref, group.DocID, obs, i, imageURL, now)
		if err := s.sherds.Create(ctx, rec); err != nil {
			s.logger.Error("failed to persist sherd", "index", i, "sherd_id", rec.SherdID, "error", err)
			result.Failures = append(result.Failures, SherdError{Index: i, Reason: err.Error()})
			continue
		}
		result.SavedCount++
		result.TotalWeight += rec.Weight
		s.mirror(ctx, rec, fmt.Sprintf("Detection ID: %s", orUnknown(obs.DetectionID)))
	}

	if result.SavedCount > 0 {
		if err := s.groups.AddAggregates(ctx, group.DocID, result.TotalWeight, int64(result.SavedCount)); err != nil {
			return result, fmt.Errorf("updating group aggregates: %w", err)
		}
	}
	return result, nil
}

// IngestGrouped persists aggregate manual-entry rows under the referenced
// material group. Rows are merged by (diagnosticType, qualificationType),
// per-group weights are rounded to two decimals, and one summary record is
// written per merged group. The group's sherdCount is still incremented by
// the total fragment count so the aggregate invariant holds in both modes.
func (s *Service) IngestGrouped(ctx context.Context, ref GroupRef, rows []GroupedRow) (*IngestResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	group, materialType, err := s.resolveGroup(ctx, &ref)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		diag := normalizeLabel(row.DiagnosticType)
		if !ValidDiagnosticType(diag) {
			return nil, fmt.Errorf("row %d: %q: %w", i, diag, ErrInvalidDiagnostic)
		}
		qual := normalizeLabel(row.QualificationType)
		if !ValidQualification(materialType, qual) {
			return nil, fmt.Errorf("row %d: %q for %s: %w", i, qual, materialType, ErrInvalidQualification)
		}
		if row.Count < 1 || row.Weight < 0 || math.IsNaN(row.Weight) {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidInput)
		}
	}

	if group == nil {
		if group, err = s.createGroup(ctx, &ref, materialType); err != nil {
			return nil, err
		}
	}

	merged := mergeRows(rows)
	result := &IngestResult{GroupDocID: group.DocID}
	now := time.Now()
	for i, row := range merged {
		summary := &GroupedSummary{
			DocID:             uuid.NewString(),
			GroupID:           group.DocID,
			DiagnosticType:    normalizeLabel(row.DiagnosticType),
			QualificationType: normalizeLabel(row.QualificationType),
			Count:             row.Count,
			Weight:            row.Weight,
			CreatedAt:         now,
		}
		if err := s.sherds.CreateSummary(ctx, summary); err != nil {
			s.logger.Error("failed to persist summary row", "index", i,
				"diagnostic", summary.DiagnosticType, "qualification", summary.QualificationType, "error", err)
			result.Failures = append(result.Failures, SherdError{Index: i, Reason: err.Error()})
			continue
		}
		result.SavedCount += summary.Count
		result.TotalWeight += summary.Weight
		s.mirrorManual(ctx, ref, group.DocID, summary, now)
	}

	if result.SavedCount > 0 {
		if err := s.groups.AddAggregates(ctx, group.DocID, result.TotalWeight, int64(result.SavedCount)); err != nil {
			return result, fmt.Errorf("updating group aggregates: %w", err)
		}
	}
	return result, nil
}

// ListByGroup returns the individual sherd records of a material group.
func (s *Service) ListByGroup(ctx context.Context, groupDocID string) ([]Sherd, error) {
	return s.sherds.ListByGroup(ctx, groupDocID)
}

// ListSummaries returns the grouped summary rows of a material group.
func (s *Service) ListSummaries(ctx context.Context, groupDocID string) ([]GroupedSummary, error) {
	return s.sherds.ListSummaries(ctx, groupDocID)
}

// Get returns a single sherd record.
func (s *Service) Get(ctx context.Context, docID string) (*Sherd, error) {
	return s.sherds.Get(ctx, docID)
}

// resolveGroup loads the target group when a document ID is supplied,
// returning the ware the batch must be validated against. A nil group with
// nil error means the group must be created before persisting.
func (s *Service) resolveGroup(ctx context.Context, ref *GroupRef) (*catalog.MaterialGroup, string, error) {
	if strings.TrimSpace(ref.GroupDocID) != "" {
		group, err := s.groups.Get(ctx, ref.GroupDocID)
		if err == nil {
			ref.MaterialID = group.MaterialID
			return group, string(group.MaterialType), nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("loading material group: %w", err)
		}
	}
	if !catalog.ValidMaterialType(ref.MaterialType) {
		return nil, "", ErrInvalidInput
	}
	return nil, ref.MaterialType, nil
}

// createGroup creates the target group with zeroed aggregates, then reads
// it back so the pipeline never proceeds against a half-initialized group.
func (s *Service) createGroup(ctx context.Context, ref *GroupRef, materialType string) (*catalog.MaterialGroup, error) {
	now := time.Now()
	g := &catalog.MaterialGroup{
		DocID:        uuid.NewString(),
		ProjectID:    ref.ProjectID,
		StudyAreaID:  ref.StudyAreaID,
		StratUnitID:  ref.StratUnitID,
		MaterialID:   ref.MaterialID,
		MaterialType: catalog.MaterialType(materialType),
		Label:        materialType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating material group: %w", err)
	}
	created, err := s.groups.Get(ctx, g.DocID)
	if err != nil {
		return nil, fmt.Errorf("verifying material group: %w", err)
	}
	ref.GroupDocID = created.DocID
	return created, nil
}

// normalize coerces one observation into a persistable sherd record.
func (s *Service) normalize(ref GroupRef, groupDocID string, obs Observation, index int, imageURL string, now time.Time) *Sherd {
	weight := obs.Weight
	if math.IsNaN(weight) || weight < 0 {
		weight = 0
	}

	sherdID := strings.TrimSpace(obs.SherdID)
	if sherdID == "" {
		sherdID = fmt.Sprintf("%s-%d-%d", ref.ProjectID, now.UnixMilli(), index)
	}

	diag := normalizeLabel(obs.DiagnosticType)
	if !ValidDiagnosticType(diag) {
		diag = UnknownType
	}
	qual := normalizeLabel(obs.QualificationType)
	if qual == "" {
		qual = UnknownType
	}

	rec := &Sherd{
		DocID:             uuid.NewString(),
		SherdID:           sherdID,
		ProjectID:         ref.ProjectID,
		StudyAreaID:       ref.StudyAreaID,
		StratUnitID:       ref.StratUnitID,
		ContainerID:       ref.ContainerID,
		GroupID:           groupDocID,
		DiagnosticType:    diag,
		QualificationType: qual,
		Weight:            weight,
		BoundingBox: universal.BoundingBox{
			X:      deref(obs.X, 0),
			Y:      deref(obs.Y, 0),
			Width:  deref(obs.Width, 100),
			Height: deref(obs.Height, 100),
		},
		OriginalImageURL: imageURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if obs.Confidence != nil && !math.IsNaN(*obs.Confidence) {
		c := *obs.Confidence
		rec.AnalysisConfidence = &c
	}
	return rec
}

// mirror writes the sherd into the universal index. Mirror failures are
// logged and never abort the primary write.
func (s *Service) mirror(ctx context.Context, rec *Sherd, notes string) {
	entry := universal.Entry{
		SherdID:            rec.SherdID,
		ProjectID:          rec.ProjectID,
		StudyAreaID:        rec.StudyAreaID,
		StratUnitID:        rec.StratUnitID,
		ContainerID:        rec.ContainerID,
		ObjectGroupID:      rec.GroupID,
		DiagnosticType:     rec.DiagnosticType,
		QualificationType:  rec.QualificationType,
		Weight:             rec.Weight,
		BoundingBox:        rec.BoundingBox,
		AnalysisConfidence: rec.AnalysisConfidence,
		OriginalImageURL:   rec.OriginalImageURL,
		Notes:              notes,
	}
	if _, err := s.index.Mirror(ctx, entry); err != nil {
		s.logger.Warn("universal index mirror failed", "sherd_id", rec.SherdID, "error", err)
	}
}

// mirrorManual mirrors one universal entry per fragment of a grouped
// summary, splitting the row weight evenly across the count.
func (s *Service) mirrorManual(ctx context.Context, ref GroupRef, groupDocID string, summary *GroupedSummary, now time.Time) {
	perFragment := summary.Weight / float64(summary.Count)
	for i := 0; i < summary.Count; i++ {
		entry := universal.Entry{
			SherdID:           fmt.Sprintf("%s-%d-%d", ref.ProjectID, now.UnixMilli(), i),
			ProjectID:         ref.ProjectID,
			StudyAreaID:       ref.StudyAreaID,
			StratUnitID:       ref.StratUnitID,
			ContainerID:       ref.ContainerID,
			ObjectGroupID:     groupDocID,
			DiagnosticType:    summary.DiagnosticType,
			QualificationType: summary.QualificationType,
			Weight:            perFragment,
			Notes:             "Manual entry",
		}
		if _, err := s.index.Mirror(ctx, entry); err != nil {
			s.logger.Warn("universal index mirror failed", "group", groupDocID, "error", err)
		}
	}
}

// mergeRows merges rows sharing a (diagnostic, qualification) key in first
// appearance order, summing counts and weights and rounding each merged
// weight to two decimals.
func mergeRows(rows []GroupedRow) []GroupedRow {
	type key struct{ diag, qual string }
	index := make(map[key]int)
	var merged []GroupedRow
	for _, row := range rows {
		k := key{normalizeLabel(row.DiagnosticType), normalizeLabel(row.QualificationType)}
		if i, ok := index[k]; ok {
			merged[i].Count += row.Count
			merged[i].Weight += row.Weight
			continue
		}
		index[k] = len(merged)
		merged = append(merged, GroupedRow{
			DiagnosticType:    k.diag,
			QualificationType: k.qual,
			Count:             row.Count,
			Weight:            row.Weight,
		})
	}
	for i := range merged {
		merged[i].Weight = math.Round(merged[i].Weight*100) / 100
	}
	return merged
}

func normalizeLabel(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func deref(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return UnknownType
	}
	return v
}
