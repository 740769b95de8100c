package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcslab/arcfield/internal/domain/sherd"
	"github.com/arcslab/arcfield/internal/repository"
)

// SherdRepository implements sherd.Repository for SQLite
type SherdRepository struct {
	db *DB
}

// NewSherdRepository creates a new SherdRepository
func NewSherdRepository(db *DB) *SherdRepository {
	return &SherdRepository{db: db}
}

// Create inserts an individual sherd record under its material group
func (r *SherdRepository) Create(ctx context.Context, s *sherd.Sherd) error {
	query := `
		INSERT INTO sherds (
			doc_id, sherd_id, project_id, study_area_id, strat_unit_id,
			container_id, group_id, diagnostic_type, qualification_type,
			weight, bbox_x, bbox_y, bbox_width, bbox_height,
			analysis_confidence, original_image_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.DocID,
		s.SherdID,
		s.ProjectID,
		s.StudyAreaID,
		s.StratUnitID,
		nullable(s.ContainerID),
		s.GroupID,
		s.DiagnosticType,
		s.QualificationType,
		s.Weight,
		s.BoundingBox.X,
		s.BoundingBox.Y,
		s.BoundingBox.Width,
		s.BoundingBox.Height,
		s.AnalysisConfidence,
		nullable(s.OriginalImageURL),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sherd: %w", err)
	}

	return nil
}

// Get retrieves a sherd by its store-assigned ID
func (r *SherdRepository) Get(ctx context.Context, docID string) (*sherd.Sherd, error) {
	query := selectSherd + ` WHERE doc_id = ?`

	row := r.db.QueryRowContext(ctx, query, docID)
	s, err := scanSherd(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sherd: %w", err)
	}
	return s, nil
}

// ListByGroup returns the sherds of a material group in insertion order
func (r *SherdRepository) ListByGroup(ctx context.Context, groupDocID string) ([]sherd.Sherd, error) {
	query := selectSherd + ` WHERE group_id = ? ORDER BY created_at, doc_id`

	rows, err := r.db.QueryContext(ctx, query, groupDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sherds: %w", err)
	}
	defer rows.Close()

	var sherds []sherd.Sherd
	for rows.Next() {
		s, err := scanSherd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sherd: %w", err)
		}
		sherds = append(sherds, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sherd rows: %w", err)
	}

	return sherds, nil
}

// CreateSummary inserts a grouped manual-entry summary row
func (r *SherdRepository) CreateSummary(ctx context.Context, s *sherd.GroupedSummary) error {
	query := `
		INSERT INTO sherd_summaries (
			doc_id, group_id, diagnostic_type, qualification_type,
			count, weight, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.DocID,
		s.GroupID,
		s.DiagnosticType,
		s.QualificationType,
		s.Count,
		s.Weight,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}

	return nil
}

// ListSummaries returns the summary rows of a material group ordered by
// diagnostic type
func (r *SherdRepository) ListSummaries(ctx context.Context, groupDocID string) ([]sherd.GroupedSummary, error) {
	query := `
		SELECT doc_id, group_id, diagnostic_type, qualification_type, count, weight, created_at
		FROM sherd_summaries
		WHERE group_id = ?
		ORDER BY diagnostic_type, qualification_type
	`

	rows, err := r.db.QueryContext(ctx, query, groupDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []sherd.GroupedSummary
	for rows.Next() {
		var s sherd.GroupedSummary
		if err := rows.Scan(
			&s.DocID,
			&s.GroupID,
			&s.DiagnosticType,
			&s.QualificationType,
			&s.Count,
			&s.Weight,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	return summaries, nil
}

const selectSherd = `
	SELECT doc_id, sherd_id, project_id, study_area_id, strat_unit_id,
		container_id, group_id, diagnostic_type, qualification_type,
		weight, bbox_x, bbox_y, bbox_width, bbox_height,
		analysis_confidence, original_image_url, created_at, updated_at
	FROM sherds`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSherd(row rowScanner) (*sherd.Sherd, error) {
	var s sherd.Sherd
	var containerID, imageURL sql.NullString
	var confidence sql.NullFloat64
	err := row.Scan(
		&s.DocID,
		&s.SherdID,
		&s.ProjectID,
		&s.StudyAreaID,
		&s.StratUnitID,
		&containerID,
		&s.GroupID,
		&s.DiagnosticType,
		&s.QualificationType,
		&s.Weight,
		&s.BoundingBox.X,
		&s.BoundingBox.Y,
		&s.BoundingBox.Width,
		&s.BoundingBox.Height,
		&confidence,
		&imageURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ContainerID = containerID.String
	s.OriginalImageURL = imageURL.String
	if confidence.Valid {
		s.AnalysisConfidence = &confidence.Float64
	}
	return &s, nil
}
