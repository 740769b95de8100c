package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcslab/arcfield/internal/domain/universal"
)

// UniversalRepository implements universal.Repository for SQLite
type UniversalRepository struct {
	db *DB
}

// NewUniversalRepository creates a new UniversalRepository
func NewUniversalRepository(db *DB) *UniversalRepository {
	return &UniversalRepository{db: db}
}

// Create inserts a denormalized index entry. Absent optional fields are
// stored as NULL, never as empty placeholder values.
func (r *UniversalRepository) Create(ctx context.Context, entry *universal.Entry) error {
	query := `
		INSERT INTO universal_sherds (
			doc_id, sherd_id, project_id, study_area_id, strat_unit_id,
			container_id, object_group_id, diagnostic_type, qualification_type,
			weight, bbox_x, bbox_y, bbox_width, bbox_height,
			analysis_confidence, original_image_url, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.DocID,
		entry.SherdID,
		entry.ProjectID,
		entry.StudyAreaID,
		entry.StratUnitID,
		nullable(entry.ContainerID),
		entry.ObjectGroupID,
		entry.DiagnosticType,
		entry.QualificationType,
		entry.Weight,
		entry.BoundingBox.X,
		entry.BoundingBox.Y,
		entry.BoundingBox.Width,
		entry.BoundingBox.Height,
		entry.AnalysisConfidence,
		nullable(entry.OriginalImageURL),
		nullable(entry.Notes),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create universal entry: %w", err)
	}

	return nil
}

// Query returns index entries newest first, optionally filtered by project
func (r *UniversalRepository) Query(ctx context.Context, filter universal.Filter) ([]universal.Entry, error) {
	query := `
		SELECT doc_id, sherd_id, project_id, study_area_id, strat_unit_id,
			container_id, object_group_id, diagnostic_type, qualification_type,
			weight, bbox_x, bbox_y, bbox_width, bbox_height,
			analysis_confidence, original_image_url, notes, created_at
		FROM universal_sherds
	`

	var args []any
	if filter.ProjectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, filter.ProjectID)
	}
	query += ` ORDER BY created_at DESC, doc_id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query universal index: %w", err)
	}
	defer rows.Close()

	var entries []universal.Entry
	for rows.Next() {
		var e universal.Entry
		var containerID, imageURL, notes sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(
			&e.DocID,
			&e.SherdID,
			&e.ProjectID,
			&e.StudyAreaID,
			&e.StratUnitID,
			&containerID,
			&e.ObjectGroupID,
			&e.DiagnosticType,
			&e.QualificationType,
			&e.Weight,
			&e.BoundingBox.X,
			&e.BoundingBox.Y,
			&e.BoundingBox.Width,
			&e.BoundingBox.Height,
			&confidence,
			&imageURL,
			&notes,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan universal entry: %w", err)
		}
		e.ContainerID = containerID.String
		e.OriginalImageURL = imageURL.String
		e.Notes = notes.String
		if confidence.Valid {
			e.AnalysisConfidence = &confidence.Float64
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating universal rows: %w", err)
	}

	return entries, nil
}
