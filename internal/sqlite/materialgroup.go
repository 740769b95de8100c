package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/repository"
)

// MaterialGroupRepository implements catalog.MaterialGroupRepository
// for SQLite
type MaterialGroupRepository struct {
	db *DB
}

// NewMaterialGroupRepository creates a new MaterialGroupRepository
func NewMaterialGroupRepository(db *DB) *MaterialGroupRepository {
	return &MaterialGroupRepository{db: db}
}

// Create inserts a new material group with zeroed aggregates
func (r *MaterialGroupRepository) Create(ctx context.Context, g *catalog.MaterialGroup) error {
	query := `
		INSERT INTO material_groups (
			doc_id, project_id, study_area_id, strat_unit_id,
			material_id, material_type, label, total_weight, sherd_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.DocID,
		g.ProjectID,
		g.StudyAreaID,
		g.StratUnitID,
		g.MaterialID,
		g.MaterialType,
		g.Label,
		g.TotalWeight,
		g.SherdCount,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create material group: %w", err)
	}

	return nil
}

// Get retrieves a material group by its store-assigned ID
func (r *MaterialGroupRepository) Get(ctx context.Context, docID string) (*catalog.MaterialGroup, error) {
	query := `
		SELECT doc_id, project_id, study_area_id, strat_unit_id,
			material_id, material_type, label, total_weight, sherd_count,
			created_at, updated_at
		FROM material_groups
		WHERE doc_id = ?
	`

	var g catalog.MaterialGroup
	err := r.db.QueryRowContext(ctx, query, docID).Scan(
		&g.DocID,
		&g.ProjectID,
		&g.StudyAreaID,
		&g.StratUnitID,
		&g.MaterialID,
		&g.MaterialType,
		&g.Label,
		&g.TotalWeight,
		&g.SherdCount,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material group: %w", err)
	}

	return &g, nil
}

// List returns the groups of a stratigraphic unit, newest first
func (r *MaterialGroupRepository) List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]catalog.MaterialGroup, error) {
	query := `
		SELECT doc_id, project_id, study_area_id, strat_unit_id,
			material_id, material_type, label, total_weight, sherd_count,
			created_at, updated_at
		FROM material_groups
		WHERE project_id = ? AND study_area_id = ? AND strat_unit_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, studyAreaID, stratUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list material groups: %w", err)
	}
	defer rows.Close()

	var groups []catalog.MaterialGroup
	for rows.Next() {
		var g catalog.MaterialGroup
		if err := rows.Scan(
			&g.DocID,
			&g.ProjectID,
			&g.StudyAreaID,
			&g.StratUnitID,
			&g.MaterialID,
			&g.MaterialType,
			&g.Label,
			&g.TotalWeight,
			&g.SherdCount,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan material group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating material group rows: %w", err)
	}

	return groups, nil
}

// ExistsByMaterialID reports whether a sibling group already uses the
// material identifier
func (r *MaterialGroupRepository) ExistsByMaterialID(ctx context.Context, projectID, studyAreaID, stratUnitID, materialID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM material_groups
		 WHERE project_id = ? AND study_area_id = ? AND strat_unit_id = ? AND material_id = ?`,
		projectID, studyAreaID, stratUnitID, materialID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check material id: %w", err)
	}
	return count > 0, nil
}

// UpdateMaterialID renames a group's material identifier
func (r *MaterialGroupRepository) UpdateMaterialID(ctx context.Context, docID, materialID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE material_groups SET material_id = ?, updated_at = ? WHERE doc_id = ?`,
		materialID, time.Now(), docID,
	)
	if err != nil {
		return fmt.Errorf("failed to update material id: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddAggregates atomically accumulates the group's running totals. The
// increment happens inside the UPDATE so concurrent batches never lose
// each other's additions.
func (r *MaterialGroupRepository) AddAggregates(ctx context.Context, docID string, weightDelta float64, countDelta int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE material_groups
		 SET total_weight = total_weight + ?, sherd_count = sherd_count + ?, updated_at = ?
		 WHERE doc_id = ?`,
		weightDelta, countDelta, time.Now(), docID,
	)
	if err != nil {
		return fmt.Errorf("failed to add aggregates: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
