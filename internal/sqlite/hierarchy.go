package sqlite

import (
	"context"
	"fmt"

	"github.com/arcslab/arcfield/internal/domain/catalog"
)

// StudyAreaRepository implements catalog.StudyAreaRepository for SQLite
type StudyAreaRepository struct {
	db *DB
}

// NewStudyAreaRepository creates a new StudyAreaRepository
func NewStudyAreaRepository(db *DB) *StudyAreaRepository {
	return &StudyAreaRepository{db: db}
}

// Create inserts a new study area under its project
func (r *StudyAreaRepository) Create(ctx context.Context, area *catalog.StudyArea) error {
	query := `
		INSERT INTO study_areas (doc_id, project_id, id, label, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		area.DocID,
		area.ProjectID,
		area.ID,
		area.Label,
		area.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create study area: %w", err)
	}

	return nil
}

// List returns the study areas of a project ordered by id
func (r *StudyAreaRepository) List(ctx context.Context, projectID string) ([]catalog.StudyArea, error) {
	query := `
		SELECT doc_id, project_id, id, label, created_at
		FROM study_areas
		WHERE project_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study areas: %w", err)
	}
	defer rows.Close()

	var areas []catalog.StudyArea
	for rows.Next() {
		var area catalog.StudyArea
		if err := rows.Scan(&area.DocID, &area.ProjectID, &area.ID, &area.Label, &area.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan study area: %w", err)
		}
		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study area rows: %w", err)
	}

	return areas, nil
}

// ExistsByID reports whether a sibling study area already uses the id
func (r *StudyAreaRepository) ExistsByID(ctx context.Context, projectID, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM study_areas WHERE project_id = ? AND id = ?`,
		projectID, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check study area id: %w", err)
	}
	return count > 0, nil
}

// StratUnitRepository implements catalog.StratUnitRepository for SQLite
type StratUnitRepository struct {
	db *DB
}

// NewStratUnitRepository creates a new StratUnitRepository
func NewStratUnitRepository(db *DB) *StratUnitRepository {
	return &StratUnitRepository{db: db}
}

// Create inserts a new stratigraphic unit under its study area
func (r *StratUnitRepository) Create(ctx context.Context, unit *catalog.StratUnit) error {
	query := `
		INSERT INTO strat_units (doc_id, project_id, study_area_id, id, typology, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		unit.DocID,
		unit.ProjectID,
		unit.StudyAreaID,
		unit.ID,
		unit.Typology,
		unit.Label,
		unit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create strat unit: %w", err)
	}

	return nil
}

// List returns the units of a study area ordered by id
func (r *StratUnitRepository) List(ctx context.Context, projectID, studyAreaID string) ([]catalog.StratUnit, error) {
	query := `
		SELECT doc_id, project_id, study_area_id, id, typology, label, created_at
		FROM strat_units
		WHERE project_id = ? AND study_area_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, studyAreaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strat units: %w", err)
	}
	defer rows.Close()

	var units []catalog.StratUnit
	for rows.Next() {
		var unit catalog.StratUnit
		if err := rows.Scan(
			&unit.DocID,
			&unit.ProjectID,
			&unit.StudyAreaID,
			&unit.ID,
			&unit.Typology,
			&unit.Label,
			&unit.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan strat unit: %w", err)
		}
		units = append(units, unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strat unit rows: %w", err)
	}

	return units, nil
}

// ExistsByID reports whether a sibling unit already uses the id
func (r *StratUnitRepository) ExistsByID(ctx context.Context, projectID, studyAreaID, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM strat_units WHERE project_id = ? AND study_area_id = ? AND id = ?`,
		projectID, studyAreaID, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check strat unit id: %w", err)
	}
	return count > 0, nil
}

// ContainerRepository implements catalog.ContainerRepository for SQLite
type ContainerRepository struct {
	db *DB
}

// NewContainerRepository creates a new ContainerRepository
func NewContainerRepository(db *DB) *ContainerRepository {
	return &ContainerRepository{db: db}
}

// Create inserts a new container under its stratigraphic unit
func (r *ContainerRepository) Create(ctx context.Context, c *catalog.Container) error {
	query := `
		INSERT INTO containers (doc_id, project_id, study_area_id, strat_unit_id, id, container_type, material_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.DocID,
		c.ProjectID,
		c.StudyAreaID,
		c.StratUnitID,
		c.ID,
		c.ContainerType,
		c.MaterialType,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	return nil
}

// List returns the containers of a stratigraphic unit ordered by id
func (r *ContainerRepository) List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]catalog.Container, error) {
	query := `
		SELECT doc_id, project_id, study_area_id, strat_unit_id, id, container_type, material_type, created_at
		FROM containers
		WHERE project_id = ? AND study_area_id = ? AND strat_unit_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, studyAreaID, stratUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	defer rows.Close()

	var containers []catalog.Container
	for rows.Next() {
		var c catalog.Container
		if err := rows.Scan(
			&c.DocID,
			&c.ProjectID,
			&c.StudyAreaID,
			&c.StratUnitID,
			&c.ID,
			&c.ContainerType,
			&c.MaterialType,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan container: %w", err)
		}
		containers = append(containers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating container rows: %w", err)
	}

	return containers, nil
}

// ExistsByID reports whether a sibling container already uses the id
func (r *ContainerRepository) ExistsByID(ctx context.Context, projectID, studyAreaID, stratUnitID, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM containers WHERE project_id = ? AND study_area_id = ? AND strat_unit_id = ? AND id = ?`,
		projectID, studyAreaID, stratUnitID, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check container id: %w", err)
	}
	return count > 0, nil
}
