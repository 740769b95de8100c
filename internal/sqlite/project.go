package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/repository"
)

// ProjectRepository implements catalog.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *catalog.Project) error {
	query := `
		INSERT INTO projects (doc_id, name, code, description, password, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.DocID,
		proj.Name,
		proj.Code,
		proj.Description,
		nullable(proj.Password),
		proj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by its store-assigned ID
func (r *ProjectRepository) Get(ctx context.Context, docID string) (*catalog.Project, error) {
	query := `
		SELECT doc_id, name, code, description, password, created_at
		FROM projects
		WHERE doc_id = ?
	`

	var proj catalog.Project
	var password sql.NullString
	err := r.db.QueryRowContext(ctx, query, docID).Scan(
		&proj.DocID,
		&proj.Name,
		&proj.Code,
		&proj.Description,
		&password,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.Password = password.String
	return &proj, nil
}

// List returns all projects ordered by name
func (r *ProjectRepository) List(ctx context.Context) ([]catalog.Project, error) {
	query := `
		SELECT doc_id, name, code, description, password, created_at
		FROM projects
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []catalog.Project
	for rows.Next() {
		var proj catalog.Project
		var password sql.NullString
		if err := rows.Scan(
			&proj.DocID,
			&proj.Name,
			&proj.Code,
			&proj.Description,
			&password,
			&proj.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		proj.Password = password.String
		projects = append(projects, proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// nullable maps an empty string to NULL so absent optional fields are not
// persisted as empty values.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
