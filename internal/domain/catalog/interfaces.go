package catalog

import "context"

// ProjectRepository provides persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, docID string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}

// StudyAreaRepository provides persistence for study areas under a project.
type StudyAreaRepository interface {
	Create(ctx context.Context, area *StudyArea) error
	List(ctx context.Context, projectID string) ([]StudyArea, error)
	ExistsByID(ctx context.Context, projectID, id string) (bool, error)
}

// StratUnitRepository provides persistence for stratigraphic units.
type StratUnitRepository interface {
	Create(ctx context.Context, unit *StratUnit) error
	List(ctx context.Context, projectID, studyAreaID string) ([]StratUnit, error)
	ExistsByID(ctx context.Context, projectID, studyAreaID, id string) (bool, error)
}

// ContainerRepository provides persistence for material containers.
type ContainerRepository interface {
	Create(ctx context.Context, c *Container) error
	List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]Container, error)
	ExistsByID(ctx context.Context, projectID, studyAreaID, stratUnitID, id string) (bool, error)
}

// MaterialGroupRepository provides persistence for material groups and
// atomic accumulation of their aggregate fields.
type MaterialGroupRepository interface {
	Create(ctx context.Context, g *MaterialGroup) error
	Get(ctx context.Context, docID string) (*MaterialGroup, error)
	List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]MaterialGroup, error)
	ExistsByMaterialID(ctx context.Context, projectID, studyAreaID, stratUnitID, materialID string) (bool, error)
	UpdateMaterialID(ctx context.Context, docID, materialID string) error
	AddAggregates(ctx context.Context, docID string, weightDelta float64, countDelta int64) error
}
