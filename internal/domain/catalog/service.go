package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arcslab/arcfield/internal/repository"
	"github.com/google/uuid"
)

// allocationAttempts bounds the allocate-check-retry loop: one allocation
// plus a single retry after a conflict.
const allocationAttempts = 2

// Service handles hierarchy operations: creating and listing entities and
// minting their identifiers.
type Service struct {
	projects   ProjectRepository
	studyAreas StudyAreaRepository
	stratUnits StratUnitRepository
	containers ContainerRepository
	groups     MaterialGroupRepository
	logger     *slog.Logger
}

// NewService creates a new catalog service.
func NewService(
	projects ProjectRepository,
	studyAreas StudyAreaRepository,
	stratUnits StratUnitRepository,
	containers ContainerRepository,
	groups MaterialGroupRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects:   projects,
		studyAreas: studyAreas,
		stratUnits: stratUnits,
		containers: containers,
		groups:     groups,
		logger:     logger,
	}
}

// CreateProjectRequest defines project creation inputs.
type CreateProjectRequest struct {
	Name        string
	Code        string
	Description string
	Password    string
}

// CreateProject creates a new project with a store-assigned ID.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if err := ValidateProjectInput(req); err != nil {
		return nil, err
	}

	proj := &Project{
		DocID:       uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Code:        req.Code,
		Description: req.Description,
		Password:    req.Password,
		CreatedAt:   time.Now(),
	}
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// GetProject fetches a project by its store-assigned ID.
func (s *Service) GetProject(ctx context.Context, docID string) (*Project, error) {
	proj, err := s.projects.Get(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// ListProjects returns all projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.projects.List(ctx)
}

// CreateStudyArea allocates the next study area identifier under the
// project and persists the new area.
func (s *Service) CreateStudyArea(ctx context.Context, projectID, label string) (*StudyArea, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(label) == "" {
		return nil, ErrInvalidInput
	}

	var id string
	err := s.allocate(ctx, func() (string, error) {
		areas, err := s.studyAreas.List(ctx, projectID)
		if err != nil {
			return "", err
		}
		ids := make([]string, len(areas))
		for i, a := range areas {
			ids[i] = a.ID
		}
		return NextStudyAreaID(ids), nil
	}, func(candidate string) (bool, error) {
		return s.studyAreas.ExistsByID(ctx, projectID, candidate)
	}, &id)
	if err != nil {
		return nil, err
	}

	area := &StudyArea{
		DocID:     uuid.NewString(),
		ProjectID: projectID,
		ID:        id,
		Label:     strings.TrimSpace(label),
		CreatedAt: time.Now(),
	}
	if err := s.studyAreas.Create(ctx, area); err != nil {
		return nil, fmt.Errorf("creating study area: %w", err)
	}
	return area, nil
}

// ListStudyAreas returns the study areas of a project ordered by ID.
func (s *Service) ListStudyAreas(ctx context.Context, projectID string) ([]StudyArea, error) {
	return s.studyAreas.List(ctx, projectID)
}

// CreateStratUnitRequest defines stratigraphic unit creation inputs.
type CreateStratUnitRequest struct {
	ProjectID   string
	StudyAreaID string
	Typology    string
	Label       string
}

// CreateStratUnit allocates the next unit identifier within the study area
// and persists the new unit. When the identifier cannot be computed from
// the existing siblings, a timestamp identifier is substituted so the
// recording session can continue; the break in numbering is logged as a
// data-quality warning.
func (s *Service) CreateStratUnit(ctx context.Context, req CreateStratUnitRequest) (*StratUnit, error) {
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.StudyAreaID) == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(req.Label) == "" {
		return nil, ErrInvalidInput
	}

	var id string
	err := s.allocate(ctx, func() (string, error) {
		units, err := s.stratUnits.List(ctx, req.ProjectID, req.StudyAreaID)
		if err != nil {
			return "", err
		}
		ids := make([]string, len(units))
		for i, u := range units {
			ids[i] = u.ID
		}
		next, err := NextStratUnitID(req.StudyAreaID, ids)
		if err != nil {
			fallback := timestampID()
			s.logger.Warn("strat unit id allocation failed, using timestamp id",
				"study_area", req.StudyAreaID, "fallback", fallback, "error", err)
			return fallback, nil
		}
		return next, nil
	}, func(candidate string) (bool, error) {
		return s.stratUnits.ExistsByID(ctx, req.ProjectID, req.StudyAreaID, candidate)
	}, &id)
	if err != nil {
		return nil, err
	}

	unit := &StratUnit{
		DocID:       uuid.NewString(),
		ProjectID:   req.ProjectID,
		StudyAreaID: req.StudyAreaID,
		ID:          id,
		Typology:    strings.TrimSpace(req.Typology),
		Label:       strings.TrimSpace(req.Label),
		CreatedAt:   time.Now(),
	}
	if err := s.stratUnits.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("creating strat unit: %w", err)
	}
	return unit, nil
}

// ListStratUnits returns the units of a study area ordered by ID.
func (s *Service) ListStratUnits(ctx context.Context, projectID, studyAreaID string) ([]StratUnit, error) {
	return s.stratUnits.List(ctx, projectID, studyAreaID)
}

// CreateContainerRequest defines material container creation inputs.
type CreateContainerRequest struct {
	ProjectID     string
	StudyAreaID   string
	StratUnitID   string
	ContainerType ContainerType
	MaterialType  string
}

// CreateContainer allocates the next letter-suffixed container identifier
// within the stratigraphic unit and persists the new container.
func (s *Service) CreateContainer(ctx context.Context, req CreateContainerRequest) (*Container, error) {
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.StudyAreaID) == "" ||
		strings.TrimSpace(req.StratUnitID) == "" {
		return nil, ErrInvalidInput
	}
	if req.ContainerType == "" {
		req.ContainerType = ContainerBag
	}
	if req.MaterialType == "" {
		req.MaterialType = "Pottery"
	}

	var id string
	err := s.allocate(ctx, func() (string, error) {
		containers, err := s.containers.List(ctx, req.ProjectID, req.StudyAreaID, req.StratUnitID)
		if err != nil {
			return "", err
		}
		ids := make([]string, len(containers))
		for i, c := range containers {
			ids[i] = c.ID
		}
		return NextContainerID(req.StratUnitID, ids)
	}, func(candidate string) (bool, error) {
		return s.containers.ExistsByID(ctx, req.ProjectID, req.StudyAreaID, req.StratUnitID, candidate)
	}, &id)
	if err != nil {
		return nil, err
	}

	c := &Container{
		DocID:         uuid.NewString(),
		ProjectID:     req.ProjectID,
		StudyAreaID:   req.StudyAreaID,
		StratUnitID:   req.StratUnitID,
		ID:            id,
		ContainerType: req.ContainerType,
		MaterialType:  req.MaterialType,
		CreatedAt:     time.Now(),
	}
	if err := s.containers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	return c, nil
}

// ListContainers returns the containers of a stratigraphic unit ordered by ID.
func (s *Service) ListContainers(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]Container, error) {
	return s.containers.List(ctx, projectID, studyAreaID, stratUnitID)
}

// CreateMaterialGroupRequest defines material group creation inputs.
// MaterialID is optional; when empty the next identifier is allocated.
type CreateMaterialGroupRequest struct {
	ProjectID    string
	StudyAreaID  string
	StratUnitID  string
	MaterialID   string
	MaterialType MaterialType
}

// CreateMaterialGroup persists a new material group with zeroed aggregates.
// An explicitly supplied identifier must match the "{stratUnitID}-{n}" form
// and be unused among siblings.
func (s *Service) CreateMaterialGroup(ctx context.Context, req CreateMaterialGroupRequest) (*MaterialGroup, error) {
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.StudyAreaID) == "" ||
		strings.TrimSpace(req.StratUnitID) == "" {
		return nil, ErrInvalidInput
	}
	if !ValidMaterialType(string(req.MaterialType)) {
		return nil, ErrInvalidInput
	}

	materialID := strings.TrimSpace(req.MaterialID)
	if materialID != "" {
		if err := ValidateMaterialID(req.StratUnitID, materialID); err != nil {
			return nil, err
		}
		taken, err := s.groups.ExistsByMaterialID(ctx, req.ProjectID, req.StudyAreaID, req.StratUnitID, materialID)
		if err != nil {
			return nil, fmt.Errorf("checking material id: %w", err)
		}
		if taken {
			return nil, ErrMaterialIDTaken
		}
	} else {
		err := s.allocate(ctx, func() (string, error) {
			return s.nextMaterialID(ctx, req.ProjectID, req.StudyAreaID, req.StratUnitID)
		}, func(candidate string) (bool, error) {
			return s.groups.ExistsByMaterialID(ctx, req.ProjectID, req.StudyAreaID, req.StratUnitID, candidate)
		}, &materialID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	g := &MaterialGroup{
		DocID:        uuid.NewString(),
		ProjectID:    req.ProjectID,
		StudyAreaID:  req.StudyAreaID,
		StratUnitID:  req.StratUnitID,
		MaterialID:   materialID,
		MaterialType: req.MaterialType,
		Label:        string(req.MaterialType),
		TotalWeight:  0,
		SherdCount:   0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating material group: %w", err)
	}
	return g, nil
}

// GetMaterialGroup fetches a material group by its store-assigned ID.
func (s *Service) GetMaterialGroup(ctx context.Context, docID string) (*MaterialGroup, error) {
	g, err := s.groups.Get(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	return g, err
}

// ListMaterialGroups returns the groups of a stratigraphic unit, newest first.
func (s *Service) ListMaterialGroups(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]MaterialGroup, error) {
	return s.groups.List(ctx, projectID, studyAreaID, stratUnitID)
}

// RenameMaterialGroup changes a group's material identifier after checking
// that no sibling already uses the new value.
func (s *Service) RenameMaterialGroup(ctx context.Context, docID, materialID string) (*MaterialGroup, error) {
	materialID = strings.TrimSpace(materialID)
	if materialID == "" {
		return nil, ErrInvalidInput
	}

	g, err := s.groups.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting material group: %w", err)
	}
	if g.MaterialID == materialID {
		return g, nil
	}

	taken, err := s.groups.ExistsByMaterialID(ctx, g.ProjectID, g.StudyAreaID, g.StratUnitID, materialID)
	if err != nil {
		return nil, fmt.Errorf("checking material id: %w", err)
	}
	if taken {
		return nil, ErrMaterialIDTaken
	}

	if err := s.groups.UpdateMaterialID(ctx, docID, materialID); err != nil {
		return nil, fmt.Errorf("renaming material group: %w", err)
	}
	g.MaterialID = materialID
	return g, nil
}

// nextMaterialID computes the next material identifier from the current
// sibling snapshot, falling back to a timestamp suffix if the snapshot
// cannot be read.
func (s *Service) nextMaterialID(ctx context.Context, projectID, studyAreaID, stratUnitID string) (string, error) {
	groups, err := s.groups.List(ctx, projectID, studyAreaID, stratUnitID)
	if err != nil {
		fallback := fmt.Sprintf("%s-%s", stratUnitID, timestampID())
		s.logger.Warn("material id allocation failed, using timestamp id",
			"strat_unit", stratUnitID, "fallback", fallback, "error", err)
		return fallback, nil
	}
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.MaterialID
	}
	return NextMaterialID(stratUnitID, ids), nil
}

// allocate runs the compute-then-recheck loop: mint a candidate from a
// sibling snapshot, confirm it is still free against the live store, and
// retry once on collision before reporting a conflict.
func (s *Service) allocate(ctx context.Context, next func() (string, error), exists func(string) (bool, error), out *string) error {
	for attempt := 0; attempt < allocationAttempts; attempt++ {
		candidate, err := next()
		if err != nil {
			return fmt.Errorf("allocating identifier: %w", err)
		}
		taken, err := exists(candidate)
		if err != nil {
			return fmt.Errorf("checking identifier: %w", err)
		}
		if !taken {
			*out = candidate
			return nil
		}
		s.logger.Warn("allocated identifier already taken, retrying", "candidate", candidate)
	}
	return ErrAllocationConflict
}

func timestampID() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}
