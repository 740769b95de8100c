package mocks

import (
	"context"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/sherd"
	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for catalog.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *catalog.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, docID string) (*catalog.Project, error) {
	args := m.Called(ctx, docID)
	if proj, ok := args.Get(0).(*catalog.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]catalog.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]catalog.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StudyAreaRepository is a mock for catalog.StudyAreaRepository.
type StudyAreaRepository struct {
	mock.Mock
}

func (m *StudyAreaRepository) Create(ctx context.Context, area *catalog.StudyArea) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *StudyAreaRepository) List(ctx context.Context, projectID string) ([]catalog.StudyArea, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]catalog.StudyArea); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudyAreaRepository) ExistsByID(ctx context.Context, projectID, id string) (bool, error) {
	args := m.Called(ctx, projectID, id)
	return args.Bool(0), args.Error(1)
}

// StratUnitRepository is a mock for catalog.StratUnitRepository.
type StratUnitRepository struct {
	mock.Mock
}

func (m *StratUnitRepository) Create(ctx context.Context, unit *catalog.StratUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *StratUnitRepository) List(ctx context.Context, projectID, studyAreaID string) ([]catalog.StratUnit, error) {
	args := m.Called(ctx, projectID, studyAreaID)
	if list, ok := args.Get(0).([]catalog.StratUnit); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StratUnitRepository) ExistsByID(ctx context.Context, projectID, studyAreaID, id string) (bool, error) {
	args := m.Called(ctx, projectID, studyAreaID, id)
	return args.Bool(0), args.Error(1)
}

// ContainerRepository is a mock for catalog.ContainerRepository.
type ContainerRepository struct {
	mock.Mock
}

func (m *ContainerRepository) Create(ctx context.Context, c *catalog.Container) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContainerRepository) List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]catalog.Container, error) {
	args := m.Called(ctx, projectID, studyAreaID, stratUnitID)
	if list, ok := args.Get(0).([]catalog.Container); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContainerRepository) ExistsByID(ctx context.Context, projectID, studyAreaID, stratUnitID, id string) (bool, error) {
	args := m.Called(ctx, projectID, studyAreaID, stratUnitID, id)
	return args.Bool(0), args.Error(1)
}

// MaterialGroupRepository is a mock for catalog.MaterialGroupRepository.
type MaterialGroupRepository struct {
	mock.Mock
}

func (m *MaterialGroupRepository) Create(ctx context.Context, g *catalog.MaterialGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MaterialGroupRepository) Get(ctx context.Context, docID string) (*catalog.MaterialGroup, error) {
	args := m.Called(ctx, docID)
	if g, ok := args.Get(0).(*catalog.MaterialGroup); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MaterialGroupRepository) List(ctx context.Context, projectID, studyAreaID, stratUnitID string) ([]catalog.MaterialGroup, error) {
	args := m.Called(ctx, projectID, studyAreaID, stratUnitID)
	if list, ok := args.Get(0).([]catalog.MaterialGroup); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MaterialGroupRepository) ExistsByMaterialID(ctx context.Context, projectID, studyAreaID, stratUnitID, materialID string) (bool, error) {
	args := m.Called(ctx, projectID, studyAreaID, stratUnitID, materialID)
	return args.Bool(0), args.Error(1)
}

func (m *MaterialGroupRepository) UpdateMaterialID(ctx context.Context, docID, materialID string) error {
	args := m.Called(ctx, docID, materialID)
	return args.Error(0)
}

func (m *MaterialGroupRepository) AddAggregates(ctx context.Context, docID string, weightDelta float64, countDelta int64) error {
	args := m.Called(ctx, docID, weightDelta, countDelta)
	return args.Error(0)
}

// SherdRepository is a mock for sherd.Repository.
type SherdRepository struct {
	mock.Mock
}

func (m *SherdRepository) Create(ctx context.Context, s *sherd.Sherd) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SherdRepository) Get(ctx context.Context, docID string) (*sherd.Sherd, error) {
	args := m.Called(ctx, docID)
	if s, ok := args.Get(0).(*sherd.Sherd); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SherdRepository) ListByGroup(ctx context.Context, groupDocID string) ([]sherd.Sherd, error) {
	args := m.Called(ctx, groupDocID)
	if list, ok := args.Get(0).([]sherd.Sherd); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SherdRepository) CreateSummary(ctx context.Context, s *sherd.GroupedSummary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SherdRepository) ListSummaries(ctx context.Context, groupDocID string) ([]sherd.GroupedSummary, error) {
	args := m.Called(ctx, groupDocID)
	if list, ok := args.Get(0).([]sherd.GroupedSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UniversalRepository is a mock for universal.Repository.
type UniversalRepository struct {
	mock.Mock
}

func (m *UniversalRepository) Create(ctx context.Context, entry *universal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *UniversalRepository) Query(ctx context.Context, filter universal.Filter) ([]universal.Entry, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]universal.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UniversalMirror is a mock for the ingestion pipeline's sherd.Mirror.
type UniversalMirror struct {
	mock.Mock
}

func (m *UniversalMirror) Mirror(ctx context.Context, entry universal.Entry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}
