package catalog_test

import (
	"context"
	"testing"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogService(
	projects *mocks.ProjectRepository,
	areas *mocks.StudyAreaRepository,
	units *mocks.StratUnitRepository,
	containers *mocks.ContainerRepository,
	groups *mocks.MaterialGroupRepository,
) *catalog.Service {
	return catalog.NewService(projects, areas, units, containers, groups, nil)
}

func TestCatalogService_CreateProjectValidation(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService(&mocks.ProjectRepository{}, nil, nil, nil, nil)

	_, err := svc.CreateProject(ctx, catalog.CreateProjectRequest{Name: "", Code: "NUR24"})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	_, err = svc.CreateProject(ctx, catalog.CreateProjectRequest{Name: "Nuraghe", Code: ""})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	_, err = svc.CreateProject(ctx, catalog.CreateProjectRequest{Name: "Nuraghe", Code: "TOO-LONG-24"})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestCatalogService_CreateProject(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	projects.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(projects, nil, nil, nil, nil)
	proj, err := svc.CreateProject(ctx, catalog.CreateProjectRequest{Name: "  Nuraghe  ", Code: "NUR24"})
	require.NoError(t, err)
	require.NotEmpty(t, proj.DocID)
	require.Equal(t, "Nuraghe", proj.Name)
	require.False(t, proj.CreatedAt.IsZero())
	projects.AssertExpectations(t)
}

func TestCatalogService_CreateStudyArea(t *testing.T) {
	ctx := context.Background()
	areas := &mocks.StudyAreaRepository{}
	areas.On("List", ctx, "proj1").Return([]catalog.StudyArea{{ID: "01000"}, {ID: "02000"}}, nil)
	areas.On("ExistsByID", ctx, "proj1", "03000").Return(false, nil)
	areas.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, areas, nil, nil, nil)
	area, err := svc.CreateStudyArea(ctx, "proj1", "North slope")
	require.NoError(t, err)
	require.Equal(t, "03000", area.ID)
	require.Equal(t, "North slope", area.Label)
	areas.AssertExpectations(t)
}

func TestCatalogService_CreateStudyArea_RetriesOnceThenConflicts(t *testing.T) {
	ctx := context.Background()
	areas := &mocks.StudyAreaRepository{}
	// Both snapshots produce a candidate that a concurrent writer grabbed
	// first; after the single retry the operation reports a conflict.
	areas.On("List", ctx, "proj1").Return([]catalog.StudyArea{{ID: "01000"}}, nil)
	areas.On("ExistsByID", ctx, "proj1", "02000").Return(true, nil)

	svc := newCatalogService(nil, areas, nil, nil, nil)
	_, err := svc.CreateStudyArea(ctx, "proj1", "North slope")
	require.ErrorIs(t, err, catalog.ErrAllocationConflict)
	areas.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateStudyArea_RetryRecovers(t *testing.T) {
	ctx := context.Background()
	areas := &mocks.StudyAreaRepository{}
	// The retry re-reads the snapshot, which now includes the sibling that
	// caused the collision.
	areas.On("List", ctx, "proj1").Return([]catalog.StudyArea{{ID: "01000"}}, nil).Once()
	areas.On("List", ctx, "proj1").Return([]catalog.StudyArea{{ID: "01000"}, {ID: "02000"}}, nil).Once()
	areas.On("ExistsByID", ctx, "proj1", "02000").Return(true, nil)
	areas.On("ExistsByID", ctx, "proj1", "03000").Return(false, nil)
	areas.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, areas, nil, nil, nil)
	area, err := svc.CreateStudyArea(ctx, "proj1", "North slope")
	require.NoError(t, err)
	require.Equal(t, "03000", area.ID)
	areas.AssertExpectations(t)
}

func TestCatalogService_CreateStratUnit(t *testing.T) {
	ctx := context.Background()
	units := &mocks.StratUnitRepository{}
	units.On("List", ctx, "proj1", "1000").Return([]catalog.StratUnit{}, nil)
	units.On("ExistsByID", ctx, "proj1", "1000", "100001").Return(false, nil)
	units.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, nil, units, nil, nil)
	unit, err := svc.CreateStratUnit(ctx, catalog.CreateStratUnitRequest{
		ProjectID:   "proj1",
		StudyAreaID: "1000",
		Typology:    "fill",
		Label:       "US 1",
	})
	require.NoError(t, err)
	require.Equal(t, "100001", unit.ID)
	units.AssertExpectations(t)
}

func TestCatalogService_CreateStratUnit_TimestampFallback(t *testing.T) {
	ctx := context.Background()
	units := &mocks.StratUnitRepository{}
	// No sibling parses and neither does the parent, so the session gets a
	// timestamp identifier instead of an error.
	units.On("List", ctx, "proj1", "area-x").Return([]catalog.StratUnit{{ID: "weird"}}, nil)
	units.On("ExistsByID", ctx, "proj1", "area-x", mock.Anything).Return(false, nil)
	units.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, nil, units, nil, nil)
	unit, err := svc.CreateStratUnit(ctx, catalog.CreateStratUnitRequest{
		ProjectID:   "proj1",
		StudyAreaID: "area-x",
		Label:       "US 1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, unit.ID)
	units.AssertExpectations(t)
}

func TestCatalogService_CreateContainer(t *testing.T) {
	ctx := context.Background()
	containers := &mocks.ContainerRepository{}
	containers.On("List", ctx, "proj1", "1000", "100001").
		Return([]catalog.Container{{ID: "100001-A"}}, nil)
	containers.On("ExistsByID", ctx, "proj1", "1000", "100001", "100001-B").Return(false, nil)
	containers.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, nil, nil, containers, nil)
	c, err := svc.CreateContainer(ctx, catalog.CreateContainerRequest{
		ProjectID:   "proj1",
		StudyAreaID: "1000",
		StratUnitID: "100001",
	})
	require.NoError(t, err)
	require.Equal(t, "100001-B", c.ID)
	require.Equal(t, catalog.ContainerBag, c.ContainerType)
	require.Equal(t, "Pottery", c.MaterialType)
	containers.AssertExpectations(t)
}

func TestCatalogService_CreateMaterialGroup_Allocates(t *testing.T) {
	ctx := context.Background()
	groups := &mocks.MaterialGroupRepository{}
	groups.On("List", ctx, "proj1", "1000", "100001").
		Return([]catalog.MaterialGroup{{MaterialID: "100001-1"}, {MaterialID: "100001-2"}}, nil)
	groups.On("ExistsByMaterialID", ctx, "proj1", "1000", "100001", "100001-3").Return(false, nil)
	groups.On("Create", ctx, mock.Anything).Return(nil)

	svc := newCatalogService(nil, nil, nil, nil, groups)
	g, err := svc.CreateMaterialGroup(ctx, catalog.CreateMaterialGroupRequest{
		ProjectID:    "proj1",
		StudyAreaID:  "1000",
		StratUnitID:  "100001",
		MaterialType: catalog.MaterialFineWare,
	})
	require.NoError(t, err)
	require.Equal(t, "100001-3", g.MaterialID)
	require.Zero(t, g.TotalWeight)
	require.Zero(t, g.SherdCount)
	groups.AssertExpectations(t)
}

func TestCatalogService_CreateMaterialGroup_ExplicitID(t *testing.T) {
	ctx := context.Background()
	groups := &mocks.MaterialGroupRepository{}
	groups.On("ExistsByMaterialID", ctx, "proj1", "1000", "100001", "100001-7").Return(true, nil)

	svc := newCatalogService(nil, nil, nil, nil, groups)
	req := catalog.CreateMaterialGroupRequest{
		ProjectID:    "proj1",
		StudyAreaID:  "1000",
		StratUnitID:  "100001",
		MaterialID:   "100001-7",
		MaterialType: catalog.MaterialCoarseWare,
	}

	_, err := svc.CreateMaterialGroup(ctx, req)
	require.ErrorIs(t, err, catalog.ErrMaterialIDTaken)

	req.MaterialID = "999999-7"
	_, err = svc.CreateMaterialGroup(ctx, req)
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	req.MaterialType = "porcelain"
	_, err = svc.CreateMaterialGroup(ctx, req)
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestCatalogService_RenameMaterialGroup(t *testing.T) {
	ctx := context.Background()
	existing := &catalog.MaterialGroup{
		DocID:       "g1",
		ProjectID:   "proj1",
		StudyAreaID: "1000",
		StratUnitID: "100001",
		MaterialID:  "100001-1",
	}

	groups := &mocks.MaterialGroupRepository{}
	groups.On("Get", ctx, "g1").Return(existing, nil)
	groups.On("ExistsByMaterialID", ctx, "proj1", "1000", "100001", "100001-9").Return(false, nil)
	groups.On("UpdateMaterialID", ctx, "g1", "100001-9").Return(nil)

	svc := newCatalogService(nil, nil, nil, nil, groups)
	g, err := svc.RenameMaterialGroup(ctx, "g1", "100001-9")
	require.NoError(t, err)
	require.Equal(t, "100001-9", g.MaterialID)
	groups.AssertExpectations(t)
}

func TestCatalogService_RenameMaterialGroup_SameIDIsNoop(t *testing.T) {
	ctx := context.Background()
	existing := &catalog.MaterialGroup{DocID: "g1", MaterialID: "100001-1"}

	groups := &mocks.MaterialGroupRepository{}
	groups.On("Get", ctx, "g1").Return(existing, nil)

	svc := newCatalogService(nil, nil, nil, nil, groups)
	g, err := svc.RenameMaterialGroup(ctx, "g1", "100001-1")
	require.NoError(t, err)
	require.Equal(t, "100001-1", g.MaterialID)
	groups.AssertNotCalled(t, "UpdateMaterialID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_RenameMaterialGroup_Taken(t *testing.T) {
	ctx := context.Background()
	existing := &catalog.MaterialGroup{
		DocID:       "g1",
		ProjectID:   "proj1",
		StudyAreaID: "1000",
		StratUnitID: "100001",
		MaterialID:  "100001-1",
	}

	groups := &mocks.MaterialGroupRepository{}
	groups.On("Get", ctx, "g1").Return(existing, nil)
	groups.On("ExistsByMaterialID", ctx, "proj1", "1000", "100001", "100001-2").Return(true, nil)

	svc := newCatalogService(nil, nil, nil, nil, groups)
	_, err := svc.RenameMaterialGroup(ctx, "g1", "100001-2")
	require.ErrorIs(t, err, catalog.ErrMaterialIDTaken)
}
