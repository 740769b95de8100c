package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/sherd"
	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/arcslab/arcfield/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db *sqlite.DB

	catalogSvc   *catalog.Service
	sherdSvc     *sherd.Service
	universalSvc *universal.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	groupRepo := sqlite.NewMaterialGroupRepository(db)

	catalogSvc := catalog.NewService(
		sqlite.NewProjectRepository(db),
		sqlite.NewStudyAreaRepository(db),
		sqlite.NewStratUnitRepository(db),
		sqlite.NewContainerRepository(db),
		groupRepo,
		nil,
	)
	universalSvc := universal.NewService(sqlite.NewUniversalRepository(db), nil)
	sherdSvc := sherd.NewService(sqlite.NewSherdRepository(db), groupRepo, universalSvc, nil)

	return &testEnv{
		db:           db,
		catalogSvc:   catalogSvc,
		sherdSvc:     sherdSvc,
		universalSvc: universalSvc,
	}
}

// TestIntegration_FieldRecordingWorkflow walks the whole recording session:
// hierarchy creation top to bottom, a grouped manual entry, and the
// resulting aggregates and index entries.
func TestIntegration_FieldRecordingWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.catalogSvc.CreateProject(ctx, catalog.CreateProjectRequest{
		Name: "Nuraghe Survey",
		Code: "NUR24",
	})
	require.NoError(t, err)

	area, err := env.catalogSvc.CreateStudyArea(ctx, proj.DocID, "North slope")
	require.NoError(t, err)
	require.Equal(t, "01000", area.ID)

	unit, err := env.catalogSvc.CreateStratUnit(ctx, catalog.CreateStratUnitRequest{
		ProjectID:   proj.DocID,
		StudyAreaID: area.ID,
		Typology:    "fill",
		Label:       "US 1",
	})
	require.NoError(t, err)
	require.Equal(t, "100001", unit.ID)

	container, err := env.catalogSvc.CreateContainer(ctx, catalog.CreateContainerRequest{
		ProjectID:   proj.DocID,
		StudyAreaID: area.ID,
		StratUnitID: unit.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "100001-A", container.ID)

	group, err := env.catalogSvc.CreateMaterialGroup(ctx, catalog.CreateMaterialGroupRequest{
		ProjectID:    proj.DocID,
		StudyAreaID:  area.ID,
		StratUnitID:  unit.ID,
		MaterialType: catalog.MaterialFineWare,
	})
	require.NoError(t, err)
	require.Equal(t, "100001-1", group.MaterialID)

	result, err := env.sherdSvc.IngestGrouped(ctx, sherd.GroupRef{
		ProjectID:   proj.DocID,
		StudyAreaID: area.ID,
		StratUnitID: unit.ID,
		ContainerID: container.ID,
		GroupDocID:  group.DocID,
	}, []sherd.GroupedRow{
		{DiagnosticType: "rim", QualificationType: "its", Count: 2, Weight: 10},
		{DiagnosticType: "base", QualificationType: "african", Count: 1, Weight: 5},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.SavedCount)
	require.Equal(t, 15.0, result.TotalWeight)
	require.Empty(t, result.Failures)

	// Aggregates accumulate on the group through the atomic increment
	updated, err := env.catalogSvc.GetMaterialGroup(ctx, group.DocID)
	require.NoError(t, err)
	require.Equal(t, int64(3), updated.SherdCount)
	require.Equal(t, 15.0, updated.TotalWeight)

	summaries, err := env.sherdSvc.ListSummaries(ctx, group.DocID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// One index entry per fragment
	entries, err := env.universalSvc.Query(ctx, universal.Filter{ProjectID: proj.DocID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	stats := universal.Summarize(entries)
	require.Equal(t, 3, stats.TotalSherds)
	require.InDelta(t, 15.0, stats.TotalWeight, 0.001)
}

// TestIntegration_DetectionReviewWorkflow ingests reviewed detection output
// twice into the same group and checks the running totals.
func TestIntegration_DetectionReviewWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.catalogSvc.CreateProject(ctx, catalog.CreateProjectRequest{
		Name: "Harbor Excavation",
		Code: "HAR25",
	})
	require.NoError(t, err)

	ref := sherd.GroupRef{
		ProjectID:    proj.DocID,
		StudyAreaID:  "01000",
		StratUnitID:  "100001",
		ContainerID:  "100001-A",
		MaterialID:   "100001-1",
		MaterialType: "fine-ware",
	}

	// First batch creates the group on the fly
	first, err := env.sherdSvc.IngestDetections(ctx, ref, []sherd.Observation{
		{DiagnosticType: "rim", QualificationType: "its", Weight: 4},
		{DiagnosticType: "base", Weight: 6},
	}, "")
	require.NoError(t, err)
	require.Equal(t, 2, first.SavedCount)
	require.NotEmpty(t, first.GroupDocID)

	// Second batch lands in the same group
	ref.GroupDocID = first.GroupDocID
	second, err := env.sherdSvc.IngestDetections(ctx, ref, []sherd.Observation{
		{DiagnosticType: "handle", QualificationType: "african", Weight: 2.5},
	}, "")
	require.NoError(t, err)
	require.Equal(t, first.GroupDocID, second.GroupDocID)

	group, err := env.catalogSvc.GetMaterialGroup(ctx, first.GroupDocID)
	require.NoError(t, err)
	require.Equal(t, int64(3), group.SherdCount)
	require.InDelta(t, 12.5, group.TotalWeight, 0.001)

	sherds, err := env.sherdSvc.ListByGroup(ctx, first.GroupDocID)
	require.NoError(t, err)
	require.Len(t, sherds, 3)

	entries, err := env.universalSvc.Query(ctx, universal.Filter{ProjectID: proj.DocID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

// TestIntegration_AllocatorsSurviveInterleaving exercises sibling id
// allocation across interleaved creates in one scope.
func TestIntegration_AllocatorsSurviveInterleaving(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.catalogSvc.CreateProject(ctx, catalog.CreateProjectRequest{
		Name: "Terrace Survey",
		Code: "TER",
	})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		area, err := env.catalogSvc.CreateStudyArea(ctx, proj.DocID, fmt.Sprintf("Area %d", i))
		require.NoError(t, err)
		require.False(t, seen[area.ID], "duplicate study area id %s", area.ID)
		seen[area.ID] = true
	}

	for i := 0; i < 3; i++ {
		c, err := env.catalogSvc.CreateContainer(ctx, catalog.CreateContainerRequest{
			ProjectID:   proj.DocID,
			StudyAreaID: "01000",
			StratUnitID: "5001",
		})
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("5001-%c", 'A'+rune(i)), c.ID)
	}
}
