package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/stretchr/testify/require"
)

func universalEntry(docID, projectID string, createdAt time.Time) *universal.Entry {
	return &universal.Entry{
		DocID:             docID,
		SherdID:           "frag-" + docID,
		ProjectID:         projectID,
		StudyAreaID:       "01000",
		StratUnitID:       "100001",
		ObjectGroupID:     "g1",
		DiagnosticType:    "rim",
		QualificationType: "its",
		Weight:            2.5,
		CreatedAt:         createdAt,
	}
}

func TestUniversalRepository_CreateAndQuery(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUniversalRepository(db)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Create(ctx, universalEntry("e1", "projA", base)))
	require.NoError(t, repo.Create(ctx, universalEntry("e2", "projB", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, universalEntry("e3", "projA", base.Add(2*time.Second))))

	entries, err := repo.Query(ctx, universal.Filter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "e3", entries[0].DocID, "newest first")
	require.Equal(t, "e1", entries[2].DocID)

	entries, err = repo.Query(ctx, universal.Filter{ProjectID: "projA", Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, "projA", e.ProjectID)
	}

	entries, err = repo.Query(ctx, universal.Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestUniversalRepository_OptionalFields(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUniversalRepository(db)
	ctx := context.Background()

	conf := 0.42
	full := universalEntry("e1", "projA", time.Now())
	full.ContainerID = "100001-A"
	full.AnalysisConfidence = &conf
	full.OriginalImageURL = "data:image/jpeg;base64,xyz"
	full.Notes = "Detection ID: det-1"
	require.NoError(t, repo.Create(ctx, full))

	bare := universalEntry("e2", "projA", time.Now())
	require.NoError(t, repo.Create(ctx, bare))

	entries, err := repo.Query(ctx, universal.Filter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := map[string]universal.Entry{}
	for _, e := range entries {
		byID[e.DocID] = e
	}
	require.Equal(t, "100001-A", byID["e1"].ContainerID)
	require.NotNil(t, byID["e1"].AnalysisConfidence)
	require.Equal(t, "Detection ID: det-1", byID["e1"].Notes)
	require.Empty(t, byID["e2"].ContainerID)
	require.Nil(t, byID["e2"].AnalysisConfidence)
	require.Empty(t, byID["e2"].Notes)
}
