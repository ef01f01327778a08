package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/repository"
)

func TestMemoryRepository(t *testing.T) {
	testRepository(t, repository.NewMemory)
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")
	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func() interfaces.Repository {
		repo, err := repository.NewFirestore(context.Background(), projectID, databaseID)
		gt.NoError(t, err)
		return repo
	})
}

// testRepository runs the shared contract suite against a repository
// implementation. A Firestore-backed run would plug in here with a
// project-scoped constructor.
func testRepository(t *testing.T, newRepo func() interfaces.Repository) {
	newIncident := func(locationID types.LocationID, createdAt time.Time) *model.Incident {
		return &model.Incident{
			ID:         types.NewIncidentID(),
			Code:       "INC-1",
			LocationID: locationID,
			Severity:   types.SeverityMedium,
			Type:       "slip",
			Status:     types.IncidentStatusOpen,
			Title:      "test incident",
			CreatedAt:  createdAt,
		}
	}

	t.Run("PutAndGetIncident", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		incident := newIncident("loc-a", time.Now().Add(-time.Hour))
		gt.NoError(t, repo.PutIncident(ctx, incident))

		got := gt.R1(repo.GetIncident(ctx, incident.ID)).NoError(t)
		gt.Equal(t, got.ID, incident.ID)
		gt.Equal(t, got.LocationID, incident.LocationID)
		gt.Equal(t, got.Severity, incident.Severity)
	})

	t.Run("GetIncidentNotFound", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()

		_, err := repo.GetIncident(context.Background(), types.NewIncidentID())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrIncidentNotFound))
	})

	t.Run("ListIncidentsNewestFirst", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		now := time.Now()
		old := newIncident("loc-a", now.Add(-3*time.Hour))
		mid := newIncident("loc-b", now.Add(-2*time.Hour))
		recent := newIncident("loc-a", now.Add(-time.Hour))
		for _, incident := range []*model.Incident{old, recent, mid} {
			gt.NoError(t, repo.PutIncident(ctx, incident))
		}

		incidents := gt.R1(repo.ListIncidents(ctx)).NoError(t)
		gt.Equal(t, len(incidents), 3)
		gt.Equal(t, incidents[0].ID, recent.ID)
		gt.Equal(t, incidents[1].ID, mid.ID)
		gt.Equal(t, incidents[2].ID, old.ID)
	})

	t.Run("ListIncidentsByLocation", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		now := time.Now()
		a1 := newIncident("loc-a", now.Add(-2*time.Hour))
		a2 := newIncident("loc-a", now.Add(-time.Hour))
		b1 := newIncident("loc-b", now.Add(-time.Hour))
		for _, incident := range []*model.Incident{a1, a2, b1} {
			gt.NoError(t, repo.PutIncident(ctx, incident))
		}

		incidents := gt.R1(repo.ListIncidentsByLocation(ctx, "loc-a")).NoError(t)
		gt.Equal(t, len(incidents), 2)
		gt.Equal(t, incidents[0].ID, a2.ID)
		gt.Equal(t, incidents[1].ID, a1.ID)
	})

	t.Run("PutIncidentOverwritesByID", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		incident := newIncident("loc-a", time.Now().Add(-time.Hour))
		gt.NoError(t, repo.PutIncident(ctx, incident))

		incident.Status = types.IncidentStatusClosed
		gt.NoError(t, repo.PutIncident(ctx, incident))

		incidents := gt.R1(repo.ListIncidents(ctx)).NoError(t)
		gt.Equal(t, len(incidents), 1)
		gt.Equal(t, incidents[0].Status, types.IncidentStatusClosed)
	})

	t.Run("PutAndListLocations", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		gt.NoError(t, repo.PutLocation(ctx, &model.Location{ID: "wing-b", ParentID: "site", Name: "Wing B"}))
		gt.NoError(t, repo.PutLocation(ctx, &model.Location{ID: "site", Name: "Site"}))

		locations := gt.R1(repo.ListLocations(ctx)).NoError(t)
		gt.Equal(t, len(locations), 2)
		gt.Equal(t, locations[0].ID, types.LocationID("site"))
		gt.Equal(t, locations[1].ID, types.LocationID("wing-b"))

		got := gt.R1(repo.GetLocation(ctx, "wing-b")).NoError(t)
		gt.Equal(t, got.ParentID, types.LocationID("site"))
	})

	t.Run("GetLocationNotFound", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()

		_, err := repo.GetLocation(context.Background(), "nope")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrLocationNotFound))
	})

	t.Run("RevisionAdvancesOnWrite", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		before := gt.R1(repo.Revision(ctx)).NoError(t)

		gt.NoError(t, repo.PutIncident(ctx, newIncident("loc-a", time.Now().Add(-time.Hour))))
		afterIncident := gt.R1(repo.Revision(ctx)).NoError(t)
		gt.True(t, afterIncident > before)

		gt.NoError(t, repo.PutLocation(ctx, &model.Location{ID: "site", Name: "Site"}))
		afterLocation := gt.R1(repo.Revision(ctx)).NoError(t)
		gt.True(t, afterLocation > afterIncident)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		repo := newRepo()
		defer repo.Close()
		ctx := context.Background()

		incident := newIncident("loc-a", time.Now().Add(-time.Hour))
		gt.NoError(t, repo.PutIncident(ctx, incident))

		// Mutating the stored-from and read-out values must not leak
		incident.Title = "mutated after put"
		got := gt.R1(repo.GetIncident(ctx, incident.ID)).NoError(t)
		gt.Equal(t, got.Title, "test incident")

		got.Title = "mutated after get"
		again := gt.R1(repo.GetIncident(ctx, incident.ID)).NoError(t)
		gt.Equal(t, again.Title, "test incident")
	})
}
