package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	incidentsCollection = "incidents"
	locationsCollection = "locations"
	countersCollection  = "counters"

	// Document IDs
	revisionCounterDocID = "revision"

	// Field names
	fieldLocationID = "location_id"
	fieldCreatedAt  = "created_at"
	fieldRevision   = "current_revision"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Probe the connection so bad credentials fail at startup, not on the
	// first write. An empty collection is fine; auth errors are not.
	_, err = client.Collection(incidentsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Warn("Firestore connection probe returned an error, continuing",
			"error", err,
			"code", status.Code(err).String(),
		)
	}

	return &Firestore{client: client}, nil
}

// PutIncident saves an incident to Firestore
func (f *Firestore) PutIncident(ctx context.Context, incident *model.Incident) error {
	if incident == nil {
		return goerr.New("incident is nil")
	}
	if incident.ID == "" {
		return goerr.New("incident ID is empty")
	}

	doc := f.client.Collection(incidentsCollection).Doc(incident.ID.String())
	if _, err := doc.Set(ctx, incident); err != nil {
		return goerr.Wrap(err, "failed to save incident",
			goerr.V("incidentID", incident.ID))
	}

	return f.bumpRevision(ctx)
}

// GetIncident retrieves an incident by ID
func (f *Firestore) GetIncident(ctx context.Context, id types.IncidentID) (*model.Incident, error) {
	if id == "" {
		return nil, goerr.New("incident ID is empty")
	}

	doc, err := f.client.Collection(incidentsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrIncidentNotFound, "failed to get incident",
				goerr.V("incidentID", id))
		}
		return nil, goerr.Wrap(err, "failed to get incident document",
			goerr.V("incidentID", id))
	}

	var incident model.Incident
	if err := doc.DataTo(&incident); err != nil {
		return nil, goerr.Wrap(err, "failed to decode incident",
			goerr.V("incidentID", id))
	}

	return &incident, nil
}

// ListIncidents retrieves all incidents, newest first
func (f *Firestore) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	query := f.client.Collection(incidentsCollection).
		OrderBy(fieldCreatedAt, firestore.Desc)
	return f.collectIncidents(ctx, query.Documents(ctx))
}

// ListIncidentsByLocation retrieves incidents for one location, newest first
func (f *Firestore) ListIncidentsByLocation(ctx context.Context, locationID types.LocationID) ([]*model.Incident, error) {
	if locationID == "" {
		return nil, goerr.New("location ID is empty")
	}

	query := f.client.Collection(incidentsCollection).
		Where(fieldLocationID, "==", locationID.String()).
		OrderBy(fieldCreatedAt, firestore.Desc)
	return f.collectIncidents(ctx, query.Documents(ctx))
}

func (f *Firestore) collectIncidents(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.Incident, error) {
	defer iter.Stop()

	var incidents []*model.Incident
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate incidents")
		}

		var incident model.Incident
		if err := doc.DataTo(&incident); err != nil {
			return nil, goerr.Wrap(err, "failed to decode incident",
				goerr.V("docID", doc.Ref.ID))
		}
		incidents = append(incidents, &incident)
	}

	return incidents, nil
}

// PutLocation saves a location to Firestore
func (f *Firestore) PutLocation(ctx context.Context, location *model.Location) error {
	if location == nil {
		return goerr.New("location is nil")
	}
	if location.ID == "" {
		return goerr.New("location ID is empty")
	}

	doc := f.client.Collection(locationsCollection).Doc(location.ID.String())
	if _, err := doc.Set(ctx, location); err != nil {
		return goerr.Wrap(err, "failed to save location",
			goerr.V("locationID", location.ID))
	}

	return f.bumpRevision(ctx)
}

// GetLocation retrieves a location by ID
func (f *Firestore) GetLocation(ctx context.Context, id types.LocationID) (*model.Location, error) {
	if id == "" {
		return nil, goerr.New("location ID is empty")
	}

	doc, err := f.client.Collection(locationsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrLocationNotFound, "failed to get location",
				goerr.V("locationID", id))
		}
		return nil, goerr.Wrap(err, "failed to get location document",
			goerr.V("locationID", id))
	}

	var location model.Location
	if err := doc.DataTo(&location); err != nil {
		return nil, goerr.Wrap(err, "failed to decode location",
			goerr.V("locationID", id))
	}

	return &location, nil
}

// ListLocations retrieves all locations sorted by ID
func (f *Firestore) ListLocations(ctx context.Context) ([]*model.Location, error) {
	iter := f.client.Collection(locationsCollection).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var locations []*model.Location
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate locations")
		}

		var location model.Location
		if err := doc.DataTo(&location); err != nil {
			return nil, goerr.Wrap(err, "failed to decode location",
				goerr.V("docID", doc.Ref.ID))
		}
		locations = append(locations, &location)
	}

	return locations, nil
}

// Revision returns the current write revision
func (f *Firestore) Revision(ctx context.Context) (types.Revision, error) {
	doc, err := f.client.Collection(countersCollection).Doc(revisionCounterDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, goerr.Wrap(err, "failed to get revision counter")
	}

	value, err := doc.DataAt(fieldRevision)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get revision field")
	}

	switch v := value.(type) {
	case int64:
		return types.Revision(v), nil
	case int:
		return types.Revision(v), nil
	default:
		return 0, goerr.New("unexpected type for revision counter")
	}
}

// bumpRevision increments the revision counter using a transaction
func (f *Firestore) bumpRevision(ctx context.Context) error {
	counterDoc := f.client.Collection(countersCollection).Doc(revisionCounterDocID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return tx.Set(counterDoc, map[string]any{
					fieldRevision: 1,
				})
			}
			return goerr.Wrap(err, "failed to get revision counter document")
		}

		current, err := doc.DataAt(fieldRevision)
		if err != nil {
			return goerr.Wrap(err, "failed to get revision field")
		}

		var next int64
		switch v := current.(type) {
		case int64:
			next = v + 1
		case int:
			next = int64(v) + 1
		default:
			return goerr.New("unexpected type for revision counter")
		}

		return tx.Update(counterDoc, []firestore.Update{
			{Path: fieldRevision, Value: next},
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to bump revision counter")
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
