package remotestore

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/penguin/core/internal/infrastructure/config"
	"github.com/penguin/core/internal/infrastructure/logger"
	"github.com/penguin/core/internal/ports"
)

// FirestoreStore is the production ports.RemoteStore: one Firestore
// collection per shared entity kind, ordered by the server-assigned
// createdAt timestamp.
type FirestoreStore struct {
	client *firestore.Client
	log    *logger.Logger
}

// NewFirestoreStore initializes the Firestore client. Credentials come from
// the Base64-encoded FIREBASE_CREDENTIALS_JSON value when set, falling back
// to a service account key file; with neither, application default
// credentials apply.
func NewFirestoreStore(ctx context.Context, cfg config.FirebaseConfig, log *logger.Logger) (*FirestoreStore, error) {
	var opts []option.ClientOption

	if cfg.CredentialsJSON != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	return &FirestoreStore{client: client, log: log.WithComponent("firestore")}, nil
}

// Collection implements ports.RemoteStore. Goals and rewards subscribe in
// descending creation order, messages ascending; that ordering is part of
// the product's display contract.
func (s *FirestoreStore) Collection(kind string) ports.RemoteCollection {
	dir := firestore.Desc
	if kind == ports.RemoteMessages {
		dir = firestore.Asc
	}
	return &firestoreCollection{
		ref: s.client.Collection(kind),
		dir: dir,
		log: s.log.WithFields("collection", kind),
	}
}

// Close implements ports.RemoteStore.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreCollection struct {
	ref *firestore.CollectionRef
	dir firestore.Direction
	log *logger.Logger
}

func (c *firestoreCollection) Create(ctx context.Context, id string, doc interface{}) error {
	if _, err := c.ref.Doc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to create document %s: %w", id, err)
	}
	return nil
}

func (c *firestoreCollection) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if _, err := c.ref.Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return nil
}

func (c *firestoreCollection) Delete(ctx context.Context, id string) error {
	if _, err := c.ref.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// Listen streams full ordered snapshots until ctx is cancelled. Every
// delivery is the whole collection; the caller replaces its projection
// wholesale rather than patching.
func (c *firestoreCollection) Listen(ctx context.Context, deliver func(docs []ports.RemoteDoc)) error {
	snaps := c.ref.Query.OrderBy("createdAt", c.dir).Snapshots(ctx)
	defer snaps.Stop()

	for {
		qs, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("snapshot stream failed: %w", err)
		}

		all, err := qs.Documents.GetAll()
		if err != nil {
			c.log.WithError(err).Warn("failed to read snapshot documents")
			continue
		}

		docs := make([]ports.RemoteDoc, 0, len(all))
		for _, snap := range all {
			docs = append(docs, remoteDoc{snap: snap})
		}
		deliver(docs)
	}
}

type remoteDoc struct {
	snap *firestore.DocumentSnapshot
}

func (d remoteDoc) ID() string {
	return d.snap.Ref.ID
}

func (d remoteDoc) DataTo(v interface{}) error {
	return d.snap.DataTo(v)
}

var _ ports.RemoteStore = (*FirestoreStore)(nil)
