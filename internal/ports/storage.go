package ports

import "context"

// KV is the narrow on-device storage interface behind the local snapshot
// variant: independently-keyed string-valued records, nothing more.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RemoteDoc is one record delivered by a remote change feed.
type RemoteDoc interface {
	ID() string
	// DataTo decodes the document's fields into v.
	DataTo(v interface{}) error
}

// RemoteCollection is one server-ordered collection of the remote document
// store. Listen delivers the full current ordered snapshot on open and again
// on every remote change, until ctx is cancelled; it never delivers a diff.
type RemoteCollection interface {
	Create(ctx context.Context, id string, doc interface{}) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Listen(ctx context.Context, deliver func(docs []RemoteDoc)) error
}

// Remote collection kinds.
const (
	RemoteGoals    = "goals"
	RemoteMessages = "messages"
	RemoteRewards  = "rewards"
)

// RemoteStore exposes the three shared collections of the remote variant.
// Ordering is baked in per kind: goals and rewards descending by server
// creation time, messages ascending.
type RemoteStore interface {
	Collection(kind string) RemoteCollection
	Close() error
}
