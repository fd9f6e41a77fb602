package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrConflict is returned when a document changed after it was loaded
var ErrConflict = errors.New("version conflict")

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Kind is a collection of documents
type Kind string

// Kind constants
const (
	KindTable      Kind = "table"
	KindTournament Kind = "tournament"
)

// Record is a versioned JSON document.
// Parent groups documents, a table's parent is its tournament.
type Record struct {
	ID      string          `json:"id"`
	Parent  string          `json:"parent"`
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
	Updated time.Time       `json:"updated"`
}

func (r *Record) clone() *Record {
	cp := *r
	cp.Data = append(json.RawMessage(nil), r.Data...)
	return &cp
}

// Store persists documents with compare-and-swap on the version.
// Create stores version 1. Update succeeds only when the stored version
// equals rec.Version, and on success rec.Version is incremented.
type Store interface {
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	Create(ctx context.Context, kind Kind, rec *Record) error
	Update(ctx context.Context, kind Kind, rec *Record) error
	List(ctx context.Context, kind Kind, parent string) ([]*Record, error)
}
