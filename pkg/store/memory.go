package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process store for tests and single-node development
type Memory struct {
	mu   sync.RWMutex
	docs map[Kind]map[string]*Record
	now  func() time.Time
}

// NewMemory returns an empty memory store
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[Kind]map[string]*Record),
		now:  time.Now,
	}
}

// Get returns a copy of the document
func (m *Memory) Get(_ context.Context, kind Kind, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.docs[kind][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}

	return rec.clone(), nil
}

// Create stores a new document
func (m *Memory) Create(_ context.Context, kind Kind, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.docs[kind]
	if !ok {
		docs = make(map[string]*Record)
		m.docs[kind] = docs
	}

	if _, ok := docs[rec.ID]; ok {
		return fmt.Errorf("%w: %s %s already exists", ErrConflict, kind, rec.ID)
	}

	rec.Version = 1
	rec.Updated = m.now()
	docs[rec.ID] = rec.clone()

	return nil
}

// Update replaces the document if nobody else has since
func (m *Memory) Update(_ context.Context, kind Kind, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.docs[kind][rec.ID]
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, rec.ID)
	}

	if stored.Version != rec.Version {
		return fmt.Errorf("%w: %s %s is at version %d, not %d", ErrConflict, kind, rec.ID, stored.Version, rec.Version)
	}

	rec.Version++
	rec.Updated = m.now()
	m.docs[kind][rec.ID] = rec.clone()

	return nil
}

// List returns the documents of a kind ordered by id. An empty parent lists all of them
func (m *Memory) List(_ context.Context, kind Kind, parent string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.docs[kind]))
	for _, rec := range m.docs[kind] {
		if parent == "" || rec.Parent == parent {
			records = append(records, rec.clone())
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})

	return records, nil
}
