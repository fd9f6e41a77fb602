package store

import (
	"context"
	"encoding/json"

	"dealmein-server/pkg/holdem"
)

// Insert marshals doc and creates it. version points at the document's own
// version field, which is set to 1 in the stored copy and on success.
func Insert(ctx context.Context, s Store, kind Kind, id, parent string, version *int64, doc interface{}) error {
	prev := *version
	*version = 1
	data, err := json.Marshal(doc)
	if err != nil {
		*version = prev
		return err
	}

	if err := s.Create(ctx, kind, &Record{ID: id, Parent: parent, Data: data}); err != nil {
		*version = prev
		return err
	}

	return nil
}

// Save marshals doc and writes it over the version it was loaded at.
// On success *version is the new stored version, on failure it is unchanged.
func Save(ctx context.Context, s Store, kind Kind, id, parent string, version *int64, doc interface{}) error {
	expected := *version
	*version = expected + 1
	data, err := json.Marshal(doc)
	if err != nil {
		*version = expected
		return err
	}

	rec := &Record{ID: id, Parent: parent, Version: expected, Data: data}
	if err := s.Update(ctx, kind, rec); err != nil {
		*version = expected
		return err
	}

	*version = rec.Version
	return nil
}

// Load reads the document into doc and returns the stored version
func Load(ctx context.Context, s Store, kind Kind, id string, doc interface{}) (int64, error) {
	rec, err := s.Get(ctx, kind, id)
	if err != nil {
		return 0, err
	}

	if err := json.Unmarshal(rec.Data, doc); err != nil {
		return 0, err
	}

	return rec.Version, nil
}

// GetTable loads a table
func GetTable(ctx context.Context, s Store, id string) (*holdem.GameState, error) {
	var state holdem.GameState
	version, err := Load(ctx, s, KindTable, id, &state)
	if err != nil {
		return nil, err
	}

	state.Version = version
	return &state, nil
}

// CreateTable stores a new table
func CreateTable(ctx context.Context, s Store, state *holdem.GameState) error {
	return Insert(ctx, s, KindTable, state.TableID, state.TournamentID, &state.Version, state)
}

// UpdateTable stores the table if it has not changed since it was loaded
func UpdateTable(ctx context.Context, s Store, state *holdem.GameState) error {
	return Save(ctx, s, KindTable, state.TableID, state.TournamentID, &state.Version, state)
}

// ListTables returns the tables of a tournament
func ListTables(ctx context.Context, s Store, tournamentID string) ([]*holdem.GameState, error) {
	records, err := s.List(ctx, KindTable, tournamentID)
	if err != nil {
		return nil, err
	}

	tables := make([]*holdem.GameState, len(records))
	for i, rec := range records {
		var state holdem.GameState
		if err := json.Unmarshal(rec.Data, &state); err != nil {
			return nil, err
		}

		state.Version = rec.Version
		tables[i] = &state
	}

	return tables, nil
}
