package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

type collection struct {
	table  string
	parent string
}

var collections = map[Kind]collection{
	KindTable:      {table: "tables_state", parent: "tournament_id"},
	KindTournament: {table: "tournaments", parent: "creator_id"},
}

// Postgres stores documents as jsonb rows with a version column
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a store backed by the database
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func lookup(kind Kind) (collection, error) {
	c, ok := collections[kind]
	if !ok {
		return collection{}, fmt.Errorf("unknown document kind %q", kind)
	}

	return c, nil
}

type scanner interface {
	Scan(...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var data []byte
	if err := row.Scan(&rec.ID, &rec.Parent, &rec.Version, &data, &rec.Updated); err != nil {
		return nil, err
	}

	rec.Data = data
	return &rec, nil
}

// Get returns the document
func (p *Postgres) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	c, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	query := `
SELECT id, ` + c.parent + `, version, state, updated
FROM ` + c.table + `
WHERE id = $1`

	rec, err := scanRecord(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}

		return nil, err
	}

	return rec, nil
}

// Create inserts the document at version 1
func (p *Postgres) Create(ctx context.Context, kind Kind, rec *Record) error {
	c, err := lookup(kind)
	if err != nil {
		return err
	}

	query := `
INSERT INTO ` + c.table + ` (id, ` + c.parent + `, version, state)
VALUES ($1, $2, 1, $3)
RETURNING updated`

	if err := p.db.QueryRowContext(ctx, query, rec.ID, rec.Parent, []byte(rec.Data)).Scan(&rec.Updated); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return fmt.Errorf("%w: %s %s already exists", ErrConflict, kind, rec.ID)
		}

		return err
	}

	rec.Version = 1
	return nil
}

// Update writes the document if the stored version still matches
func (p *Postgres) Update(ctx context.Context, kind Kind, rec *Record) error {
	c, err := lookup(kind)
	if err != nil {
		return err
	}

	query := `
UPDATE ` + c.table + `
SET state = $1,
    version = version + 1,
    updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2
  AND version = $3
RETURNING version, updated`

	row := p.db.QueryRowContext(ctx, query, []byte(rec.Data), rec.ID, rec.Version)
	if err := row.Scan(&rec.Version, &rec.Updated); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		// tell a stale version apart from a missing row
		if _, err := p.Get(ctx, kind, rec.ID); err != nil {
			return err
		}

		return fmt.Errorf("%w: %s %s is no longer at version %d", ErrConflict, kind, rec.ID, rec.Version)
	}

	return nil
}

// List returns the documents of a kind ordered by id. An empty parent lists all of them
func (p *Postgres) List(ctx context.Context, kind Kind, parent string) ([]*Record, error) {
	c, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	query := `
SELECT id, ` + c.parent + `, version, state, updated
FROM ` + c.table + `
WHERE $1 = '' OR ` + c.parent + ` = $1
ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, parent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
