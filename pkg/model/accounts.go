package model

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/synacor/argon2id"

	"dealmein-server/pkg/db"
)

const uniqueViolation pq.ErrorCode = "23505"

const accountColumns = `id, email, display_name, is_site_admin, status, created`

// Accounts reads and writes the players table
type Accounts struct {
	db *sql.DB
}

// NewAccounts returns the accounts stored in the database
func NewAccounts(db *sql.DB) *Accounts {
	return &Accounts{db: db}
}

func scanAccount(row db.Scanner, extra ...interface{}) (*Account, error) {
	var a Account
	dest := append([]interface{}{&a.ID, &a.Email, &a.DisplayName, &a.IsSiteAdmin, &a.Status, &a.Created}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return &a, nil
}

// Create opens an account. Sign-ups are not verified by email, the account
// can register for tournaments right away.
func (s *Accounts) Create(ctx context.Context, signup Signup) (*Account, error) {
	if err := signup.Validate(); err != nil {
		return nil, err
	}

	hash, err := argon2id.DefaultHashPassword(signup.Password)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO players (email, display_name, password_hash, remote_addr, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns

	row := s.db.QueryRowContext(ctx, query, signup.Email, signup.DisplayName, hash, signup.RemoteAddr, AccountActive)
	account, err := scanAccount(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	return account, nil
}

var (
	unknownHash     string
	unknownHashOnce sync.Once
)

// compareUnknown spends as long as a real password check
func compareUnknown(password string) {
	unknownHashOnce.Do(func() {
		unknownHash, _ = argon2id.DefaultHashPassword("unknown account")
	})

	_ = argon2id.Compare(unknownHash, password)
}

// Authenticate returns the account that owns the credentials
func (s *Accounts) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	const query = `
SELECT ` + accountColumns + `, password_hash
FROM players
WHERE lower(email) = lower($1)`

	var hash string
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)), &hash)
	if errors.Is(err, sql.ErrNoRows) {
		compareUnknown(password)
		return nil, ErrBadCredentials
	} else if err != nil {
		return nil, err
	}

	if err := argon2id.Compare(hash, password); err != nil {
		return nil, ErrBadCredentials
	}

	if account.Blocked() {
		return nil, ErrAccountBlocked
	}

	return account, nil
}

// Get returns the account. A missing account is sql.ErrNoRows
func (s *Accounts) Get(ctx context.Context, id int64) (*Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM players
WHERE id = $1`

	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// List returns a page of accounts, oldest first
func (s *Accounts) List(ctx context.Context, offset int64, limit int) ([]*Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM players
ORDER BY id
OFFSET $1
LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// LastSignupFrom returns when the address last opened an account, zero if it never did
func (s *Accounts) LastSignupFrom(ctx context.Context, remoteAddr string) (time.Time, error) {
	const query = `
SELECT MAX(created)
FROM players
WHERE remote_addr = $1`

	var created sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, remoteAddr).Scan(&created); err != nil {
		return time.Time{}, err
	}

	return created.Time, nil
}

// Promote makes the account a site admin
func (s *Accounts) Promote(ctx context.Context, id int64) error {
	const query = `
UPDATE players
SET is_site_admin = TRUE, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
