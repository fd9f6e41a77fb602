package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/badoux/checkmail"
)

// MinPasswordLength is the shortest password an account may have
const MinPasswordLength = 6

// AccountStatus says whether an account may log in
type AccountStatus string

// account statuses
const (
	AccountActive  AccountStatus = "verified"
	AccountBlocked AccountStatus = "blocked"
)

// Account is a login that registers for tournaments.
// The display name is what other players see at the tables and on the leaderboard.
type Account struct {
	ID          int64         `json:"id"`
	Email       string        `json:"-"`
	DisplayName string        `json:"displayName"`
	IsSiteAdmin bool          `json:"isSiteAdmin"`
	Status      AccountStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// PlayerID is the id the account plays under in tournaments
func (a *Account) PlayerID() string {
	return strconv.FormatInt(a.ID, 10)
}

// Blocked returns true if the account may not log in or act
func (a *Account) Blocked() bool {
	return a.Status == AccountBlocked
}

var displayNameRx = regexp.MustCompile(`^[\p{L}\p{N} ]{1,40}\z`)

// Signup is a request to open an account
type Signup struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	RemoteAddr  string `json:"-"`
}

// Validate trims the email, collapses whitespace in the display name and
// checks every field
func (s *Signup) Validate() error {
	s.Email = strings.TrimSpace(s.Email)
	s.DisplayName = strings.Join(strings.Fields(s.DisplayName), " ")

	if err := checkmail.ValidateFormat(s.Email); err != nil {
		return ErrInvalidEmail
	}

	if s.DisplayName == "" {
		return ErrDisplayNameRequired
	}

	if !displayNameRx.MatchString(s.DisplayName) {
		return ErrInvalidDisplayName
	}

	if len(s.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}
