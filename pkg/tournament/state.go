package tournament

import (
	"fmt"
	"sort"
	"time"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/holdem"
)

// Status is the lifecycle of a tournament
type Status string

// Status constants
const (
	StatusRegistration Status = "registration"
	StatusActive       Status = "active"
	StatusFinished     Status = "finished"
)

// Entrant is a registered player.
// TableID is empty before the start, once out, or while the player is moving tables.
type Entrant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Registered   time.Time `json:"registered"`
	TableID      string    `json:"tableId"`
	Seat         int       `json:"seat"`
	Chips        int       `json:"chips"`
	Eliminated   bool      `json:"eliminated"`
	Disqualified bool      `json:"disqualified"`
	Place        int       `json:"place"`

	// ConsecutiveTimeouts follows a player to a new table
	ConsecutiveTimeouts int `json:"consecutiveTimeouts"`
}

// State is a tournament document
type State struct {
	ID               string     `json:"id"`
	Config           Config     `json:"config"`
	Status           Status     `json:"status"`
	Version          int64      `json:"version"`
	TableIDs         []string   `json:"tableIds"`
	ClosedTableIDs   []string   `json:"closedTableIds"`
	Players          []*Entrant `json:"players"`
	EliminationOrder []string   `json:"eliminationOrder"`
	Created          time.Time  `json:"created"`
	StartedAt        time.Time  `json:"startedAt"`
	FinishedAt       time.Time  `json:"finishedAt"`
}

// NewState returns a tournament open for registration
func NewState(id string, cfg Config, now time.Time) (*State, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &State{
		ID:               id,
		Config:           cfg,
		Status:           StatusRegistration,
		TableIDs:         []string{},
		ClosedTableIDs:   []string{},
		Players:          []*Entrant{},
		EliminationOrder: []string{},
		Created:          now,
	}, nil
}

// Entrant returns the registered player or nil
func (s *State) Entrant(id string) *Entrant {
	for _, e := range s.Players {
		if e.ID == id {
			return e
		}
	}

	return nil
}

// RegistrationOpen returns true if players may still join
func (s *State) RegistrationOpen(now time.Time) bool {
	if s.Status != StatusRegistration {
		return false
	}

	deadline, ok := s.Config.RegistrationDeadline()
	return !ok || now.Before(deadline)
}

// Register adds a player to the roster
func (s *State) Register(playerID, name string, now time.Time) error {
	if s.Entrant(playerID) != nil {
		return ErrAlreadyRegistered
	}

	if !s.RegistrationOpen(now) {
		return ErrRegistrationClosed
	}

	if len(s.Players) >= s.Config.MaxPlayers {
		return ErrTournamentFull
	}

	s.Players = append(s.Players, &Entrant{
		ID:         playerID,
		Name:       name,
		Registered: now,
		Seat:       holdem.NoSeat,
	})

	return nil
}

// Unregister removes a player while registration is open
func (s *State) Unregister(playerID string, now time.Time) error {
	if !s.RegistrationOpen(now) {
		return ErrRegistrationClosed
	}

	for i, e := range s.Players {
		if e.ID == playerID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return nil
		}
	}

	return ErrNotRegistered
}

// OpenTableIDs returns the tables that have not been broken up
func (s *State) OpenTableIDs() []string {
	closed := make(map[string]bool, len(s.ClosedTableIDs))
	for _, id := range s.ClosedTableIDs {
		closed[id] = true
	}

	ids := make([]string, 0, len(s.TableIDs))
	for _, id := range s.TableIDs {
		if !closed[id] {
			ids = append(ids, id)
		}
	}

	return ids
}

func (s *State) closeTable(id string) {
	for _, closed := range s.ClosedTableIDs {
		if closed == id {
			return
		}
	}

	s.ClosedTableIDs = append(s.ClosedTableIDs, id)
}

// Remaining returns the players who have not been eliminated
func (s *State) Remaining() []*Entrant {
	remaining := make([]*Entrant, 0, len(s.Players))
	for _, e := range s.Players {
		if !e.Eliminated {
			remaining = append(remaining, e)
		}
	}

	return remaining
}

// TableSizes splits n players into the fewest tables of at most size players.
// Table sizes never differ by more than one.
func TableSizes(n, size int) []int {
	if n <= 0 || size <= 0 {
		return nil
	}

	tables := (n + size - 1) / size
	sizes := make([]int, tables)
	for i := range sizes {
		sizes[i] = n / tables
		if i < n%tables {
			sizes[i]++
		}
	}

	return sizes
}

// seating shuffles the roster and splits it into tables
func (s *State) seating(gen rng.Generator) [][]*Entrant {
	players := append([]*Entrant(nil), s.Players...)
	for i := len(players) - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}

	sizes := TableSizes(len(players), s.Config.TableSize)
	tables := make([][]*Entrant, len(sizes))
	for i, size := range sizes {
		tables[i] = players[:size]
		players = players[size:]
	}

	return tables
}

// RecordTable copies a table's stacks and seats into the roster and places
// anyone who busted or was disqualified. Players who went out in the same hand
// are placed by the chips they started the hand with, more chips places higher.
// It returns the ids of the players placed by this call and whether the
// roster changed at all.
func (s *State) RecordTable(table *holdem.GameState, now time.Time) ([]string, bool, error) {
	if table.TournamentID != s.ID {
		return nil, false, fmt.Errorf("table %s belongs to tournament %s", table.TableID, table.TournamentID)
	}

	changed := false
	var out []*holdem.Player
	for _, p := range table.Players {
		e := s.Entrant(p.ID)
		if e == nil || e.Eliminated {
			continue
		}

		before := *e
		e.TableID = table.TableID
		e.Seat = p.Seat
		e.Chips = p.Chips
		e.ConsecutiveTimeouts = p.ConsecutiveTimeouts
		if *e != before {
			changed = true
		}

		if p.Eliminated || p.Disqualified {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, changed, nil
	}

	// worst first, which is elimination order
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HandStartChips != out[j].HandStartChips {
			return out[i].HandStartChips < out[j].HandStartChips
		}

		return out[i].Seat < out[j].Seat
	})

	place := len(s.Remaining())
	ids := make([]string, len(out))
	for i, p := range out {
		e := s.Entrant(p.ID)
		e.Eliminated = true
		e.Disqualified = p.Disqualified
		e.Place = place
		e.TableID = ""
		e.Seat = holdem.NoSeat
		s.EliminationOrder = append(s.EliminationOrder, e.ID)
		ids[i] = e.ID
		place--
	}

	s.checkFinished(now)
	return ids, true, nil
}

// checkFinished ends the tournament once one player is left
func (s *State) checkFinished(now time.Time) {
	if s.Status != StatusActive {
		return
	}

	remaining := s.Remaining()
	if len(remaining) > 1 {
		return
	}

	if len(remaining) == 1 {
		remaining[0].Place = 1
	}

	s.Status = StatusFinished
	s.FinishedAt = now
}

// Standings returns the roster ordered for a leaderboard: players still in by
// chips, then everyone out by place
func (s *State) Standings() []Entrant {
	standings := make([]Entrant, len(s.Players))
	for i, e := range s.Players {
		standings[i] = *e
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		switch {
		case a.Place == 1 || b.Place == 1:
			return a.Place == 1 && b.Place != 1
		case a.Eliminated != b.Eliminated:
			return !a.Eliminated
		case a.Eliminated:
			return a.Place < b.Place
		case a.Chips != b.Chips:
			return a.Chips > b.Chips
		}

		return a.Name < b.Name
	})

	return standings
}
