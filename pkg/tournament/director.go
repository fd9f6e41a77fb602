package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/store"
)

// DefaultRetries is how many times a load-mutate-store cycle is attempted
const DefaultRetries = 5

// errUnchanged lets a mutation skip the write
var errUnchanged = errors.New("unchanged")

// Director runs tournaments on top of a document store.
// Every write is a compare-and-swap, lost races are retried from a fresh load.
type Director struct {
	store   store.Store
	engine  *holdem.Engine
	rng     rng.Generator
	log     logrus.FieldLogger
	retries int
}

// NewDirector returns a director. A nil generator uses crypto/rand
func NewDirector(s store.Store, engine *holdem.Engine, gen rng.Generator, logger logrus.FieldLogger) *Director {
	if gen == nil {
		gen = rng.Crypto{}
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Director{
		store:   s,
		engine:  engine,
		rng:     gen,
		log:     logger,
		retries: DefaultRetries,
	}
}

// Engine returns the table engine the director uses
func (d *Director) Engine() *holdem.Engine {
	return d.engine
}

// retry runs fn until it does not fail with a version conflict
func (d *Director) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= d.retries; attempt++ {
		if err = fn(); !errors.Is(err, store.ErrConflict) {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		d.log.WithError(err).WithField("attempt", attempt).Debug("retrying after conflict")
	}

	return err
}

func (d *Director) load(ctx context.Context, id string) (*State, error) {
	var state State
	version, err := store.Load(ctx, d.store, store.KindTournament, id, &state)
	if err != nil {
		return nil, err
	}

	state.Version = version
	return &state, nil
}

func (d *Director) save(ctx context.Context, state *State) error {
	return store.Save(ctx, d.store, store.KindTournament, state.ID, state.Config.CreatorID, &state.Version, state)
}

// update loads the tournament, applies mutate and stores it
func (d *Director) update(ctx context.Context, id string, mutate func(*State) error) (*State, error) {
	var state *State
	err := d.retry(ctx, func() error {
		var err error
		if state, err = d.load(ctx, id); err != nil {
			return err
		}

		if err := mutate(state); err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}

			return err
		}

		return d.save(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// updateTable loads the table, applies fn and stores the result.
// fn returns nil to leave the table untouched.
func (d *Director) updateTable(ctx context.Context, tableID string, fn func(*holdem.GameState) (*holdem.GameState, error)) (*holdem.GameState, error) {
	var result *holdem.GameState
	err := d.retry(ctx, func() error {
		table, err := store.GetTable(ctx, d.store, tableID)
		if err != nil {
			return err
		}

		next, err := fn(table)
		if err != nil {
			return err
		}

		if next == nil || next == table {
			result = table
			return nil
		}

		if err := store.UpdateTable(ctx, d.store, next); err != nil {
			return err
		}

		result = next
		return nil
	})

	return result, err
}

// CreateTournament stores a new tournament open for registration
func (d *Director) CreateTournament(ctx context.Context, cfg Config) (*State, error) {
	state, err := NewState(uuid.New().String(), cfg, d.engine.Now())
	if err != nil {
		return nil, err
	}

	if err := store.Insert(ctx, d.store, store.KindTournament, state.ID, cfg.CreatorID, &state.Version, state); err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{
		"tournamentId": state.ID,
		"creatorId":    cfg.CreatorID,
	}).Info("tournament created")

	return state, nil
}

// RegisterPlayer adds a player to the tournament roster
func (d *Director) RegisterPlayer(ctx context.Context, tournamentID, playerID, name string) (*State, error) {
	return d.update(ctx, tournamentID, func(state *State) error {
		return state.Register(playerID, name, d.engine.Now())
	})
}

// UnregisterPlayer takes a player off the roster before registration closes
func (d *Director) UnregisterPlayer(ctx context.Context, tournamentID, playerID string) (*State, error) {
	return d.update(ctx, tournamentID, func(state *State) error {
		return state.Unregister(playerID, d.engine.Now())
	})
}

// StartTournament seats the roster at balanced tables and deals the first
// hand at each. The tournament is marked active before any table is stored
// so that it can only be started once.
func (d *Director) StartTournament(ctx context.Context, tournamentID, requesterID string) ([]string, error) {
	var tables []*holdem.GameState
	state, err := d.update(ctx, tournamentID, func(state *State) error {
		if state.Config.CreatorID != requesterID {
			return ErrNotCreator
		}

		if state.Status != StatusRegistration {
			return fmt.Errorf("%w: tournament is %s", ErrRegistrationClosed, state.Status)
		}

		if len(state.Players) < 2 {
			return ErrNotEnoughPlayers
		}

		now := d.engine.Now()
		state.Status = StatusActive
		state.StartedAt = now
		state.TableIDs = make([]string, 0)

		var err error
		tables, err = d.seatTables(state)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, table := range tables {
		if err := store.CreateTable(ctx, d.store, table); err != nil {
			return nil, err
		}
	}

	d.log.WithFields(logrus.Fields{
		"tournamentId": state.ID,
		"players":      len(state.Players),
		"tables":       len(state.TableIDs),
	}).Info("tournament started")

	return state.TableIDs, nil
}

func (d *Director) seatTables(state *State) ([]*holdem.GameState, error) {
	seating := state.seating(d.rng)
	tables := make([]*holdem.GameState, 0, len(seating))
	for _, entrants := range seating {
		table, err := d.engine.NewTable(uuid.New().String(), state.ID, state.Config.TableConfig())
		if err != nil {
			return nil, err
		}

		for seat, e := range entrants {
			if table, err = d.engine.AddPlayer(table, e.ID, e.Name, seat); err != nil {
				return nil, err
			}

			e.TableID = table.TableID
			e.Seat = seat
			e.Chips = table.Config.StartingStack
		}

		// every table shares the tournament's blind clock
		table.StartedAt = state.StartedAt
		if table, err = d.engine.StartGame(table); err != nil {
			return nil, err
		}

		state.TableIDs = append(state.TableIDs, table.TableID)
		tables = append(tables, table)
	}

	return tables, nil
}

// ListTournaments returns every tournament, finished ones included
func (d *Director) ListTournaments(ctx context.Context) ([]*State, error) {
	records, err := d.store.List(ctx, store.KindTournament, "")
	if err != nil {
		return nil, err
	}

	states := make([]*State, 0, len(records))
	for _, rec := range records {
		var state State
		if err := json.Unmarshal(rec.Data, &state); err != nil {
			return nil, err
		}

		state.Version = rec.Version
		states = append(states, &state)
	}

	return states, nil
}

// GetTournament returns the tournament
func (d *Director) GetTournament(ctx context.Context, tournamentID string) (*State, error) {
	return d.load(ctx, tournamentID)
}

// GetTournamentPlayers returns the roster in registration order
func (d *Director) GetTournamentPlayers(ctx context.Context, tournamentID string) ([]*Entrant, error) {
	state, err := d.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	return state.Players, nil
}

// Leaderboard returns the roster ordered by standing
func (d *Director) Leaderboard(ctx context.Context, tournamentID string) ([]Entrant, error) {
	state, err := d.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	return state.Standings(), nil
}
