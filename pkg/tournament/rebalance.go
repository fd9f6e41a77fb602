package tournament

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/store"
)

// Move is a player changing tables with their exact stack
type Move struct {
	PlayerID    string `json:"playerId"`
	FromTableID string `json:"fromTableId"`
	ToTableID   string `json:"toTableId"`
	Chips       int    `json:"chips"`
}

// Rebalance stands busted players up, breaks a table whose players fit at
// the others, and evens out a table that fell under the minimum occupancy.
// Only tables between hands give up players. A player is always removed
// from one table before being seated at another.
func (d *Director) Rebalance(ctx context.Context, tournamentID string) ([]Move, error) {
	state, err := d.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	if state.Status != StatusActive {
		return nil, nil
	}

	if err := d.seatStragglers(ctx, state); err != nil {
		return nil, err
	}

	if err := d.clearTables(ctx, tournamentID); err != nil {
		return nil, err
	}

	var moves []Move
	for range state.Players {
		if state, err = d.load(ctx, tournamentID); err != nil {
			return moves, err
		}

		tables, err := d.openTables(ctx, state)
		if err != nil {
			return moves, err
		}

		move, ok := planMove(state.Config, tables)
		if !ok {
			break
		}

		if err := d.movePlayer(ctx, tournamentID, move); err != nil {
			return moves, err
		}

		d.log.WithFields(logrus.Fields{
			"tournamentId": tournamentID,
			"playerId":     move.PlayerID,
			"from":         move.FromTableID,
			"to":           move.ToTableID,
			"chips":        move.Chips,
		}).Info("moved player")

		moves = append(moves, move)
	}

	// the source of the last move may be empty now
	if len(moves) > 0 {
		if err := d.clearTables(ctx, tournamentID); err != nil {
			return moves, err
		}
	}

	return moves, nil
}

func (d *Director) openTables(ctx context.Context, state *State) ([]*holdem.GameState, error) {
	ids := state.OpenTableIDs()
	tables := make([]*holdem.GameState, 0, len(ids))
	for _, id := range ids {
		table, err := store.GetTable(ctx, d.store, id)
		if err != nil {
			return nil, err
		}

		tables = append(tables, table)
	}

	return tables, nil
}

// clearTables stands up players the roster has placed and closes empty tables
func (d *Director) clearTables(ctx context.Context, tournamentID string) error {
	state, err := d.load(ctx, tournamentID)
	if err != nil {
		return err
	}

	var empty []string
	for _, id := range state.OpenTableIDs() {
		table, err := d.updateTable(ctx, id, func(table *holdem.GameState) (*holdem.GameState, error) {
			if table.HandInProgress() {
				return nil, nil
			}

			next := table
			for _, p := range table.Players {
				if e := state.Entrant(p.ID); e != nil && !e.Eliminated {
					continue
				}

				var err error
				if next, _, err = d.engine.RemovePlayer(next, p.ID); err != nil {
					return nil, err
				}
			}

			return next, nil
		})
		if err != nil {
			return err
		}

		if len(table.Players) == 0 {
			empty = append(empty, id)
		}
	}

	if len(empty) == 0 {
		return nil
	}

	_, err = d.update(ctx, tournamentID, func(state *State) error {
		for _, id := range empty {
			state.closeTable(id)
		}

		return nil
	})
	if err != nil {
		return err
	}

	d.log.WithField("tournamentId", tournamentID).WithField("tables", empty).Info("closed tables")
	return nil
}

// freeSeats returns the open seats of a table that still has a contender.
// A finished table with a lone survivor counts, seating a player there resumes it.
func freeSeats(table *holdem.GameState) int {
	if len(table.Contenders()) == 0 {
		return 0
	}

	return table.Config.MaxSeats - len(table.Players)
}

// planMove picks the next player to move, if any
func planMove(cfg Config, tables []*holdem.GameState) (Move, bool) {
	if len(tables) < 2 {
		return Move{}, false
	}

	sorted := append([]*holdem.GameState(nil), tables...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := len(sorted[i].Contenders()), len(sorted[j].Contenders())
		if a != b {
			return a < b
		}

		if len(sorted[i].Players) != len(sorted[j].Players) {
			return len(sorted[i].Players) < len(sorted[j].Players)
		}

		return sorted[i].TableID < sorted[j].TableID
	})

	// break the shortest table that can be broken
	for _, source := range sorted {
		contenders := source.Contenders()
		if source.HandInProgress() || len(contenders) == 0 {
			continue
		}

		seats := 0
		for _, other := range sorted {
			if other != source {
				seats += freeSeats(other)
			}
		}

		if seats < len(contenders) {
			continue
		}

		if dest := destination(sorted, source); dest != nil {
			return newMove(contenders[0], source, dest), true
		}
	}

	// otherwise bring a short table up from the largest one
	short := sorted[0]
	shortCount := len(short.Contenders())
	if shortCount >= cfg.MinTableOccupancy || freeSeats(short) == 0 {
		return Move{}, false
	}

	for i := len(sorted) - 1; i > 0; i-- {
		source := sorted[i]
		contenders := source.Contenders()
		if source.HandInProgress() || len(contenders) < shortCount+2 {
			continue
		}

		// the last seat moves, never the button
		for j := len(contenders) - 1; j >= 0; j-- {
			if contenders[j].Seat != source.DealerPosition {
				return newMove(contenders[j], source, short), true
			}
		}
	}

	return Move{}, false
}

// destination returns the table with the fewest players that has a free seat
func destination(tables []*holdem.GameState, exclude *holdem.GameState) *holdem.GameState {
	var dest *holdem.GameState
	for _, table := range tables {
		if table == exclude || freeSeats(table) == 0 {
			continue
		}

		if dest == nil || len(table.Players) < len(dest.Players) {
			dest = table
		}
	}

	return dest
}

func newMove(p *holdem.Player, from, to *holdem.GameState) Move {
	return Move{
		PlayerID:    p.ID,
		FromTableID: from.TableID,
		ToTableID:   to.TableID,
		Chips:       p.Chips,
	}
}

// movePlayer marks the player as moving in the roster, stands them up and
// seats them at the destination. seatStragglers finishes a move that fails
// part way.
func (d *Director) movePlayer(ctx context.Context, tournamentID string, move Move) error {
	_, err := d.update(ctx, tournamentID, func(state *State) error {
		e := state.Entrant(move.PlayerID)
		if e == nil {
			return ErrNotRegistered
		}

		e.TableID = ""
		e.Seat = holdem.NoSeat
		e.Chips = move.Chips
		return nil
	})
	if err != nil {
		return err
	}

	var removed holdem.Player
	_, err = d.updateTable(ctx, move.FromTableID, func(table *holdem.GameState) (*holdem.GameState, error) {
		next, p, err := d.engine.RemovePlayer(table, move.PlayerID)
		removed = p
		return next, err
	})
	if err != nil {
		return err
	}

	return d.seat(ctx, tournamentID, removed, move.ToTableID)
}

// seat puts a standing player at the table and records it in the roster
func (d *Director) seat(ctx context.Context, tournamentID string, p holdem.Player, tableID string) error {
	table, err := d.updateTable(ctx, tableID, func(table *holdem.GameState) (*holdem.GameState, error) {
		next, err := d.engine.SeatPlayer(table, p.ID, p.Name, p.Chips)
		if err != nil {
			return nil, err
		}

		next.PlayerByID(p.ID).ConsecutiveTimeouts = p.ConsecutiveTimeouts
		return next, nil
	})
	if err != nil {
		return err
	}

	seated := table.PlayerByID(p.ID)
	_, err = d.update(ctx, tournamentID, func(state *State) error {
		e := state.Entrant(p.ID)
		if e == nil {
			return ErrNotRegistered
		}

		e.TableID = tableID
		e.Seat = seated.Seat
		e.Chips = seated.Chips
		return nil
	})

	return err
}

// seatStragglers finds a seat for anyone still in the tournament who is not at a table
func (d *Director) seatStragglers(ctx context.Context, state *State) error {
	var stragglers []*Entrant
	for _, e := range state.Players {
		if !e.Eliminated && e.TableID == "" {
			stragglers = append(stragglers, e)
		}
	}

	if len(stragglers) == 0 {
		return nil
	}

	tables, err := d.openTables(ctx, state)
	if err != nil {
		return err
	}

	for _, e := range stragglers {
		logger := d.log.WithFields(logrus.Fields{
			"tournamentId": state.ID,
			"playerId":     e.ID,
		})

		if table := findPlayer(tables, e.ID); table != nil {
			if _, err := d.SyncTable(ctx, state.ID, table); err != nil {
				return err
			}

			continue
		}

		dest := destination(tables, nil)
		if dest == nil || e.Chips <= 0 {
			logger.WithField("chips", e.Chips).Warn("cannot seat player")
			continue
		}

		p := holdem.Player{ID: e.ID, Name: e.Name, Chips: e.Chips, ConsecutiveTimeouts: e.ConsecutiveTimeouts}
		if err := d.seat(ctx, state.ID, p, dest.TableID); err != nil {
			return err
		}

		logger.WithField("tableId", dest.TableID).Info("seated player")
		if tables, err = d.openTables(ctx, state); err != nil {
			return err
		}
	}

	return nil
}

func findPlayer(tables []*holdem.GameState, playerID string) *holdem.GameState {
	for _, table := range tables {
		if table.PlayerByID(playerID) != nil {
			return table
		}
	}

	return nil
}
