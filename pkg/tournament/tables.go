package tournament

import (
	"context"

	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/store"
)

// GetTable returns the stored table
func (d *Director) GetTable(ctx context.Context, tableID string) (*holdem.GameState, error) {
	return store.GetTable(ctx, d.store, tableID)
}

// TableView returns the table as the viewer may see it
func (d *Director) TableView(ctx context.Context, tableID, viewerID string) (*holdem.ClientState, error) {
	table, err := d.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	return holdem.ToClientState(table, viewerID), nil
}

// Act applies a player's action. When the action ends the hand the
// tournament roster is brought up to date.
func (d *Director) Act(ctx context.Context, tableID, playerID string, action holdem.Action, amount int) (*holdem.GameState, error) {
	table, err := d.updateTable(ctx, tableID, func(table *holdem.GameState) (*holdem.GameState, error) {
		return d.engine.Act(table, playerID, action, amount)
	})
	if err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{
		"tableId":  tableID,
		"playerId": playerID,
		"hand":     table.HandNumber,
	}).Debug(action.LogMessage(amount))

	// the action is stored, a failed sync is repaired by the next deadline pass
	if !table.HandInProgress() {
		if _, err := d.SyncTable(ctx, table.TournamentID, table); err != nil {
			d.log.WithError(err).WithField("tableId", tableID).Warn("could not sync table")
		}
	}

	return table, nil
}

// ConfirmDealIn records a player's Deal Me In for the current hand
func (d *Director) ConfirmDealIn(ctx context.Context, tableID, playerID string) (*holdem.GameState, error) {
	return d.updateTable(ctx, tableID, func(table *holdem.GameState) (*holdem.GameState, error) {
		return d.engine.ConfirmDealIn(table, playerID)
	})
}

// SyncTable records a table's eliminations and disqualifications in the
// roster and places the players
func (d *Director) SyncTable(ctx context.Context, tournamentID string, table *holdem.GameState) (*State, error) {
	var placed []string
	state, err := d.update(ctx, tournamentID, func(state *State) error {
		placed = nil
		if state.Status != StatusActive {
			return errUnchanged
		}

		ids, changed, err := state.RecordTable(table, d.engine.Now())
		if err != nil {
			return err
		}

		if !changed {
			return errUnchanged
		}

		placed = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range placed {
		e := state.Entrant(id)
		d.log.WithFields(logrus.Fields{
			"tournamentId": tournamentID,
			"playerId":     id,
			"place":        e.Place,
			"disqualified": e.Disqualified,
		}).Info("player is out")
	}

	if state.Status == StatusFinished && len(placed) > 0 {
		d.log.WithField("tournamentId", tournamentID).Info("tournament finished")
	}

	return state, nil
}
