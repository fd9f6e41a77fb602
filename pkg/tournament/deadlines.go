package tournament

import (
	"context"

	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/holdem"
)

// Report is what a deadline pass did to a tournament
type Report struct {
	TournamentID string                          `json:"tournamentId"`
	Status       Status                          `json:"status"`
	Events       map[string][]holdem.ClockEvent `json:"events"`
	Placed       []string                        `json:"placed"`
	Moves        []Move                          `json:"moves"`
	HandsStarted []string                        `json:"handsStarted"`
}

// EnforceDeadlines is the periodic trigger for a tournament. It runs the
// action clock at every table, records who went out, rebalances, and deals
// the next hand where the last one has been shown long enough. Calling it
// again before any deadline passes changes nothing.
func (d *Director) EnforceDeadlines(ctx context.Context, tournamentID string) (*Report, error) {
	state, err := d.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TournamentID: tournamentID,
		Status:       state.Status,
		Events:       make(map[string][]holdem.ClockEvent),
	}

	if state.Status != StatusActive {
		return report, nil
	}

	tables := make([]*holdem.GameState, 0, len(state.TableIDs))
	for _, id := range state.OpenTableIDs() {
		var events []holdem.ClockEvent
		table, err := d.updateTable(ctx, id, func(table *holdem.GameState) (*holdem.GameState, error) {
			next, evts, err := d.engine.EnforceDeadlines(table, table.HandNumber)
			events = evts
			return next, err
		})
		if err != nil {
			return nil, err
		}

		if len(events) > 0 {
			report.Events[id] = events
			d.logEvents(table, events)
		}

		tables = append(tables, table)
	}

	out := len(state.EliminationOrder)
	for _, table := range tables {
		if state, err = d.SyncTable(ctx, tournamentID, table); err != nil {
			return nil, err
		}
	}

	if len(state.EliminationOrder) > out {
		report.Placed = append([]string(nil), state.EliminationOrder[out:]...)
	}

	report.Status = state.Status
	if state.Status != StatusActive {
		return report, nil
	}

	if report.Moves, err = d.Rebalance(ctx, tournamentID); err != nil {
		return nil, err
	}

	if state, err = d.load(ctx, tournamentID); err != nil {
		return nil, err
	}

	for _, id := range state.OpenTableIDs() {
		started := false
		_, err := d.updateTable(ctx, id, func(table *holdem.GameState) (*holdem.GameState, error) {
			started = false
			if !d.engine.NextHandDue(table) || len(table.Contenders()) < 2 {
				return nil, nil
			}

			started = true
			return d.engine.StartHand(table)
		})
		if err != nil {
			return nil, err
		}

		if started {
			report.HandsStarted = append(report.HandsStarted, id)
		}
	}

	report.Status = state.Status
	return report, nil
}

func (d *Director) logEvents(table *holdem.GameState, events []holdem.ClockEvent) {
	for _, event := range events {
		d.log.WithFields(logrus.Fields{
			"tableId":  table.TableID,
			"hand":     table.HandNumber,
			"playerId": event.PlayerID,
			"action":   event.Action,
		}).Info(string(event.Kind))
	}
}
