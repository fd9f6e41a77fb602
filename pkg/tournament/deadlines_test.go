package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealmein-server/pkg/holdem"
)

func TestDirector_EnforceDeadlines(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	d, _, clock := newTestDirector()

	state := newRunningTournament(t, d, testConfig(), 2)
	tableID := state.TableIDs[0]

	report, err := d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Empty(report.Events)
	a.Empty(report.HandsStarted)
	a.Equal(StatusActive, report.Status)

	table, err := d.GetTable(ctx, tableID)
	require.NoError(t, err)
	dealer := table.PlayerAtSeat(table.DealerPosition)
	version := table.Version

	clock.Advance(state.Config.ActionTimeout)
	report, err = d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Equal([]holdem.ClockEvent{{PlayerID: dealer.ID, Kind: holdem.ClockActionTimeout, Action: holdem.Fold}}, report.Events[tableID])
	a.Empty(report.HandsStarted)

	table, err = d.GetTable(ctx, tableID)
	require.NoError(t, err)
	a.Equal(holdem.RoundShowdown, table.BettingRound)
	a.Equal(version+1, table.Version)

	// running it again changes nothing
	report, err = d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Empty(report.Events)
	a.Empty(report.HandsStarted)

	again, err := d.GetTable(ctx, tableID)
	require.NoError(t, err)
	a.Equal(table.Version, again.Version)

	state, err = d.GetTournament(ctx, state.ID)
	require.NoError(t, err)
	a.Equal(1, state.Entrant(dealer.ID).ConsecutiveTimeouts)
	a.Equal(990, state.Entrant(dealer.ID).Chips)

	clock.Advance(state.Config.NextHandDelay)
	report, err = d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Equal([]string{tableID}, report.HandsStarted)

	table, err = d.GetTable(ctx, tableID)
	require.NoError(t, err)
	a.Equal(2, table.HandNumber)
	a.True(table.HandInProgress())
}

func TestDirector_EnforceDeadlines_disqualifiesAndFinishes(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	d, _, clock := newTestDirector()

	cfg := testConfig()
	state := newRunningTournament(t, d, cfg, 2)
	tableID := state.TableIDs[0]

	var quitter string
	for hand := 1; hand <= 3; hand++ {
		table, err := d.GetTable(ctx, tableID)
		require.NoError(t, err)
		require.Equal(t, hand, table.HandNumber)

		// the same player never shows up, the other keeps confirming
		if quitter == "" {
			quitter = table.Players[0].ID
		}

		for _, p := range table.Players {
			if p.ID != quitter {
				_, err := d.ConfirmDealIn(ctx, tableID, p.ID)
				require.NoError(t, err)
			}
		}

		clock.Advance(holdem.DefaultDealInGrace)
		report, err := d.EnforceDeadlines(ctx, state.ID)
		require.NoError(t, err)
		require.NotEmpty(t, report.Events[tableID])

		if hand < 3 {
			clock.Advance(cfg.NextHandDelay + DefaultNextHandDelay)
			report, err = d.EnforceDeadlines(ctx, state.ID)
			require.NoError(t, err)
			require.Equal(t, []string{tableID}, report.HandsStarted)
			continue
		}

		a.Equal([]string{quitter}, report.Placed)
		a.Equal(StatusFinished, report.Status)
	}

	state, err := d.GetTournament(ctx, state.ID)
	require.NoError(t, err)
	a.Equal(StatusFinished, state.Status)
	a.True(state.Entrant(quitter).Disqualified)
	a.Equal(2, state.Entrant(quitter).Place)

	for _, e := range state.Players {
		if e.ID != quitter {
			a.Equal(1, e.Place)
		}
	}

	// a finished tournament is left alone
	report, err := d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Equal(StatusFinished, report.Status)
	a.Empty(report.Events)
}

func TestDirector_EnforceDeadlines_mergesLoneSurvivors(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	d, _, clock := newTestDirector()

	cfg := testConfig()
	cfg.TableSize = 3
	state := newRunningTournament(t, d, cfg, 4)
	require.Len(t, state.TableIDs, 2)

	// both tables lose a player before the next pass
	survivors := make(map[string]bool)
	for _, id := range state.TableIDs {
		table := editTable(t, d, id, func(table *holdem.GameState) {
			require.Len(t, table.Players, 2)
			bust(table, table.Players[1].ID)
			winner := table.Players[0]
			winner.Chips = 2000
			winner.Bet = 0
			winner.Committed = 0
			table.Status = holdem.StatusFinished
			table.HandEndedAt = clock.Now()
		})
		survivors[table.Players[0].ID] = true
	}

	clock.Advance(state.Config.NextHandDelay)
	report, err := d.EnforceDeadlines(ctx, state.ID)
	require.NoError(t, err)
	a.Equal(StatusActive, report.Status)
	a.Len(report.Placed, 2)
	require.Len(t, report.Moves, 1)

	move := report.Moves[0]
	a.True(survivors[move.PlayerID])
	a.Equal(2000, move.Chips)
	a.Equal([]string{move.ToTableID}, report.HandsStarted)

	state, err = d.GetTournament(ctx, state.ID)
	require.NoError(t, err)
	a.Equal([]string{move.ToTableID}, state.OpenTableIDs())
	a.Equal([]string{move.FromTableID}, state.ClosedTableIDs)
	a.Len(state.Remaining(), 2)

	table, err := d.GetTable(ctx, move.ToTableID)
	require.NoError(t, err)
	a.Equal(holdem.StatusActive, table.Status)
	a.True(table.HandInProgress())
	for id := range survivors {
		if p := table.PlayerByID(id); a.NotNil(p, id) {
			a.True(p.InHand, id)
		}
	}
}
