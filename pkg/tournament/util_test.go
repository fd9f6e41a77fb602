package tournament

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() Config {
	return Config{
		Name:               "Monday Night Freeroll",
		CreatorID:          "director",
		StartTime:          time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC),
		RegistrationCutoff: 15 * time.Minute,
		BlindSchedule: holdem.BlindSchedule{
			Levels: []holdem.BlindLevel{
				{SmallBlind: 10, BigBlind: 20},
				{SmallBlind: 20, BigBlind: 40},
			},
			Interval: 10 * time.Minute,
		},
		StartingStack: 1000,
		ActionTimeout: 20 * time.Second,
		MaxPlayers:    30,
	}
}

func newTestDirector() (*Director, *store.Memory, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mem := store.NewMemory()
	engine := holdem.NewEngine(rng.NewSeeded(1), clock.Now)
	return NewDirector(mem, engine, rng.NewSeeded(2), logger), mem, clock
}

// newRunningTournament registers n players and starts the tournament
func newRunningTournament(t *testing.T, d *Director, cfg Config, n int) *State {
	t.Helper()
	ctx := context.Background()

	state, err := d.CreateTournament(ctx, cfg)
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := d.RegisterPlayer(ctx, state.ID, id, "Player "+id)
		require.NoError(t, err)
	}

	_, err = d.StartTournament(ctx, state.ID, cfg.CreatorID)
	require.NoError(t, err)

	state, err = d.GetTournament(ctx, state.ID)
	require.NoError(t, err)
	return state
}

// editTable loads a stored table, applies fn and stores it
func editTable(t *testing.T, d *Director, tableID string, fn func(*holdem.GameState)) *holdem.GameState {
	t.Helper()
	ctx := context.Background()

	table, err := store.GetTable(ctx, d.store, tableID)
	require.NoError(t, err)
	fn(table)
	require.NoError(t, store.UpdateTable(ctx, d.store, table))
	return table
}

// bust ends the hand at the table and knocks out the given players
func bust(table *holdem.GameState, ids ...string) {
	table.BettingRound = holdem.RoundShowdown
	table.ActivePlayerPosition = holdem.NoSeat
	for _, id := range ids {
		p := table.PlayerByID(id)
		p.Chips = 0
		p.InHand = true
		p.Eliminated = true
	}
}

func totalChips(t *testing.T, d *Director, state *State) int {
	t.Helper()

	tables, err := d.openTables(context.Background(), state)
	require.NoError(t, err)

	total := 0
	for _, table := range tables {
		total += table.TotalChips()
	}

	return total
}
