package room

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
	"dealmein-server/pkg/tournament"
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

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDirector() (*tournament.Director, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)}
	engine := holdem.NewEngine(rng.NewSeeded(1), clock.Now)
	return tournament.NewDirector(store.NewMemory(), engine, rng.NewSeeded(2), quietLogger()), clock
}

func testConfig() tournament.Config {
	return tournament.Config{
		Name:      "Pit Boss Freeroll",
		CreatorID: "director",
		BlindSchedule: holdem.BlindSchedule{
			Levels:   []holdem.BlindLevel{{SmallBlind: 10, BigBlind: 20}},
			Interval: 10 * time.Minute,
		},
		StartingStack: 1000,
		ActionTimeout: 20 * time.Second,
		MaxPlayers:    9,
	}
}

// startTournament registers n players and returns the started tournament and its first table
func startTournament(t *testing.T, d *tournament.Director, n int) (*tournament.State, string) {
	t.Helper()
	ctx := context.Background()

	state, err := d.CreateTournament(ctx, testConfig())
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := d.RegisterPlayer(ctx, state.ID, id, "Player "+id)
		require.NoError(t, err)
	}

	tableIDs, err := d.StartTournament(ctx, state.ID, "director")
	require.NoError(t, err)
	require.NotEmpty(t, tableIDs)

	state, err = d.GetTournament(ctx, state.ID)
	require.NoError(t, err)
	return state, tableIDs[0]
}
