package holdem

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/deck"
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

func newTestEngine() (*Engine, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)}
	return NewEngine(rng.NewSeeded(1), clock.Now), clock
}

func testConfig() TableConfig {
	return TableConfig{
		MaxSeats:      9,
		StartingStack: 1000,
		BlindSchedule: BlindSchedule{
			Levels: []BlindLevel{
				{SmallBlind: 10, BigBlind: 20},
				{SmallBlind: 20, BigBlind: 40},
				{SmallBlind: 50, BigBlind: 100},
			},
			Interval: 10 * time.Minute,
		},
		ActionTimeout: 20 * time.Second,
	}
}

// newTestTable seats p1..pN in seats 0..N-1 with the given stacks
func newTestTable(t *testing.T, e *Engine, stacks ...int) *GameState {
	t.Helper()

	s, err := e.NewTable("table-1", "tournament-1", testConfig())
	require.NoError(t, err)

	for i, stack := range stacks {
		id := fmt.Sprintf("p%d", i+1)
		s, err = e.AddPlayer(s, id, "Player "+id, i)
		require.NoError(t, err)
		s.PlayerByID(id).Chips = stack
	}

	return s
}

// rig replaces the hole cards and the undealt deck
func rig(s *GameState, holeCards map[string]string, deckCards string) {
	for id, cards := range holeCards {
		s.PlayerByID(id).HoleCards = deck.CardsFromString(cards)
	}

	s.Deck = &deck.Deck{Cards: deck.CardsFromString(deckCards)}
}

// playPassive checks or calls for whoever is on the clock until the hand is over
func playPassive(t *testing.T, e *Engine, s *GameState) *GameState {
	t.Helper()

	for i := 0; s.HandInProgress(); i++ {
		require.Less(t, i, 100, "hand did not finish")

		p := s.ActivePlayer()
		require.NotNil(t, p)

		action := Check
		if LegalActions(s, p.ID).Allows(Call) {
			action = Call
		}

		var err error
		s, err = e.Act(s, p.ID, action, 0)
		require.NoError(t, err)
	}

	return s
}

func committed(s *GameState) int {
	total := 0
	for _, p := range s.Players {
		total += p.Committed
	}

	return total
}

func sidePotTotal(s *GameState) int {
	total := 0
	for _, pot := range s.SidePots {
		total += pot.Amount
	}

	return total
}
