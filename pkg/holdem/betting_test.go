package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealmein-server/internal/rng"
)

func TestEngine_Act_actionOrder(t *testing.T) {
	a := assert.New(t)
	e, _ := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)
	a.Equal(0, s.DealerPosition)
	a.Equal(1, s.SmallBlindPosition)
	a.Equal(2, s.BigBlindPosition)
	a.Equal(0, s.ActivePlayerPosition, "first to act is after the big blind")

	s, err = e.Act(s, "p1", Call, 0)
	require.NoError(t, err)
	a.Equal(1, s.ActivePlayerPosition)

	s, err = e.Act(s, "p2", Call, 0)
	require.NoError(t, err)
	a.Equal(2, s.ActivePlayerPosition)
	a.Equal(RoundPreflop, s.BettingRound)

	s, err = e.Act(s, "p3", Check, 0)
	require.NoError(t, err)
	a.Equal(RoundFlop, s.BettingRound)
	a.Equal(60, s.Pot)
	a.Equal(1, s.ActivePlayerPosition, "first live seat after the button")

	s, err = e.Act(s, "p2", Bet, 40)
	require.NoError(t, err)
	s, err = e.Act(s, "p3", Fold, 0)
	require.NoError(t, err)
	a.Equal(0, s.ActivePlayerPosition)
	a.Equal(RoundFlop, s.BettingRound)

	s, err = e.Act(s, "p1", Call, 0)
	require.NoError(t, err)
	a.Equal(RoundTurn, s.BettingRound)
	a.Equal(140, s.Pot)
	a.Equal(1, s.ActivePlayerPosition)
}

func TestEngine_Act_illegal(t *testing.T) {
	a := assert.New(t)
	e, _ := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)
	before := s.Clone()

	tests := []struct {
		name     string
		playerID string
		action   Action
		amount   int
	}{
		{"out of turn", "p2", Call, 0},
		{"unknown player", "p7", Fold, 0},
		{"check facing a bet", "p1", Check, 0},
		{"bet when there is a bet", "p1", Bet, 100},
		{"raise below the minimum", "p1", Raise, 30},
		{"raise above the stack", "p1", Raise, 5000},
		{"unknown action", "p1", Action("dance"), 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := e.Act(s, test.playerID, test.action, test.amount)
			assert.ErrorIs(t, err, ErrIllegalAction)
		})
	}

	a.Equal(before, s, "failed actions never modify state")
}

func TestEngine_Act_minRaise(t *testing.T) {
	a := assert.New(t)
	e, _ := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)

	set := LegalActions(s, "p1")
	require.NotNil(t, set)
	a.Equal([]Action{Fold, Call, Raise, AllIn}, set.Actions)
	a.Equal(20, set.CallAmount)
	a.Equal(40, set.MinRaiseTo)
	a.Equal(1000, set.MaxRaiseTo)
	a.Nil(LegalActions(s, "p2"), "not on the clock")

	s, err = e.Act(s, "p1", Raise, 60)
	require.NoError(t, err)
	a.Equal(60, s.CurrentBet)
	a.Equal(40, s.MinRaise)
	a.Equal("p1", s.LastAggressor)

	_, err = e.Act(s, "p2", Raise, 90)
	a.ErrorIs(err, ErrIllegalAction)

	s, err = e.Act(s, "p2", Raise, 100)
	require.NoError(t, err)
	s, err = e.Act(s, "p3", Fold, 0)
	require.NoError(t, err)
	a.Equal(RoundPreflop, s.BettingRound, "the raise reopened the action")

	s, err = e.Act(s, "p1", Call, 0)
	require.NoError(t, err)
	a.Equal(RoundFlop, s.BettingRound)
	a.Equal(220, s.Pot)
}

func TestEngine_Act_uncontested(t *testing.T) {
	a := assert.New(t)
	e, _ := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)

	s, err = e.Act(s, "p1", Fold, 0)
	require.NoError(t, err)
	s, err = e.Act(s, "p2", Fold, 0)
	require.NoError(t, err)

	a.Equal(RoundShowdown, s.BettingRound)
	a.Equal(NoSeat, s.ActivePlayerPosition)
	a.Equal(1000, s.PlayerByID("p1").Chips)
	a.Equal(990, s.PlayerByID("p2").Chips)
	a.Equal(1010, s.PlayerByID("p3").Chips)
	require.Len(t, s.Results, 1)
	a.Equal([]string{"p3"}, s.Results[0].Winners)
	a.Equal(20, s.Results[0].Amount, "the uncalled half of the big blind is returned")
	a.False(s.PlayerByID("p3").Revealed)
	a.Equal(3000, s.TotalChips())
}

func TestEngine_Act_resetsTimeouts(t *testing.T) {
	e, _ := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000))
	require.NoError(t, err)
	s.PlayerByID("p1").ConsecutiveTimeouts = 2

	s, err = e.Act(s, "p1", Call, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.PlayerByID("p1").ConsecutiveTimeouts)
	assert.True(t, s.PlayerByID("p1").DealtInConfirmed)
}

func TestEngine_randomPlayConservesChips(t *testing.T) {
	e, _ := newTestEngine()
	gen := rng.NewSeeded(99)

	s, err := e.StartGame(newTestTable(t, e, 1000, 1500, 500, 2000, 800))
	require.NoError(t, err)
	total := s.TotalChips()

	for hand := 0; hand < 300 && s.Status != StatusFinished; hand++ {
		for step := 0; s.HandInProgress(); step++ {
			require.Less(t, step, 200)

			require.Equal(t, total, s.TotalChips())
			require.Equal(t, committed(s), s.Pot)
			require.Equal(t, s.Pot, sidePotTotal(s))

			p := s.ActivePlayer()
			require.NotNil(t, p)
			require.True(t, p.canAct(), "active seat %d cannot act", s.ActivePlayerPosition)

			set := LegalActions(s, p.ID)
			require.NotNil(t, set)

			action := set.Actions[gen.Intn(len(set.Actions))]
			amount := 0
			switch action {
			case Bet:
				amount = set.MinBet
			case Raise:
				amount = set.MinRaiseTo + gen.Intn(set.MaxRaiseTo-set.MinRaiseTo+1)
			}

			s, err = e.Act(s, p.ID, action, amount)
			require.NoError(t, err)
		}

		require.Equal(t, RoundShowdown, s.BettingRound)
		require.Equal(t, total, s.TotalChips())

		paid, awarded := 0, 0
		for _, r := range s.Results {
			awarded += r.Amount
			for _, payout := range r.Payouts {
				paid += payout.Amount
			}
		}
		require.Equal(t, awarded, paid)
		require.Equal(t, s.Pot, awarded)

		for _, p := range s.Players {
			require.True(t, p.Chips >= 0)
			if p.Chips == 0 {
				require.True(t, p.Eliminated)
			}
		}

		if s.Status == StatusFinished {
			break
		}

		s, err = e.StartHand(s)
		require.NoError(t, err)
	}
}
