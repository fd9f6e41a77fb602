package holdem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EnforceDeadlines_actionTimeout(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000))
	require.NoError(t, err)

	// nothing is due yet
	same, events, err := e.EnforceDeadlines(s, s.HandNumber)
	a.NoError(err)
	a.Empty(events)
	a.Same(s, same)

	clock.Advance(s.Config.ActionTimeout)
	next, events, err := e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Equal([]ClockEvent{{PlayerID: "p1", Kind: ClockActionTimeout, Action: Fold}}, events)
	a.True(next.PlayerByID("p1").Folded)
	a.Equal(1, next.PlayerByID("p1").ConsecutiveTimeouts)
	a.Equal(RoundShowdown, next.BettingRound)
	a.True(next.LastAction.TimedOut)
	a.Equal(0, s.PlayerByID("p1").ConsecutiveTimeouts, "input must not be modified")

	again, events, err := e.EnforceDeadlines(next, next.HandNumber)
	a.NoError(err)
	a.Empty(events)
	a.Same(next, again)
}

func TestEngine_EnforceDeadlines_checksWhenNothingToCall(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000))
	require.NoError(t, err)
	s, err = e.Act(s, "p1", Call, 0)
	require.NoError(t, err)

	clock.Advance(s.Config.ActionTimeout + time.Second)
	s, events, err := e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Equal([]ClockEvent{{PlayerID: "p2", Kind: ClockActionTimeout, Action: Check}}, events)
	a.Equal(RoundFlop, s.BettingRound)
	a.False(s.PlayerByID("p2").Folded)
	a.Equal(1, s.ActivePlayerPosition)
	a.Equal(clock.Now(), s.TurnStartedAt, "the next turn starts when the clock acted")
}

func TestEngine_EnforceDeadlines_otherHand(t *testing.T) {
	e, clock := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	same, events, err := e.EnforceDeadlines(s, s.HandNumber-1)
	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.Same(t, s, same)

	waiting := newTestTable(t, e, 1000, 1000)
	same, events, err = e.EnforceDeadlines(waiting, 0)
	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.Same(t, waiting, same)
}

func TestEngine_EnforceDeadlines_dealIn(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s := newTestTable(t, e, 1000, 1000, 1000)
	s.Config.ActionTimeout = time.Minute

	s, err := e.StartGame(s)
	require.NoError(t, err)

	s, err = e.ConfirmDealIn(s, "p1")
	require.NoError(t, err)
	s, err = e.ConfirmDealIn(s, "p1")
	require.NoError(t, err, "confirming twice is harmless")

	clock.Advance(29 * time.Second)
	_, events, err := e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Empty(events)

	clock.Advance(time.Second)
	s, events, err = e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Equal([]ClockEvent{
		{PlayerID: "p2", Kind: ClockDealInTimeout, Action: Fold},
		{PlayerID: "p3", Kind: ClockDealInTimeout, Action: Fold},
	}, events)
	a.True(s.DealInProcessed)
	a.Equal(RoundShowdown, s.BettingRound)
	a.Equal([]string{"p1"}, s.Results[0].Winners)
	a.Equal(1, s.PlayerByID("p2").ConsecutiveTimeouts)
	a.Equal(0, s.PlayerByID("p1").ConsecutiveTimeouts)

	same, events, err := e.EnforceDeadlines(s, s.HandNumber)
	a.NoError(err)
	a.Empty(events)
	a.Same(s, same)
}

func TestEngine_EnforceDeadlines_disqualifiesOnThirdMiss(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s := newTestTable(t, e, 1000, 1000, 1000)
	s.Config.ActionTimeout = time.Minute

	s, err := e.StartGame(s)
	require.NoError(t, err)

	for hand := 1; hand <= 3; hand++ {
		s, err = e.ConfirmDealIn(s, "p1")
		require.NoError(t, err)
		s, err = e.ConfirmDealIn(s, "p2")
		require.NoError(t, err)

		clock.Advance(DefaultDealInGrace)
		var events []ClockEvent
		s, events, err = e.EnforceDeadlines(s, s.HandNumber)
		require.NoError(t, err)
		require.NotEmpty(t, events)

		p3 := s.PlayerByID("p3")
		a.Equal(hand, p3.ConsecutiveTimeouts)
		a.True(p3.Folded)

		if hand < 3 {
			a.False(p3.SitOut, "hand %d", hand)
		} else {
			a.True(p3.SitOut)
			a.True(p3.Disqualified)
			a.Equal(ClockDisqualified, events[len(events)-1].Kind)
		}

		s = playPassive(t, e, s)
		s, err = e.StartHand(s)
		require.NoError(t, err)
	}

	a.False(s.PlayerByID("p3").InHand, "disqualified players are not dealt in")
	a.Empty(s.PlayerByID("p3").HoleCards)
}

func TestEngine_EnforceDeadlines_twoMissesNeverDisqualify(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)
	s.PlayerByID("p1").ConsecutiveTimeouts = 1

	clock.Advance(s.Config.ActionTimeout)
	s, _, err = e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	p1 := s.PlayerByID("p1")
	a.Equal(2, p1.ConsecutiveTimeouts)
	a.False(p1.SitOut)
}

func TestEngine_ConfirmDealIn(t *testing.T) {
	e, _ := newTestEngine()

	s := newTestTable(t, e, 1000, 1000)
	_, err := e.ConfirmDealIn(s, "p1")
	assert.ErrorIs(t, err, ErrIllegalAction)

	s, err = e.StartGame(s)
	require.NoError(t, err)

	_, err = e.ConfirmDealIn(s, "nobody")
	assert.ErrorIs(t, err, ErrIllegalAction)

	next, err := e.ConfirmDealIn(s, "p2")
	require.NoError(t, err)
	assert.True(t, next.PlayerByID("p2").DealtInConfirmed)
	assert.False(t, s.PlayerByID("p2").DealtInConfirmed)
}

func TestEngine_NextHandDue(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s := newTestTable(t, e, 1000, 1000)
	s.Config.NextHandDelay = 5 * time.Second
	s, err := e.StartGame(s)
	require.NoError(t, err)
	a.False(e.NextHandDue(s))

	s, err = e.Act(s, "p1", Fold, 0)
	require.NoError(t, err)
	a.False(e.NextHandDue(s))

	clock.Advance(5 * time.Second)
	a.True(e.NextHandDue(s))
}

func TestEngine_EnforceDeadlines_dealInAfterActionTimeout(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine()

	s, err := e.StartGame(newTestTable(t, e, 1000, 1000, 1000))
	require.NoError(t, err)
	require.Less(t, s.Config.ActionTimeout, s.Config.DealInGrace)
	s, err = e.ConfirmDealIn(s, "p2")
	require.NoError(t, err)

	clock.Advance(s.Config.ActionTimeout)
	s, events, err := e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Equal([]ClockEvent{{PlayerID: "p1", Kind: ClockActionTimeout, Action: Fold}}, events)
	a.True(s.PlayerByID("p1").TimedOut)

	// p1 already missed their turn this hand
	clock.Advance(s.Config.DealInGrace - s.Config.ActionTimeout)
	s, events, err = e.EnforceDeadlines(s, s.HandNumber)
	require.NoError(t, err)
	a.Equal([]ClockEvent{{PlayerID: "p3", Kind: ClockDealInTimeout, Action: Fold}}, events)
	a.Equal(1, s.PlayerByID("p1").ConsecutiveTimeouts)
	a.Equal(0, s.PlayerByID("p2").ConsecutiveTimeouts)
	a.Equal(1, s.PlayerByID("p3").ConsecutiveTimeouts)
	a.Equal(RoundShowdown, s.BettingRound)

	s, err = e.StartHand(s)
	require.NoError(t, err)
	a.False(s.PlayerByID("p1").TimedOut)
	a.Equal(1, s.PlayerByID("p1").ConsecutiveTimeouts)
}
