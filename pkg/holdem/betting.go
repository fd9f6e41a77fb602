package holdem

import (
	"fmt"
)

// ActionSet is what a player may do when they are on the clock
type ActionSet struct {
	Actions    []Action `json:"actions"`
	CallAmount int      `json:"callAmount"`
	MinBet     int      `json:"minBet"`
	MinRaiseTo int      `json:"minRaiseTo"`
	MaxRaiseTo int      `json:"maxRaiseTo"`
}

// Allows returns true if the action is in the set
func (a *ActionSet) Allows(action Action) bool {
	if a == nil {
		return false
	}

	for _, act := range a.Actions {
		if act == action {
			return true
		}
	}

	return false
}

// LegalActions returns the actions available to the player, or nil if it is not their turn
func LegalActions(state *GameState, playerID string) *ActionSet {
	if !state.HandInProgress() {
		return nil
	}

	p := state.ActivePlayer()
	if p == nil || p.ID != playerID || !p.canAct() {
		return nil
	}

	return state.legalActions(p)
}

func (s *GameState) legalActions(p *Player) *ActionSet {
	toCall := s.CurrentBet - p.Bet
	if toCall < 0 {
		toCall = 0
	}

	stack := p.Bet + p.Chips
	set := &ActionSet{
		Actions:    []Action{Fold},
		CallAmount: minInt(toCall, p.Chips),
		MaxRaiseTo: stack,
	}

	if toCall == 0 {
		set.Actions = append(set.Actions, Check)
	} else {
		set.Actions = append(set.Actions, Call)
	}

	if s.CurrentBet == 0 {
		set.Actions = append(set.Actions, Bet)
		set.MinBet = minInt(s.BigBlind, stack)
	} else if p.Chips > toCall {
		set.Actions = append(set.Actions, Raise)
		set.MinRaiseTo = minInt(s.CurrentBet+s.MinRaise, stack)
	}

	set.Actions = append(set.Actions, AllIn)
	return set
}

// Act applies a voluntary action for the player on the clock.
// For bet and raise, amount is the total the player's bet for the round becomes.
func (e *Engine) Act(state *GameState, playerID string, action Action, amount int) (*GameState, error) {
	if !state.HandInProgress() {
		return nil, fmt.Errorf("%w: no hand in progress", ErrIllegalAction)
	}

	p := state.PlayerByID(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, ErrPlayerNotFound)
	}

	if p.Seat != state.ActivePlayerPosition {
		return nil, fmt.Errorf("%w: it is not your turn", ErrIllegalAction)
	}

	if err := state.validate(p, action, amount); err != nil {
		return nil, err
	}

	s := state.Clone()
	p = s.PlayerByID(playerID)
	p.DealtInConfirmed = true
	p.ConsecutiveTimeouts = 0

	s.apply(p, action, amount, false)
	e.advance(s, true)

	return s, nil
}

// validate checks the action against the player's legal action set
func (s *GameState) validate(p *Player, action Action, amount int) error {
	set := s.legalActions(p)
	if !set.Allows(action) {
		return fmt.Errorf("%w: cannot %s", ErrIllegalAction, action)
	}

	stack := p.Bet + p.Chips
	switch action {
	case Bet:
		if amount > stack {
			return fmt.Errorf("%w: bet of %d is more than your stack", ErrIllegalAction, amount)
		}

		if amount < set.MinBet {
			return fmt.Errorf("%w: minimum bet is %d", ErrIllegalAction, set.MinBet)
		}
	case Raise:
		if amount > stack {
			return fmt.Errorf("%w: raise to %d is more than your stack", ErrIllegalAction, amount)
		}

		if amount < set.MinRaiseTo || amount <= s.CurrentBet {
			return fmt.Errorf("%w: minimum raise is to %d", ErrIllegalAction, set.MinRaiseTo)
		}
	}

	return nil
}

// apply performs a validated action. Implicit actions come from the clock.
func (s *GameState) apply(p *Player, action Action, amount int, timedOut bool) {
	last := &LastAction{
		PlayerID: p.ID,
		Action:   action,
		TimedOut: timedOut,
	}

	switch action {
	case Fold:
		p.Folded = true
	case Check:
	case Call:
		s.putIn(p, s.CurrentBet)
		last.Amount = p.Bet
	case Bet, Raise:
		s.raiseTo(p, amount)
		last.Amount = p.Bet
	case AllIn:
		s.raiseTo(p, p.Bet+p.Chips)
		last.Amount = p.Bet
	}

	p.HasActed = true
	s.LastAction = last
}

// raiseTo puts chips in and, if the bet goes up, reopens the action
func (s *GameState) raiseTo(p *Player, to int) {
	s.putIn(p, to)
	if p.Bet <= s.CurrentBet {
		return
	}

	increase := p.Bet - s.CurrentBet
	if increase >= s.MinRaise {
		s.MinRaise = increase
	}

	s.CurrentBet = p.Bet
	s.LastAggressor = p.ID

	for _, other := range s.Players {
		if other != p && other.canAct() {
			other.HasActed = false
		}
	}
}

// needsAction returns true if the player still has a decision this round
func (s *GameState) needsAction(p *Player) bool {
	return p.canAct() && (!p.HasActed || p.Bet < s.CurrentBet)
}

// roundComplete returns true once no player has a decision left this round
func (s *GameState) roundComplete() bool {
	actors := make([]*Player, 0, len(s.Players))
	highest := 0
	for _, p := range s.Players {
		if !p.live() {
			continue
		}

		if p.AllIn && p.Bet > highest {
			highest = p.Bet
		}

		if p.canAct() {
			actors = append(actors, p)
		}
	}

	switch len(actors) {
	case 0:
		return true
	case 1:
		// everyone else is all-in, nothing left to decide once they are covered
		return actors[0].Bet >= highest
	}

	for _, p := range actors {
		if !p.HasActed || p.Bet != s.CurrentBet {
			return false
		}
	}

	return true
}

// liveCount returns the number of players contesting the pot
func (s *GameState) liveCount() int {
	n := 0
	for _, p := range s.Players {
		if p.live() {
			n++
		}
	}

	return n
}

// advance moves the hand forward: it ends the hand, closes the round and deals
// the next street, or passes the action on. When acted is false the player on
// the clock has not acted and keeps their turn if they still have a decision.
func (e *Engine) advance(s *GameState, acted bool) {
	now := e.now()
	s.LastUpdate = now

	if s.liveCount() <= 1 {
		e.endUncontested(s)
		return
	}

	from := s.ActivePlayerPosition
	closed := false
	for s.roundComplete() {
		s.returnUncalled()

		if s.BettingRound == RoundRiver {
			e.showdown(s)
			return
		}

		next, n := s.BettingRound.next()
		_, _ = s.Deck.Draw() // burn
		cards, err := s.Deck.DrawN(n)
		if err != nil {
			// a 52 card deck always covers ten players and a board
			panic(err)
		}

		s.CommunityCards = append(s.CommunityCards, cards...)
		s.BettingRound = next
		s.CurrentBet = 0
		s.MinRaise = s.BigBlind
		s.LastAggressor = ""
		for _, p := range s.Players {
			p.Bet = 0
			p.HasActed = false
		}

		from = s.DealerPosition
		closed = true
	}

	s.SidePots = s.computeSidePots()

	if p := s.ActivePlayer(); !acted && !closed && p != nil && s.needsAction(p) {
		return
	}

	next := s.nextSeat(from, s.needsAction)
	if next == nil {
		// unreachable while the round is open
		s.ActivePlayerPosition = NoSeat
		return
	}

	s.ActivePlayerPosition = next.Seat
	s.TurnStartedAt = now
}
