package holdem

import (
	"fmt"
	"time"
)

// MaxConsecutiveTimeouts is the number of missed deadlines that disqualifies a player
const MaxConsecutiveTimeouts = 3

// ClockEventKind describes what the clock did to a player
type ClockEventKind string

// clock events
const (
	ClockActionTimeout ClockEventKind = "action-timeout"
	ClockDealInTimeout ClockEventKind = "deal-in-timeout"
	ClockDisqualified  ClockEventKind = "disqualified"
)

// ClockEvent is a side effect of enforcing a deadline
type ClockEvent struct {
	PlayerID string         `json:"playerId"`
	Kind     ClockEventKind `json:"kind"`
	Action   Action         `json:"action,omitempty"`
}

// ConfirmDealIn records that the player pressed Deal Me In for the current hand
func (e *Engine) ConfirmDealIn(state *GameState, playerID string) (*GameState, error) {
	if !state.HandInProgress() {
		return nil, fmt.Errorf("%w: no hand in progress", ErrIllegalAction)
	}

	p := state.PlayerByID(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, ErrPlayerNotFound)
	}

	if !p.InHand {
		return nil, fmt.Errorf("%w: you are not dealt in", ErrIllegalAction)
	}

	s := state.Clone()
	s.PlayerByID(playerID).DealtInConfirmed = true
	s.LastUpdate = e.now()

	return s, nil
}

// TurnDeadline returns when the player on the clock times out
func (s *GameState) TurnDeadline() (time.Time, bool) {
	if !s.HandInProgress() || s.ActivePlayerPosition == NoSeat {
		return time.Time{}, false
	}

	return s.TurnStartedAt.Add(s.Config.ActionTimeout), true
}

// EnforceDeadlines processes the Deal Me In window and the action clock for the hand.
// It is a no-op for any other hand number or when no deadline has passed, so it
// can be invoked repeatedly. The returned events are empty when nothing changed.
func (e *Engine) EnforceDeadlines(state *GameState, handNumber int) (*GameState, []ClockEvent, error) {
	if state.HandNumber != handNumber || !state.HandInProgress() {
		return state, nil, nil
	}

	now := e.now()
	s := state.Clone()
	var events []ClockEvent

	if !s.DealInProcessed && !now.Before(s.DealInDeadline) {
		s.DealInProcessed = true

		folded := false
		for _, p := range s.Players {
			// a player the action clock already charged this hand is not charged again
			if !p.InHand || p.SitOut || p.DealtInConfirmed || p.TimedOut {
				continue
			}

			p.TimedOut = true
			p.ConsecutiveTimeouts++
			event := ClockEvent{PlayerID: p.ID, Kind: ClockDealInTimeout}
			if p.live() && !p.AllIn {
				p.Folded = true
				folded = true
				event.Action = Fold
			}
			events = append(events, event)

			if p.ConsecutiveTimeouts >= MaxConsecutiveTimeouts {
				events = append(events, s.disqualify(p))
			}
		}

		if folded {
			e.advance(s, false)
		}
	}

	if deadline, ok := s.TurnDeadline(); ok && !now.Before(deadline) {
		p := s.ActivePlayer()
		action := Fold
		if s.CurrentBet <= p.Bet {
			action = Check
		}

		s.apply(p, action, 0, true)
		p.TimedOut = true
		p.ConsecutiveTimeouts++
		events = append(events, ClockEvent{PlayerID: p.ID, Kind: ClockActionTimeout, Action: action})

		if p.ConsecutiveTimeouts >= MaxConsecutiveTimeouts {
			events = append(events, s.disqualify(p))
		}

		e.advance(s, true)
	}

	if len(events) == 0 {
		return state, nil, nil
	}

	s.LastUpdate = now
	return s, events, nil
}

// disqualify sits the player out for the rest of the tournament
func (s *GameState) disqualify(p *Player) ClockEvent {
	p.SitOut = true
	p.Disqualified = true
	if p.live() && !p.AllIn {
		p.Folded = true
	}

	return ClockEvent{PlayerID: p.ID, Kind: ClockDisqualified}
}

// NextHandDue returns true when a resolved hand has been shown long enough for
// the clock to deal the next one
func (e *Engine) NextHandDue(state *GameState) bool {
	if state.Status != StatusActive || state.BettingRound != RoundShowdown || state.Config.NextHandDelay <= 0 {
		return false
	}

	return !e.now().Before(state.HandEndedAt.Add(state.Config.NextHandDelay))
}
