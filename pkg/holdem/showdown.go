package holdem

import (
	"dealmein-server/pkg/deck"
	"dealmein-server/pkg/poker"
)

// showdown ranks every live hand and awards each pot independently
func (e *Engine) showdown(s *GameState) {
	s.BettingRound = RoundShowdown
	s.ActivePlayerPosition = NoSeat
	s.SidePots = s.computeSidePots()

	ranks := make(map[string]poker.HandRank)
	for _, p := range s.Players {
		if !p.live() {
			continue
		}

		cards := make([]deck.Card, 0, len(p.HoleCards)+len(s.CommunityCards))
		cards = append(cards, p.HoleCards...)
		cards = append(cards, s.CommunityCards...)
		ranks[p.ID] = poker.NewHandAnalyzer(cards).GetRank()
		p.Revealed = true
	}

	// odd chips are paid starting left of the button
	order := s.orderFrom(s.DealerPosition, (*Player).live)

	s.Results = make([]PotResult, 0, len(s.SidePots))
	for _, pot := range s.SidePots {
		eligible := make(map[string]bool, len(pot.Eligible))
		for _, id := range pot.Eligible {
			eligible[id] = true
		}

		var best poker.HandRank
		var winners []*Player
		for _, p := range order {
			if !eligible[p.ID] {
				continue
			}

			rank := ranks[p.ID]
			switch {
			case winners == nil || rank.Compare(best) > 0:
				best = rank
				winners = []*Player{p}
			case rank.Compare(best) == 0:
				winners = append(winners, p)
			}
		}

		s.Results = append(s.Results, s.award(pot, winners, best.Describe()))
	}

	e.finishHand(s)
}

// endUncontested gives the whole pot to the last player who did not fold
func (e *Engine) endUncontested(s *GameState) {
	s.returnUncalled()
	s.BettingRound = RoundShowdown
	s.ActivePlayerPosition = NoSeat

	var winner *Player
	for _, p := range s.Players {
		if p.live() {
			winner = p
			break
		}
	}

	if winner == nil {
		// the clock folded everyone at once, the hand is void
		for _, p := range s.Players {
			p.Chips += p.Committed
			p.Committed = 0
		}
		s.Pot = 0
		s.SidePots = nil
		s.Results = []PotResult{}
		e.finishHand(s)
		return
	}

	pot := SidePot{Amount: s.Pot, Eligible: []string{winner.ID}}
	s.SidePots = []SidePot{pot}
	s.Results = []PotResult{s.award(pot, []*Player{winner}, "")}

	e.finishHand(s)
}

// award pays a pot to its winners and returns the record of it
func (s *GameState) award(pot SidePot, winners []*Player, hand string) PotResult {
	result := PotResult{
		Amount:   pot.Amount,
		Eligible: append([]string(nil), pot.Eligible...),
		Winners:  make([]string, len(winners)),
		Hand:     hand,
	}

	for i, w := range winners {
		result.Winners[i] = w.ID
	}

	if len(winners) == 0 {
		return result
	}

	result.Payouts = splitPot(pot.Amount, winners)
	for _, payout := range result.Payouts {
		s.PlayerByID(payout.PlayerID).Chips += payout.Amount
	}

	return result
}

// finishHand marks busted players and ends the table when one contender is left
func (e *Engine) finishHand(s *GameState) {
	now := e.now()
	s.HandEndedAt = now
	s.LastUpdate = now

	for _, p := range s.Players {
		if p.InHand && p.Chips == 0 {
			p.Eliminated = true
		}
	}

	if len(s.Contenders()) < 2 {
		s.Status = StatusFinished
	}
}
