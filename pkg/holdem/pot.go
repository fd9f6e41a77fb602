package holdem

import (
	"sort"
)

// returnUncalled gives back the part of the top bet nobody matched
func (s *GameState) returnUncalled() {
	var top *Player
	second := 0
	for _, p := range s.Players {
		if !p.InHand {
			continue
		}

		switch {
		case top == nil || p.Bet > top.Bet:
			if top != nil && top.Bet > second {
				second = top.Bet
			}
			top = p
		case p.Bet > second:
			second = p.Bet
		}
	}

	if top == nil || top.Bet <= second {
		return
	}

	excess := top.Bet - second
	top.Bet -= excess
	top.Committed -= excess
	top.Chips += excess
	top.AllIn = top.Chips == 0
	s.Pot -= excess

	if s.CurrentBet > top.Bet {
		s.CurrentBet = top.Bet
	}
}

// computeSidePots splits the chips committed this hand into tiers.
// A tier closes at every stake a live player is all-in for, and the eligible
// players of a tier are the live players who committed at least that much or
// can still put more in. Index 0 is the main pot.
func (s *GameState) computeSidePots() []SidePot {
	levelSet := make(map[int]bool)
	top := 0
	for _, p := range s.Players {
		if p.Committed > top {
			top = p.Committed
		}

		if p.live() && p.AllIn && p.Committed > 0 {
			levelSet[p.Committed] = true
		}
	}

	if top == 0 {
		return nil
	}
	levelSet[top] = true

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	pots := make([]SidePot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		amount := 0
		eligible := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			amount += minInt(p.Committed, level) - minInt(p.Committed, prev)
			if p.live() && (p.Committed >= level || !p.AllIn) {
				eligible = append(eligible, p.ID)
			}
		}
		prev = level

		if amount == 0 {
			continue
		}

		n := len(pots)
		switch {
		case n > 0 && (len(eligible) == 0 || sameIDs(pots[n-1].Eligible, eligible)):
			// dead money above every live stake belongs to the last pot
			pots[n-1].Amount += amount
		default:
			pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		}
	}

	return pots
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// splitPot divides amount between the winners, who must be in payout order.
// Odd chips go one at a time starting with the first winner.
func splitPot(amount int, winners []*Player) []Payout {
	payouts := make([]Payout, len(winners))
	share := amount / len(winners)
	remainder := amount % len(winners)
	for i, w := range winners {
		payouts[i] = Payout{PlayerID: w.ID, Amount: share}
		if i < remainder {
			payouts[i].Amount++
		}
	}

	return payouts
}
