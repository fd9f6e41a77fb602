package poker

import (
	"errors"
	"fmt"
	"sort"

	"dealmein-server/pkg/deck"
)

// ErrInvalidHand is returned when the cards cannot be evaluated
var ErrInvalidHand = errors.New("invalid hand")

// min and max cards the analyzer accepts
const (
	MinCards = 5
	MaxCards = 7
)

// HandRank is a totally ordered hand value: a category and the
// tie-breaking ranks of the best five cards, most significant first
type HandRank struct {
	Hand    Hand  `json:"hand"`
	Kickers []int `json:"kickers"`
}

// Strength returns a single comparable integer for the rank.
// A higher strength always beats a lower one.
func (r HandRank) Strength() int {
	return calculateStrength(r.Hand, r.Kickers)
}

// Compare returns -1, 0 or 1 when r is worse, equal or better than other
func (r HandRank) Compare(other HandRank) int {
	a, b := r.Strength(), other.Strength()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Describe returns a human readable name, i.e., "Full house, kings full of tens"
func (r HandRank) Describe() string {
	k := r.Kickers
	switch r.Hand {
	case RoyalFlush:
		return "Royal flush"
	case StraightFlush:
		return fmt.Sprintf("Straight flush, %s high", rankName(k[0], false))
	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %s", rankName(k[0], true))
	case FullHouse:
		return fmt.Sprintf("Full house, %s full of %s", rankName(k[0], true), rankName(k[1], true))
	case Flush:
		return fmt.Sprintf("Flush, %s high", rankName(k[0], false))
	case Straight:
		return fmt.Sprintf("Straight, %s high", rankName(k[0], false))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %s", rankName(k[0], true))
	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s", rankName(k[0], true), rankName(k[1], true))
	case OnePair:
		return fmt.Sprintf("Pair of %s", rankName(k[0], true))
	default:
		return fmt.Sprintf("High card, %s", rankName(k[0], false))
	}
}

// HandAnalyzer can analyze a hand of five to seven cards
type HandAnalyzer struct {
	cards         []deck.Card
	flush         []int
	quads         []int
	trips         []int
	pairs         []int
	straightFlush int
	straight      int

	rank HandRank
}

// Evaluate validates the cards and returns their best five card rank
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) < MinCards || len(cards) > MaxCards {
		return HandRank{}, fmt.Errorf("%w: need %d to %d cards, got %d", ErrInvalidHand, MinCards, MaxCards, len(cards))
	}

	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return HandRank{}, fmt.Errorf("%w: bad card %v", ErrInvalidHand, c)
		}

		if seen[c] {
			return HandRank{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidHand, c)
		}
		seen[c] = true
	}

	return NewHandAnalyzer(cards).GetRank(), nil
}

// NewHandAnalyzer will return a new HandAnalyzer instance
// The caller is responsible for passing distinct, valid cards.
func NewHandAnalyzer(cards []deck.Card) *HandAnalyzer {
	// clone to prevent modifying original
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	h := &HandAnalyzer{cards: sorted}
	h.analyzeHand()
	h.calculateHand()
	return h
}

// analyzeHand groups the cards by rank and suit and finds straights
func (h *HandAnalyzer) analyzeHand() {
	suitRanks := make(map[deck.Suit][]int)
	present := make(map[int]bool)
	counts := make(map[int]int)

	for _, card := range h.cards {
		suitRanks[card.Suit] = append(suitRanks[card.Suit], card.Rank)
		present[card.Rank] = true
		counts[card.Rank]++
	}

	for _, suit := range deck.Suits {
		ranks := suitRanks[suit]
		if len(ranks) < 5 {
			continue
		}

		h.flush = ranks[0:5]

		inSuit := make(map[int]bool, len(ranks))
		for _, r := range ranks {
			inSuit[r] = true
		}
		h.straightFlush = highestStraight(inSuit)
	}

	h.straight = highestStraight(present)

	// cards are sorted descending so groups are found best first
	prevRank := 0
	for _, card := range h.cards {
		if card.Rank == prevRank {
			continue
		}
		prevRank = card.Rank

		switch counts[card.Rank] {
		case 4:
			h.quads = append(h.quads, card.Rank)
		case 3:
			h.trips = append(h.trips, card.Rank)
		case 2:
			h.pairs = append(h.pairs, card.Rank)
		}
	}
}

// highestStraight returns the top card of the best straight or 0.
// The wheel (A-2-3-4-5) is a five high straight.
func highestStraight(present map[int]bool) int {
	for high := deck.Ace; high >= 5; high-- {
		found := true
		for r := high; r > high-5; r-- {
			rank := r
			if rank == 1 {
				rank = deck.Ace
			}

			if !present[rank] {
				found = false
				break
			}
		}

		if found {
			return high
		}
	}

	return 0
}

// kickers returns up to n ranks in descending order, skipping the excluded ranks
func (h *HandAnalyzer) kickers(n int, exclude ...int) []int {
	hc := make([]int, 0, n)
	for _, card := range h.cards {
		if len(hc) == n {
			break
		}

		skip := false
		for _, e := range exclude {
			if card.Rank == e {
				skip = true
				break
			}
		}

		if !skip {
			hc = append(hc, card.Rank)
		}
	}

	return hc
}

// calculateHand will determine the best hand
// This must be called after analyzeHand() has been called
func (h *HandAnalyzer) calculateHand() {
	switch {
	case h.straightFlush == deck.Ace:
		h.rank = HandRank{Hand: RoyalFlush, Kickers: []int{deck.Ace}}
	case h.straightFlush > 0:
		h.rank = HandRank{Hand: StraightFlush, Kickers: []int{h.straightFlush}}
	case len(h.quads) > 0:
		q := h.quads[0]
		h.rank = HandRank{Hand: FourOfAKind, Kickers: append([]int{q}, h.kickers(1, q)...)}
	case len(h.trips) > 0 && (len(h.trips) > 1 || len(h.pairs) > 0):
		pair := 0
		if len(h.pairs) > 0 {
			pair = h.pairs[0]
		}
		if len(h.trips) > 1 && h.trips[1] > pair {
			pair = h.trips[1]
		}
		h.rank = HandRank{Hand: FullHouse, Kickers: []int{h.trips[0], pair}}
	case h.flush != nil:
		h.rank = HandRank{Hand: Flush, Kickers: append([]int{}, h.flush...)}
	case h.straight > 0:
		h.rank = HandRank{Hand: Straight, Kickers: []int{h.straight}}
	case len(h.trips) > 0:
		t := h.trips[0]
		h.rank = HandRank{Hand: ThreeOfAKind, Kickers: append([]int{t}, h.kickers(2, t)...)}
	case len(h.pairs) > 1:
		p1, p2 := h.pairs[0], h.pairs[1]
		h.rank = HandRank{Hand: TwoPair, Kickers: append([]int{p1, p2}, h.kickers(1, p1, p2)...)}
	case len(h.pairs) == 1:
		p := h.pairs[0]
		h.rank = HandRank{Hand: OnePair, Kickers: append([]int{p}, h.kickers(3, p)...)}
	default:
		h.rank = HandRank{Hand: HighCard, Kickers: h.kickers(5)}
	}
}

// GetHand will return the best possible hand the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.rank.Hand
}

// GetRank returns the full rank, category and kickers
func (h *HandAnalyzer) GetRank() HandRank {
	kickers := make([]int, len(h.rank.Kickers))
	copy(kickers, h.rank.Kickers)
	return HandRank{Hand: h.rank.Hand, Kickers: kickers}
}

// GetStrength returns the strength of the hand
func (h *HandAnalyzer) GetStrength() int {
	return h.rank.Strength()
}

// calculateStrength packs the category and five kicker slots in base 15
func calculateStrength(hand Hand, cards []int) int {
	strength := int(hand)
	for i := 0; i < 5; i++ {
		strength *= 15
		if i < len(cards) {
			strength += cards[i]
		}
	}

	return strength
}
