package poker

import "fmt"

// Hand is a poker hand category, i.e., royal flush
type Hand int

// Constants for hand
const (
	HighCard Hand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand
func (h Hand) String() string {
	switch h {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		return fmt.Sprintf("Hand(%d)", int(h))
	}
}

// MarshalJSON encodes the hand as its name
func (h Hand) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

var rankNames = map[int][2]string{
	2:  {"two", "twos"},
	3:  {"three", "threes"},
	4:  {"four", "fours"},
	5:  {"five", "fives"},
	6:  {"six", "sixes"},
	7:  {"seven", "sevens"},
	8:  {"eight", "eights"},
	9:  {"nine", "nines"},
	10: {"ten", "tens"},
	11: {"jack", "jacks"},
	12: {"queen", "queens"},
	13: {"king", "kings"},
	14: {"ace", "aces"},
}

func rankName(rank int, plural bool) string {
	names, ok := rankNames[rank]
	if !ok {
		return "?"
	}

	if plural {
		return names[1]
	}

	return names[0]
}
