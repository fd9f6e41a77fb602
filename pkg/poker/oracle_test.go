package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/deck"
)

// toOracle converts a seven card hand for the reference evaluator
func toOracle(t *testing.T, cards []deck.Card) *[7]ph.Card {
	t.Helper()

	var out [7]ph.Card
	for i, c := range cards {
		suit := 0
		for j, s := range deck.Suits {
			if s == c.Suit {
				suit = j
			}
		}

		pc, err := ph.MakeCard(ph.Suit(suit), ph.Rank(c.AceLowRank()))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		out[i] = pc
	}

	return &out
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestEvaluate_matchesReferenceEvaluator(t *testing.T) {
	gen := rng.NewSeeded(7)

	for i := 0; i < 500; i++ {
		d := deck.NewShuffled(gen)
		h1, _ := d.DrawN(7)
		h2, _ := d.DrawN(7)

		r1 := NewHandAnalyzer(h1).GetRank()
		r2 := NewHandAnalyzer(h2).GetRank()

		want := sign(int(ph.Eval7(toOracle(t, h1))) - int(ph.Eval7(toOracle(t, h2))))
		if !assert.Equal(t, want, r1.Compare(r2), "%s vs %s", deck.CardsToString(h1), deck.CardsToString(h2)) {
			return
		}
	}
}

func TestEvaluate_shuffleInvariant(t *testing.T) {
	gen := rng.NewSeeded(11)

	for i := 0; i < 200; i++ {
		d := deck.NewShuffled(gen)
		cards, _ := d.DrawN(7)
		want := NewHandAnalyzer(cards).GetRank()

		for j := 0; j < 5; j++ {
			shuffled := &deck.Deck{Cards: append([]deck.Card{}, cards...)}
			shuffled.Shuffle(gen)

			got := NewHandAnalyzer(shuffled.Cards).GetRank()
			assert.Equal(t, want, got)
		}
	}
}
