package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_constants(t *testing.T) {
	assert.Equal(t, 11, Jack)
	assert.Equal(t, 12, Queen)
	assert.Equal(t, 13, King)
	assert.Equal(t, 14, Ace)
}

func TestCard_String(t *testing.T) {
	assert.Equal(t, "2♡", Card{Rank: 2, Suit: Hearts}.String())
	assert.Equal(t, "J♣", Card{Rank: 11, Suit: Clubs}.String())
	assert.Equal(t, "Q♢", Card{Rank: 12, Suit: Diamonds}.String())
	assert.Equal(t, "K♠", Card{Rank: 13, Suit: Spades}.String())
	assert.Equal(t, "A♠", Card{Rank: 14, Suit: Spades}.String())
}

func TestParseCard(t *testing.T) {
	a := assert.New(t)

	card, err := ParseCard("14s")
	a.NoError(err)
	a.Equal(Card{Rank: Ace, Suit: Spades}, card)

	card, err = ParseCard("10H")
	a.NoError(err)
	a.Equal(Card{Rank: 10, Suit: Hearts}, card)

	for _, bad := range []string{"", "1c", "15d", "2x", "ac"} {
		_, err = ParseCard(bad)
		a.ErrorIs(err, ErrInvalidCard, bad)
	}

	a.Panics(func() { CardFromString("zz") })
}

func TestCardsToString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,13d,14h")
	a.Equal([]Card{{2, Clubs}, {13, Diamonds}, {14, Hearts}}, cards)
	a.Equal("2c,13d,14h", CardsToString(cards))
	a.Equal([]Card{}, CardsFromString(""))
}

func TestCard_Valid(t *testing.T) {
	assert.True(t, Card{Rank: 2, Suit: Clubs}.Valid())
	assert.False(t, Card{Rank: 1, Suit: Clubs}.Valid())
	assert.False(t, Card{Rank: 10, Suit: "stars"}.Valid())
	assert.Equal(t, 1, Card{Rank: Ace, Suit: Spades}.AceLowRank())
}
