package holdem

import (
	"time"

	"dealmein-server/pkg/deck"
)

// ClientPlayer is a player as another viewer may see them
type ClientPlayer struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Seat                int         `json:"seat"`
	Chips               int         `json:"chips"`
	HoleCards           []deck.Card `json:"holeCards,omitempty"`
	CardCount           int         `json:"cardCount"`
	SitOut              bool        `json:"sitOut"`
	Disqualified        bool        `json:"disqualified"`
	ConsecutiveTimeouts int         `json:"consecutiveTimeouts"`
	Bet                 int         `json:"bet"`
	Committed           int         `json:"committed"`
	InHand              bool        `json:"inHand"`
	Folded              bool        `json:"folded"`
	AllIn               bool        `json:"allIn"`
	DealtInConfirmed    bool        `json:"dealtInConfirmed"`
	Eliminated          bool        `json:"eliminated"`
}

// ClientState is the view of a table for a single viewer.
// It never carries the deck or another player's unrevealed cards.
type ClientState struct {
	TableID      string `json:"tableId"`
	TournamentID string `json:"tournamentId"`
	ViewerID     string `json:"viewerId,omitempty"`
	Status       Status `json:"status"`
	Version      int64  `json:"version"`
	HandNumber   int    `json:"handNumber"`

	DealerPosition     int `json:"dealerPosition"`
	SmallBlindPosition int `json:"smallBlindPosition"`
	BigBlindPosition   int `json:"bigBlindPosition"`
	BlindLevel         int `json:"blindLevel"`
	SmallBlind         int `json:"smallBlind"`
	BigBlind           int `json:"bigBlind"`

	Pot                  int            `json:"pot"`
	SidePots             []SidePot      `json:"sidePots"`
	CommunityCards       []deck.Card    `json:"communityCards"`
	BettingRound         BettingRound   `json:"bettingRound"`
	ActivePlayerPosition int            `json:"activePlayerPosition"`
	CurrentBet           int            `json:"currentBet"`
	MinRaise             int            `json:"minRaise"`
	LastAction           *LastAction    `json:"lastAction"`
	Players              []ClientPlayer `json:"players"`
	Results              []PotResult    `json:"results,omitempty"`
	LegalActions         *ActionSet     `json:"legalActions,omitempty"`

	TurnDeadline   *time.Time `json:"turnDeadline,omitempty"`
	DealInDeadline *time.Time `json:"dealInDeadline,omitempty"`
	LastUpdate     time.Time  `json:"lastUpdate"`
}

// ToClientState projects the table for viewerID, which may be empty for a spectator.
// The result shares no memory with the state.
func ToClientState(state *GameState, viewerID string) *ClientState {
	showdown := state.BettingRound == RoundShowdown

	// clone first so nothing below can alias the stored state
	s := state.Clone()

	cs := &ClientState{
		TableID:              s.TableID,
		TournamentID:         s.TournamentID,
		ViewerID:             viewerID,
		Status:               s.Status,
		Version:              s.Version,
		HandNumber:           s.HandNumber,
		DealerPosition:       s.DealerPosition,
		SmallBlindPosition:   s.SmallBlindPosition,
		BigBlindPosition:     s.BigBlindPosition,
		BlindLevel:           s.BlindLevel,
		SmallBlind:           s.SmallBlind,
		BigBlind:             s.BigBlind,
		Pot:                  s.Pot,
		SidePots:             s.SidePots,
		CommunityCards:       s.CommunityCards,
		BettingRound:         s.BettingRound,
		ActivePlayerPosition: s.ActivePlayerPosition,
		CurrentBet:           s.CurrentBet,
		MinRaise:             s.MinRaise,
		LastAction:           s.LastAction,
		Players:              make([]ClientPlayer, len(s.Players)),
		LastUpdate:           s.LastUpdate,
	}

	if cs.CommunityCards == nil {
		cs.CommunityCards = []deck.Card{}
	}

	for i, p := range s.Players {
		cp := ClientPlayer{
			ID:                  p.ID,
			Name:                p.Name,
			Seat:                p.Seat,
			Chips:               p.Chips,
			CardCount:           len(p.HoleCards),
			SitOut:              p.SitOut,
			Disqualified:        p.Disqualified,
			ConsecutiveTimeouts: p.ConsecutiveTimeouts,
			Bet:                 p.Bet,
			Committed:           p.Committed,
			InHand:              p.InHand,
			Folded:              p.Folded,
			AllIn:               p.AllIn,
			DealtInConfirmed:    p.DealtInConfirmed,
			Eliminated:          p.Eliminated,
		}

		if (viewerID != "" && p.ID == viewerID) || (showdown && p.Revealed) {
			cp.HoleCards = p.HoleCards
		}

		cs.Players[i] = cp
	}

	if showdown {
		cs.Results = s.Results
	}

	if deadline, ok := s.TurnDeadline(); ok {
		cs.TurnDeadline = &deadline
	}

	if s.HandInProgress() && !s.DealInProcessed {
		deadline := s.DealInDeadline
		cs.DealInDeadline = &deadline
	}

	if viewerID != "" {
		cs.LegalActions = LegalActions(s, viewerID)
	}

	return cs
}
