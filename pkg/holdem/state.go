package holdem

import (
	"fmt"
	"time"

	"dealmein-server/pkg/deck"
)

// Status is the lifecycle of a table
type Status string

// table statuses
const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// BettingRound is the current street of a hand
type BettingRound string

// betting rounds
const (
	RoundNone     BettingRound = ""
	RoundPreflop  BettingRound = "preflop"
	RoundFlop     BettingRound = "flop"
	RoundTurn     BettingRound = "turn"
	RoundRiver    BettingRound = "river"
	RoundShowdown BettingRound = "showdown"
)

// next returns the street after r and the number of community cards it deals
func (r BettingRound) next() (BettingRound, int) {
	switch r {
	case RoundPreflop:
		return RoundFlop, 3
	case RoundFlop:
		return RoundTurn, 1
	case RoundTurn:
		return RoundRiver, 1
	default:
		return RoundShowdown, 0
	}
}

// NoSeat marks an unset position
const NoSeat = -1

// DefaultDealInGrace is how long players have to press Deal Me In
const DefaultDealInGrace = 30 * time.Second

// BlindLevel is a single small/big blind pair
type BlindLevel struct {
	SmallBlind int `json:"smallBlind" yaml:"smallBlind"`
	BigBlind   int `json:"bigBlind" yaml:"bigBlind"`
}

// BlindSchedule is the escalating blind structure of a tournament
type BlindSchedule struct {
	Levels   []BlindLevel  `json:"levels" yaml:"levels"`
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// Validate returns an error unless every level is larger than the last
func (b BlindSchedule) Validate() error {
	if len(b.Levels) == 0 {
		return fmt.Errorf("%w: blind schedule is empty", ErrInvalidConfig)
	}

	if b.Interval < 0 {
		return fmt.Errorf("%w: blind interval must be >= 0", ErrInvalidConfig)
	}

	for i, level := range b.Levels {
		if level.SmallBlind <= 0 || level.BigBlind < level.SmallBlind {
			return fmt.Errorf("%w: blind level %d must have 0 < small blind <= big blind", ErrInvalidConfig, i+1)
		}

		if i == 0 {
			continue
		}

		prev := b.Levels[i-1]
		if level.BigBlind <= prev.BigBlind || level.SmallBlind < prev.SmallBlind {
			return fmt.Errorf("%w: blind level %d does not increase", ErrInvalidConfig, i+1)
		}
	}

	return nil
}

// LevelAt returns the index of the level in effect after elapsed time
func (b BlindSchedule) LevelAt(elapsed time.Duration) int {
	if b.Interval <= 0 || elapsed <= 0 || len(b.Levels) == 0 {
		return 0
	}

	level := int(elapsed / b.Interval)
	if level >= len(b.Levels) {
		level = len(b.Levels) - 1
	}

	return level
}

// TableConfig configures a single table
type TableConfig struct {
	MaxSeats      int           `json:"maxSeats"`
	StartingStack int           `json:"startingStack"`
	BlindSchedule BlindSchedule `json:"blindSchedule"`
	ActionTimeout time.Duration `json:"actionTimeout"`
	DealInGrace   time.Duration `json:"dealInGrace"`

	// NextHandDelay is how long a finished hand is shown before the clock deals the next one.
	// Zero disables automatic dealing.
	NextHandDelay time.Duration `json:"nextHandDelay"`
}

// Validate ensures the config can run a table
func (c TableConfig) Validate() error {
	if c.MaxSeats < 2 {
		return fmt.Errorf("%w: a table needs at least two seats", ErrInvalidConfig)
	}

	if c.StartingStack <= 0 {
		return fmt.Errorf("%w: starting stack must be > 0", ErrInvalidConfig)
	}

	if c.ActionTimeout <= 0 {
		return fmt.Errorf("%w: action timeout must be > 0", ErrInvalidConfig)
	}

	if c.DealInGrace < 0 || c.NextHandDelay < 0 {
		return fmt.Errorf("%w: durations must be >= 0", ErrInvalidConfig)
	}

	return c.BlindSchedule.Validate()
}

// Player is a player seated at a table
type Player struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Seat                int         `json:"seat"`
	Chips               int         `json:"chips"`
	HoleCards           []deck.Card `json:"holeCards"`
	SitOut              bool        `json:"sitOut"`
	Disqualified        bool        `json:"disqualified"`
	ConsecutiveTimeouts int         `json:"consecutiveTimeouts"`

	// Bet is committed this betting round, Committed this hand
	Bet       int `json:"bet"`
	Committed int `json:"committed"`

	InHand           bool `json:"inHand"`
	Folded           bool `json:"folded"`
	AllIn            bool `json:"allIn"`
	HasActed         bool `json:"hasActed"`
	DealtInConfirmed bool `json:"dealtInConfirmed"`
	Revealed         bool `json:"revealed"`
	TimedOut         bool `json:"timedOut"`
	Eliminated       bool `json:"eliminated"`
	HandStartChips   int  `json:"handStartChips"`
}

// CanPlay returns true if the player will be dealt into the next hand
func (p *Player) CanPlay() bool {
	return p.Chips > 0 && !p.SitOut && !p.Eliminated
}

// canAct returns true if the player still makes decisions this hand
func (p *Player) canAct() bool {
	return p.InHand && !p.Folded && !p.AllIn
}

// live returns true if the player is contesting the pot
func (p *Player) live() bool {
	return p.InHand && !p.Folded
}

// SidePot is an amount and the players who can win it
// Index 0 of GameState.SidePots is the main pot.
type SidePot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// Payout is the amount a player collected from a pot
type Payout struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// PotResult records how one pot was awarded
type PotResult struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners"`
	Payouts  []Payout `json:"payouts"`
	Hand     string   `json:"hand,omitempty"`
}

// LastAction is the most recent action taken at the table
type LastAction struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount"`
	TimedOut bool   `json:"timedOut"`
}

// GameState is the complete, persisted state of one table
type GameState struct {
	TableID      string `json:"tableId"`
	TournamentID string `json:"tournamentId"`
	Status       Status `json:"status"`
	Version      int64  `json:"version"`
	HandNumber   int    `json:"handNumber"`

	DealerPosition     int `json:"dealerPosition"`
	SmallBlindPosition int `json:"smallBlindPosition"`
	BigBlindPosition   int `json:"bigBlindPosition"`

	BlindLevel int `json:"blindLevel"`
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`

	Pot            int          `json:"pot"`
	SidePots       []SidePot    `json:"sidePots"`
	CommunityCards []deck.Card  `json:"communityCards"`
	BettingRound   BettingRound `json:"bettingRound"`

	ActivePlayerPosition int         `json:"activePlayerPosition"`
	CurrentBet           int         `json:"currentBet"`
	MinRaise             int         `json:"minRaise"`
	LastAggressor        string      `json:"lastAggressor"`
	LastAction           *LastAction `json:"lastAction"`

	Players []*Player   `json:"players"`
	Config  TableConfig `json:"config"`
	Results []PotResult `json:"results"`

	StartedAt       time.Time `json:"startedAt"`
	TurnStartedAt   time.Time `json:"turnStartedAt"`
	DealInDeadline  time.Time `json:"dealInDeadline"`
	DealInProcessed bool      `json:"dealInProcessed"`
	HandEndedAt     time.Time `json:"handEndedAt"`
	LastUpdate      time.Time `json:"lastUpdate"`

	Deck *deck.Deck `json:"deck"`
}

// PlayerByID returns the player or nil
func (s *GameState) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// PlayerAtSeat returns the player in the seat or nil
func (s *GameState) PlayerAtSeat(seat int) *Player {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p
		}
	}

	return nil
}

// ActivePlayer returns the player who is on the clock or nil
func (s *GameState) ActivePlayer() *Player {
	if s.ActivePlayerPosition == NoSeat {
		return nil
	}

	return s.PlayerAtSeat(s.ActivePlayerPosition)
}

// HandInProgress returns true if cards are out and the hand is unresolved
func (s *GameState) HandInProgress() bool {
	return s.Status == StatusActive && s.BettingRound != RoundNone && s.BettingRound != RoundShowdown
}

// Contenders returns the players who can still be dealt in
func (s *GameState) Contenders() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.CanPlay() {
			players = append(players, p)
		}
	}

	return players
}

// TotalChips returns all chips on the table, stacks and pot
func (s *GameState) TotalChips() int {
	total := 0
	for _, p := range s.Players {
		total += p.Chips
	}

	if s.BettingRound != RoundShowdown {
		total += s.Pot
	}

	return total
}

// Clone returns a deep copy of the state
func (s *GameState) Clone() *GameState {
	cp := *s

	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		pc := *p
		pc.HoleCards = cloneCards(p.HoleCards)
		cp.Players[i] = &pc
	}

	cp.SidePots = cloneSidePots(s.SidePots)
	cp.CommunityCards = cloneCards(s.CommunityCards)
	cp.Deck = s.Deck.Clone()
	cp.Config.BlindSchedule.Levels = append([]BlindLevel(nil), s.Config.BlindSchedule.Levels...)

	if s.LastAction != nil {
		la := *s.LastAction
		cp.LastAction = &la
	}

	if s.Results != nil {
		cp.Results = make([]PotResult, len(s.Results))
		for i, r := range s.Results {
			cp.Results[i] = PotResult{
				Amount:   r.Amount,
				Eligible: append([]string(nil), r.Eligible...),
				Winners:  append([]string(nil), r.Winners...),
				Payouts:  append([]Payout(nil), r.Payouts...),
				Hand:     r.Hand,
			}
		}
	}

	return &cp
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}

	cp := make([]deck.Card, len(cards))
	copy(cp, cards)
	return cp
}

func cloneSidePots(pots []SidePot) []SidePot {
	if pots == nil {
		return nil
	}

	cp := make([]SidePot, len(pots))
	for i, pot := range pots {
		cp[i] = SidePot{
			Amount:   pot.Amount,
			Eligible: append([]string(nil), pot.Eligible...),
		}
	}

	return cp
}
