package holdem

import (
	"fmt"
	"sort"
	"time"

	"dealmein-server/internal/rng"
	"dealmein-server/pkg/deck"
)

// Engine applies table transitions.
// Every method takes a state and returns a new one, the input is never modified.
type Engine struct {
	rng rng.Generator
	now func() time.Time
}

// NewEngine returns an engine. A nil generator uses crypto/rand, a nil clock uses time.Now
func NewEngine(gen rng.Generator, now func() time.Time) *Engine {
	if gen == nil {
		gen = rng.Crypto{}
	}

	if now == nil {
		now = time.Now
	}

	return &Engine{rng: gen, now: now}
}

// Now returns the engine's current time
func (e *Engine) Now() time.Time {
	return e.now()
}

// NewTable returns an empty table waiting for players
func (e *Engine) NewTable(tableID, tournamentID string, cfg TableConfig) (*GameState, error) {
	if cfg.DealInGrace == 0 {
		cfg.DealInGrace = DefaultDealInGrace
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.BlindSchedule.Levels[0]
	return &GameState{
		TableID:              tableID,
		TournamentID:         tournamentID,
		Status:               StatusWaiting,
		DealerPosition:       NoSeat,
		SmallBlindPosition:   NoSeat,
		BigBlindPosition:     NoSeat,
		SmallBlind:           level.SmallBlind,
		BigBlind:             level.BigBlind,
		ActivePlayerPosition: NoSeat,
		Players:              make([]*Player, 0, cfg.MaxSeats),
		Config:               cfg,
		LastUpdate:           e.now(),
	}, nil
}

// AddPlayer seats a new player with the table's starting stack
func (e *Engine) AddPlayer(state *GameState, id, name string, seat int) (*GameState, error) {
	if state.Status == StatusFinished {
		return nil, ErrTableFinished
	}

	if err := checkSeating(state, id); err != nil {
		return nil, err
	}

	if seat < 0 || seat >= state.Config.MaxSeats {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}

	if state.PlayerAtSeat(seat) != nil {
		return nil, fmt.Errorf("%w: %d", ErrSeatTaken, seat)
	}

	s := state.Clone()
	s.insertPlayer(&Player{
		ID:    id,
		Name:  name,
		Seat:  seat,
		Chips: s.Config.StartingStack,
	})
	s.LastUpdate = e.now()

	return s, nil
}

// SeatPlayer seats a player moved from another table at the lowest open seat.
// The chip count is kept exactly and the player is dealt in from the next hand.
// A finished table that has two contenders again resumes play.
func (e *Engine) SeatPlayer(state *GameState, id, name string, chips int) (*GameState, error) {
	if err := checkSeating(state, id); err != nil {
		return nil, err
	}

	if chips <= 0 {
		return nil, fmt.Errorf("%w: cannot seat a player without chips", ErrIllegalAction)
	}

	seat := 0
	for ; seat < state.Config.MaxSeats; seat++ {
		if state.PlayerAtSeat(seat) == nil {
			break
		}
	}

	s := state.Clone()
	s.insertPlayer(&Player{
		ID:    id,
		Name:  name,
		Seat:  seat,
		Chips: chips,
	})
	s.LastUpdate = e.now()

	if s.Status == StatusFinished && len(s.Contenders()) >= 2 {
		s.Status = StatusActive
	}

	return s, nil
}

// RemovePlayer stands a player up between hands and returns their seat as it was
func (e *Engine) RemovePlayer(state *GameState, id string) (*GameState, Player, error) {
	if state.HandInProgress() {
		return nil, Player{}, ErrHandInProgress
	}

	p := state.PlayerByID(id)
	if p == nil {
		return nil, Player{}, ErrPlayerNotFound
	}

	removed := *p
	removed.HoleCards = cloneCards(p.HoleCards)

	s := state.Clone()
	players := make([]*Player, 0, len(s.Players))
	for _, pl := range s.Players {
		if pl.ID != id {
			players = append(players, pl)
		}
	}
	s.Players = players
	s.LastUpdate = e.now()

	return s, removed, nil
}

func checkSeating(state *GameState, id string) error {
	if state.PlayerByID(id) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}

	if len(state.Players) >= state.Config.MaxSeats {
		return ErrTableFull
	}

	return nil
}

func (s *GameState) insertPlayer(p *Player) {
	s.Players = append(s.Players, p)
	sort.Slice(s.Players, func(i, j int) bool {
		return s.Players[i].Seat < s.Players[j].Seat
	})
}

// StartGame deals the first hand. The button goes to the lowest occupied seat
func (e *Engine) StartGame(state *GameState) (*GameState, error) {
	if state.Status != StatusWaiting {
		return nil, ErrGameAlreadyStarted
	}

	contenders := state.Contenders()
	if len(contenders) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	s := state.Clone()
	s.Status = StatusActive
	if s.StartedAt.IsZero() {
		s.StartedAt = e.now()
	}

	if err := e.dealHand(s, contenders[0].Seat); err != nil {
		return nil, err
	}

	return s, nil
}

// StartHand rotates the button and deals the next hand.
// The previous hand must have reached showdown.
func (e *Engine) StartHand(state *GameState) (*GameState, error) {
	if state.BettingRound != RoundShowdown {
		return nil, ErrHandInProgress
	}

	if state.Status == StatusFinished {
		return nil, ErrTableFinished
	}

	if len(state.Contenders()) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	s := state.Clone()
	dealer := s.nextSeat(s.DealerPosition, (*Player).CanPlay)
	if err := e.dealHand(s, dealer.Seat); err != nil {
		return nil, err
	}

	return s, nil
}

// nextSeat returns the first player clockwise after seat that matches
func (s *GameState) nextSeat(seat int, match func(*Player) bool) *Player {
	order := s.orderFrom(seat, match)
	if len(order) == 0 {
		return nil
	}

	return order[0]
}

// orderFrom returns the players clockwise starting after seat
func (s *GameState) orderFrom(seat int, match func(*Player) bool) []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Seat > seat && match(p) {
			players = append(players, p)
		}
	}

	for _, p := range s.Players {
		if p.Seat <= seat && match(p) {
			players = append(players, p)
		}
	}

	return players
}

func (p *Player) inHand() bool {
	return p.InHand
}

// dealHand resets the table for a new hand, posts blinds and deals hole cards
func (e *Engine) dealHand(s *GameState, dealerSeat int) error {
	now := e.now()

	s.HandNumber++
	s.BlindLevel = s.Config.BlindSchedule.LevelAt(now.Sub(s.StartedAt))
	level := s.Config.BlindSchedule.Levels[s.BlindLevel]
	s.SmallBlind = level.SmallBlind
	s.BigBlind = level.BigBlind

	for _, p := range s.Players {
		p.HoleCards = nil
		p.Bet = 0
		p.Committed = 0
		p.Folded = false
		p.AllIn = false
		p.HasActed = false
		p.DealtInConfirmed = false
		p.Revealed = false
		p.TimedOut = false
		p.InHand = p.CanPlay()
		p.HandStartChips = p.Chips
	}

	s.Pot = 0
	s.SidePots = nil
	s.CommunityCards = []deck.Card{}
	s.Results = nil
	s.LastAction = nil
	s.LastAggressor = ""
	s.BettingRound = RoundPreflop
	s.DealInDeadline = now.Add(s.Config.DealInGrace)
	s.DealInProcessed = false
	s.HandEndedAt = time.Time{}
	s.Deck = deck.NewShuffled(e.rng)

	s.DealerPosition = dealerSeat
	order := s.orderFrom(dealerSeat, (*Player).inHand)

	var sb, bb *Player
	if len(order) == 2 {
		// heads-up, the dealer posts the small blind
		sb = s.PlayerAtSeat(dealerSeat)
		bb = s.nextSeat(dealerSeat, (*Player).inHand)
	} else {
		sb = order[0]
		bb = order[1]
	}

	s.SmallBlindPosition = sb.Seat
	s.BigBlindPosition = bb.Seat
	s.putIn(sb, minInt(s.SmallBlind, sb.Chips))
	s.putIn(bb, minInt(s.BigBlind, bb.Chips))
	s.CurrentBet = s.BigBlind
	s.MinRaise = s.BigBlind
	s.LastAggressor = bb.ID

	for i := 0; i < 2; i++ {
		for _, p := range order {
			card, err := s.Deck.Draw()
			if err != nil {
				return err
			}

			p.HoleCards = append(p.HoleCards, card)
		}
	}

	s.ActivePlayerPosition = bb.Seat
	e.advance(s, true)

	return nil
}

// putIn moves chips from the player's stack so their bet this round totals to
func (s *GameState) putIn(p *Player, to int) {
	delta := to - p.Bet
	if delta > p.Chips {
		delta = p.Chips
	}

	p.Chips -= delta
	p.Bet += delta
	p.Committed += delta
	s.Pot += delta

	if p.Chips == 0 {
		p.AllIn = true
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
