package tournament

import (
	"fmt"
	"time"

	"dealmein-server/pkg/holdem"
)

// tournament defaults
const (
	DefaultTableSize         = 9
	DefaultMinTableOccupancy = 2
	DefaultNextHandDelay     = 5 * time.Second
	DefaultActionTimeout     = 30 * time.Second
)

// Config is the immutable setup of a tournament
type Config struct {
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	StartTime time.Time `json:"startTime"`

	// RegistrationCutoff closes registration this long before StartTime
	RegistrationCutoff time.Duration `json:"registrationCutoff"`

	BlindSchedule holdem.BlindSchedule `json:"blindSchedule"`
	StartingStack int                  `json:"startingStack"`
	ActionTimeout time.Duration        `json:"actionTimeout"`
	DealInGrace   time.Duration        `json:"dealInGrace"`
	NextHandDelay time.Duration        `json:"nextHandDelay"`

	MaxPlayers int `json:"maxPlayers"`
	TableSize  int `json:"tableSize"`

	// MinTableOccupancy is the contender count under which a table is broken up
	MinTableOccupancy int `json:"minTableOccupancy"`
}

func (c *Config) applyDefaults() {
	if c.TableSize == 0 {
		c.TableSize = DefaultTableSize
	}

	if c.MinTableOccupancy == 0 {
		c.MinTableOccupancy = DefaultMinTableOccupancy
	}

	if c.NextHandDelay == 0 {
		c.NextHandDelay = DefaultNextHandDelay
	}

	if c.ActionTimeout == 0 {
		c.ActionTimeout = DefaultActionTimeout
	}

	if c.DealInGrace == 0 {
		c.DealInGrace = holdem.DefaultDealInGrace
	}
}

// Validate returns ErrInvalidConfig unless the tournament can be run
func (c Config) Validate() error {
	if c.CreatorID == "" {
		return fmt.Errorf("%w: creator is required", ErrInvalidConfig)
	}

	if c.MaxPlayers < 2 {
		return fmt.Errorf("%w: max players must be >= 2", ErrInvalidConfig)
	}

	if c.TableSize < 2 {
		return fmt.Errorf("%w: table size must be >= 2", ErrInvalidConfig)
	}

	if c.MinTableOccupancy < 0 || c.MinTableOccupancy > c.TableSize {
		return fmt.Errorf("%w: min table occupancy must be between 0 and the table size", ErrInvalidConfig)
	}

	if c.RegistrationCutoff < 0 {
		return fmt.Errorf("%w: registration cutoff must be >= 0", ErrInvalidConfig)
	}

	if err := c.TableConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// TableConfig returns the config every table of the tournament is created with
func (c Config) TableConfig() holdem.TableConfig {
	return holdem.TableConfig{
		MaxSeats:      c.TableSize,
		StartingStack: c.StartingStack,
		BlindSchedule: holdem.BlindSchedule{
			Levels:   append([]holdem.BlindLevel(nil), c.BlindSchedule.Levels...),
			Interval: c.BlindSchedule.Interval,
		},
		ActionTimeout: c.ActionTimeout,
		DealInGrace:   c.DealInGrace,
		NextHandDelay: c.NextHandDelay,
	}
}

// RegistrationDeadline returns when registration closes.
// A zero start time keeps registration open until the tournament starts.
func (c Config) RegistrationDeadline() (time.Time, bool) {
	if c.StartTime.IsZero() {
		return time.Time{}, false
	}

	return c.StartTime.Add(-c.RegistrationCutoff), true
}
