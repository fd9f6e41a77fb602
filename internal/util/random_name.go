package util

import (
	"fmt"
	"math/rand"
	"time"
)

var adjectives = []string{
	"Friday", "Midnight", "Lucky", "Silver", "Golden", "Grand", "Rolling", "Wild", "High", "Low", "Late",
	"Early", "Red", "Blue", "Green", "Diamond", "Iron", "Velvet", "Thunder", "Crimson", "Summer", "Winter",
}

var events = []string{
	"Shootout", "Classic", "Invitational", "Freeroll", "Deepstack", "Turbo", "Open", "Showdown", "Challenge",
	"Series", "Main Event", "Bounty", "Marathon",
}

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

// GetRandomName returns a tournament name by combining an adjective with an event
func GetRandomName() string {
	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], events[random.Intn(len(events))])
}
