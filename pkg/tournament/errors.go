package tournament

// Error is a tournament error that is safe to show to the player
type Error string

func (e Error) Error() string {
	return string(e)
}

// policy errors
const (
	ErrInvalidConfig      Error = "invalid tournament config"
	ErrAlreadyRegistered  Error = "player is already registered"
	ErrNotRegistered      Error = "player is not registered"
	ErrRegistrationClosed Error = "registration is closed"
	ErrTournamentFull     Error = "tournament is full"
	ErrNotCreator         Error = "only the tournament creator can do that"
	ErrNotEnoughPlayers   Error = "not enough players"
	ErrNotActive          Error = "tournament is not running"
)
