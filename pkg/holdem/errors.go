package holdem

// Error is a table error that is safe to show to the player
type Error string

func (e Error) Error() string {
	return string(e)
}

// validation errors
const (
	ErrSeatTaken          Error = "seat is taken"
	ErrInvalidSeat        Error = "seat does not exist"
	ErrTableFull          Error = "table is full"
	ErrDuplicatePlayer    Error = "player is already seated"
	ErrPlayerNotFound     Error = "player is not seated at this table"
	ErrNotEnoughPlayers   Error = "not enough players"
	ErrGameAlreadyStarted Error = "game has already started"
	ErrHandInProgress     Error = "hand is in progress"
	ErrTableFinished      Error = "table is finished"
	ErrIllegalAction      Error = "illegal action"
	ErrInvalidConfig      Error = "invalid table config"
)
