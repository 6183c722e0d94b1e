package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks inputs the engine cannot simulate, such as an empty throughput history.
var ErrInvalidInput = errors.New("invalid simulation input")

// TeamError isolates the failure of a single team's worker.
type TeamError struct {
	TeamID string
	Err    error
}

func (e *TeamError) Error() string {
	return fmt.Sprintf("team %s: %v", e.TeamID, e.Err)
}

func (e *TeamError) Unwrap() error {
	return e.Err
}
