package subq

import (
	"errors"
	"fmt"
)

// Precondition errors raised before the first round executes.
var (
	ErrNoRequest = errors.New("subq: request handle was not provided")
	ErrNoUser    = errors.New("subq: user was not provided")
	ErrNoModel   = errors.New("subq: could not determine current model id")
)

// MaxRoundsError reports that the loop hit its round ceiling without the
// model producing a final answer.
type MaxRoundsError struct {
	Limit int
}

func (e *MaxRoundsError) Error() string {
	return fmt.Sprintf("subq: exceeded max rounds (%d)", e.Limit)
}
