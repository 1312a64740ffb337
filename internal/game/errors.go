package game

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyActive = errors.New("a game is already running in this session")
	ErrNoActiveGame  = errors.New("no game is running in this session")
)

// DuplicateIdiomError rejects a user move that already appeared in the
// current chain. An opponent repeating itself is not an error; it ends the
// game in the user's favor.
type DuplicateIdiomError struct {
	Text string
}

func (e *DuplicateIdiomError) Error() string {
	return fmt.Sprintf("%q was already used in this chain", e.Text)
}
