package idiom

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("idiom input is empty")
	ErrInvalidCharacters = errors.New("idiom contains characters outside the permitted alphabet")
)

// WrongLengthError rejects input whose stripped length is not Length.
type WrongLengthError struct {
	Actual int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("idiom must be %d characters, got %d", Length, e.Actual)
}

// NotIdiomError rejects well-formed input that the semantic oracle did not
// recognize as an idiom.
type NotIdiomError struct {
	Text string
}

func (e *NotIdiomError) Error() string {
	return fmt.Sprintf("%q is not a recognized idiom", e.Text)
}

// ChainMismatchError rejects a candidate whose head does not phonetically
// match the previous idiom's tail. Both keys are carried so callers can
// explain the mismatch.
type ChainMismatchError struct {
	PrevTail rune
	NextHead rune
	PrevKey  string
	NextKey  string
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("cannot chain: %q reads %s but %q reads %s",
		string(e.PrevTail), e.PrevKey, string(e.NextHead), e.NextKey)
}
