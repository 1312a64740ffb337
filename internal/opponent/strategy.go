// Package opponent produces the bot's moves in a chain game.
package opponent

import (
	"context"
	"errors"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
)

var (
	// ErrExhausted means the strategy has no legal continuation. The game
	// ends with the user as winner.
	ErrExhausted = errors.New("opponent has no idiom to continue the chain")
	// ErrUnavailable means the strategy's backing service could not be
	// reached. Distinct from ErrExhausted, but the game outcome is the
	// same: the user wins the round.
	ErrUnavailable = errors.New("opponent backend is unavailable")
)

// Strategy picks the opponent's next idiom. NextMove must return a
// candidate whose first key matches prev's last key, or ErrExhausted.
type Strategy interface {
	NextMove(ctx context.Context, prev idiom.Idiom) (idiom.Idiom, error)
	OpeningMove(ctx context.Context) (idiom.Idiom, error)
}
