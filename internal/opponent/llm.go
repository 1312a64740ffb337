package opponent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
)

// Asker is the single-question LLM surface this strategy needs.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// LLMStrategy asks a language model to continue the chain. Replies are
// never trusted as-is: a malformed or non-chaining reply counts as the
// model having no answer, and a transport failure is surfaced as
// ErrUnavailable so the caller can tell the two apart in logs.
type LLMStrategy struct {
	asker    Asker
	fallback *CatalogStrategy
	logger   *zap.Logger
}

// NewLLMStrategy builds an LLM-backed opponent. Opening moves come from
// fallback, which must not be nil: asking a model to invent an opener
// gives unstable results for no benefit.
func NewLLMStrategy(asker Asker, fallback *CatalogStrategy, logger *zap.Logger) *LLMStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMStrategy{asker: asker, fallback: fallback, logger: logger}
}

func (s *LLMStrategy) NextMove(ctx context.Context, prev idiom.Idiom) (idiom.Idiom, error) {
	reply, err := s.asker.Ask(ctx, continuationPrompt(prev))
	if err != nil {
		s.logger.Warn("llm opponent unavailable", zap.Error(err))
		return idiom.Idiom{}, ErrUnavailable
	}
	move, ok := parseMove(reply, prev)
	if !ok {
		s.logger.Info("llm reply did not chain, treating as exhausted",
			zap.String("prev", prev.Text),
			zap.String("reply", reply),
		)
		return idiom.Idiom{}, ErrExhausted
	}
	return move, nil
}

func (s *LLMStrategy) OpeningMove(ctx context.Context) (idiom.Idiom, error) {
	return s.fallback.OpeningMove(ctx)
}

func continuationPrompt(prev idiom.Idiom) string {
	return fmt.Sprintf(`我们在玩成语接龙。上一个成语是"%s"，它的最后一个字是"%s"（读音 %s）。

请接一个成语：
1. 必须是标准的四字中文成语
2. 第一个字的读音必须是 %s（同音字即可，不要求同字）
3. 只回答这个成语本身，不要解释，不要标点

如果接不上来，回答"认输"。`,
		prev.Text, string(prev.Tail()), prev.LastKey, prev.LastKey)
}

// parseMove extracts a chaining idiom from a free-text reply. The reply is
// stripped to Han characters, must be exactly four of them, and must key
// onto prev's tail.
func parseMove(reply string, prev idiom.Idiom) (idiom.Idiom, bool) {
	cleaned := idiom.Strip(reply)
	if len([]rune(cleaned)) != idiom.Length {
		return idiom.Idiom{}, false
	}
	move := idiom.New(cleaned)
	if move.FirstKey != prev.LastKey {
		return idiom.Idiom{}, false
	}
	return move, true
}
