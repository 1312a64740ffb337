package idiom

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ValidatorMode selects the semantic oracle behind format checks.
type ValidatorMode string

const (
	// ModeCatalog answers membership from the static catalog.
	ModeCatalog ValidatorMode = "catalog"
	// ModeJudge asks an external judge a yes/no question.
	ModeJudge ValidatorMode = "judge"
)

// Judge is an external yes/no oracle. A failed or ambiguous answer must not
// reject a candidate; the Validator degrades to a format-only pass.
type Judge interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// affirmativeTokens are scanned (case-folded) in the judge's free-text
// reply. Matching any of them counts as a yes.
var affirmativeTokens = []string{"是", "成语", "yes", "true"}

type Validator struct {
	catalog *Catalog
	judge   Judge
	mode    ValidatorMode
	logger  *zap.Logger
}

func NewValidator(catalog *Catalog, judge Judge, mode ValidatorMode, logger *zap.Logger) *Validator {
	if mode != ModeJudge {
		mode = ModeCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{catalog: catalog, judge: judge, mode: mode, logger: logger}
}

// Validate applies the structural rules and then the semantic oracle.
// Judge transport failures, empty replies, and ambiguous replies are
// fail-open: the candidate passes on format alone and the failure is only
// logged. This availability-over-precision tradeoff is deliberate.
func (v *Validator) Validate(ctx context.Context, raw string) (Idiom, error) {
	cleaned := Strip(raw)
	runes := []rune(cleaned)
	if len(runes) != Length {
		return Idiom{}, &WrongLengthError{Actual: len(runes)}
	}
	// Unreachable after Strip today; guards future alphabet changes.
	for _, r := range runes {
		if !isHan(r) {
			return Idiom{}, ErrInvalidCharacters
		}
	}

	candidate := New(cleaned)

	if v.mode == ModeJudge && v.judge != nil {
		reply, err := v.judge.Ask(ctx, judgePrompt(cleaned))
		if err != nil {
			v.logger.Warn("idiom judge unavailable, format-only pass",
				zap.Error(err),
				zap.String("candidate", cleaned),
			)
			return candidate, nil
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			v.logger.Warn("idiom judge returned empty reply, format-only pass",
				zap.String("candidate", cleaned),
			)
			return candidate, nil
		}
		if judgeAffirms(reply) {
			return candidate, nil
		}
		if judgeDenies(reply) {
			return Idiom{}, &NotIdiomError{Text: cleaned}
		}
		v.logger.Warn("idiom judge reply ambiguous, format-only pass",
			zap.String("candidate", cleaned),
			zap.String("reply", truncateReply(reply)),
		)
		return candidate, nil
	}

	if v.catalog == nil || !v.catalog.Contains(cleaned) {
		return Idiom{}, &NotIdiomError{Text: cleaned}
	}
	return candidate, nil
}

func judgePrompt(text string) string {
	return fmt.Sprintf(`请判断"%s"是否为标准的中文成语。

判断标准：
1. 是中文成语（四字固定词组，有典故或特定含义）→ 回答"是"
2. 不是标准成语（词语组合、现代词汇等）→ 回答"否"
3. 只需回答"是"或"否"，不要解释

文本：%s
回答：`, text, text)
}

func judgeAffirms(reply string) bool {
	folded := strings.ToLower(reply)
	for _, token := range affirmativeTokens {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

func judgeDenies(reply string) bool {
	folded := strings.ToLower(reply)
	return strings.Contains(folded, "否") || strings.Contains(folded, "不是") || strings.Contains(folded, "no")
}

func truncateReply(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max]
}
