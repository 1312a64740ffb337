package jielongpresenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/game"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Jielong-KakaoTalk-bot/pkg/jielongdto"
)

// PrefixProvider exposes the command prefix for help and error texts.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders chat texts from the message catalog. Every method has
// a plain-string fallback so a broken template never silences the bot.
type Formatter struct {
	cat    *msgcat.Catalog
	prefix PrefixProvider
}

func NewFormatter(cat *msgcat.Catalog, prefix PrefixProvider) *Formatter {
	return &Formatter{cat: cat, prefix: prefix}
}

func (f *Formatter) Start(view *jielongdto.StartView) string {
	if view.Seed == "" {
		return f.render("jielong.start.opening", map[string]any{
			"Opening":  view.Opening,
			"TailChar": view.TailChar,
			"TailKey":  view.TailKey,
		}, fmt.Sprintf("🐉 성어 접룡 시작! 첫 성어: %s", view.Opening))
	}
	if view.GameOver {
		return f.render("jielong.over.seedwin", map[string]any{
			"Seed": view.Seed,
		}, fmt.Sprintf("🎉 첫 수부터 승리! 상대가 '%s'를 잇지 못했습니다.", view.Seed))
	}
	return f.render("jielong.start.seeded", map[string]any{
		"Seed":     view.Seed,
		"Reply":    view.Opening,
		"TailChar": view.TailChar,
		"TailKey":  view.TailKey,
	}, fmt.Sprintf("🐉 성어 접룡 시작! %s → %s", view.Seed, view.Opening))
}

func (f *Formatter) Move(view *jielongdto.MoveView, displayName string) string {
	if view.GameOver {
		return f.render("jielong.over.userwin", map[string]any{
			"Name":     displayName,
			"LastMove": view.UserMove,
			"Rounds":   view.Rounds,
			"Chain":    strings.Join(view.Chain, " → "),
		}, fmt.Sprintf("🎉 %s님의 승리! 상대가 '%s'를 잇지 못했습니다.", displayName, view.UserMove))
	}
	return f.render("jielong.move.reply", map[string]any{
		"UserMove": view.UserMove,
		"Reply":    view.Reply,
		"TailChar": view.TailChar,
		"TailKey":  view.TailKey,
	}, fmt.Sprintf("%s → %s", view.UserMove, view.Reply))
}

func (f *Formatter) Stopped(summary *jielongdto.GameSummary) string {
	return f.render("jielong.over.stopped", map[string]any{
		"Winner": summary.Winner,
		"Rounds": summary.Rounds,
		"Chain":  strings.Join(summary.Chain, " → "),
	}, fmt.Sprintf("게임 종료 — 승자: %s", summary.Winner))
}

func (f *Formatter) Scores(rows []*jielongdto.ScoreRow) string {
	if len(rows) == 0 {
		return f.render("jielong.score.empty", nil, "아직 기록된 점수가 없습니다.")
	}
	lines := []string{f.render("jielong.score.header", nil, "🏆 최근 접룡 점수")}
	for _, row := range rows {
		games := make([]string, len(row.Scores))
		for i, s := range row.Scores {
			games[i] = strconv.Itoa(s)
		}
		lines = append(lines, f.render("jielong.score.row", map[string]any{
			"Rank":  row.Rank,
			"Name":  row.Name,
			"Total": row.Total,
			"Games": strings.Join(games, ", "),
		}, fmt.Sprintf("%d. %s — %d점", row.Rank, row.Name, row.Total)))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) History(summaries []*jielongdto.GameSummary) string {
	if len(summaries) == 0 {
		return f.render("jielong.history.empty", nil, "아직 완료된 게임이 없습니다.")
	}
	lines := []string{f.render("jielong.history.header", nil, "📜 최근 접룡 기록")}
	for _, s := range summaries {
		lines = append(lines, f.render("jielong.history.row", map[string]any{
			"When":   s.EndedAt,
			"Rounds": s.Rounds,
			"Winner": s.Winner,
			"Chain":  strings.Join(s.Chain, " → "),
		}, fmt.Sprintf("%s | %d수 | 승자 %s", s.EndedAt, s.Rounds, s.Winner)))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Help() string {
	return f.render("jielong.help", map[string]any{"Prefix": f.prefixString()},
		"접룡 시작 / 중지 / 점수 / 기록")
}

// ErrorText maps engine errors onto user-facing Korean messages.
func (f *Formatter) ErrorText(err error) string {
	var wrongLen *idiom.WrongLengthError
	var notIdiom *idiom.NotIdiomError
	var mismatch *idiom.ChainMismatchError
	var dup *game.DuplicateIdiomError

	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		return f.render("jielong.error.nogame", map[string]any{"Prefix": f.prefixString()},
			"진행 중인 게임이 없습니다.")
	case errors.Is(err, game.ErrAlreadyActive):
		return f.render("jielong.start.already", map[string]any{"Prefix": f.prefixString()},
			"이미 진행 중인 게임이 있습니다.")
	case errors.As(err, &wrongLen):
		return f.render("jielong.error.wronglength", map[string]any{"Actual": wrongLen.Actual},
			"성어는 네 글자여야 합니다.")
	case errors.As(err, &notIdiom):
		return f.render("jielong.error.notidiom", map[string]any{"Text": notIdiom.Text},
			fmt.Sprintf("'%s'은(는) 성어로 인식되지 않았습니다.", notIdiom.Text))
	case errors.As(err, &mismatch):
		return f.render("jielong.error.mismatch", map[string]any{
			"PrevChar": string(mismatch.PrevTail),
			"PrevKey":  mismatch.PrevKey,
			"NextChar": string(mismatch.NextHead),
			"NextKey":  mismatch.NextKey,
		}, "이어지지 않는 성어입니다.")
	case errors.As(err, &dup):
		return f.render("jielong.error.duplicate", map[string]any{"Text": dup.Text},
			fmt.Sprintf("'%s'은(는) 이미 사용된 성어입니다.", dup.Text))
	default:
		return f.render("jielong.error.generic", nil, "처리 중 오류가 발생했습니다.")
	}
}

func (f *Formatter) render(key string, data any, fallback string) string {
	if f.cat != nil {
		if out, err := f.cat.Render(key, data); err == nil {
			return out
		}
	}
	return fallback
}

func (f *Formatter) prefixString() string {
	if f.prefix == nil {
		return ""
	}
	return f.prefix.Prefix()
}
