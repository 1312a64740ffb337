// Package jielongpresenter turns game results into chat messages and
// delivers them, keeping the command layer free of formatting concerns.
package jielongpresenter

import (
	"strings"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/game"
	"github.com/park285/Jielong-KakaoTalk-bot/pkg/jielongdto"
)

func ToStartView(res *game.StartResult) *jielongdto.StartView {
	if res == nil {
		return nil
	}
	view := &jielongdto.StartView{
		Seed:     res.Seed.Text,
		Opening:  res.Opening.Text,
		GameOver: res.GameOver,
	}
	if !res.Opening.Empty() {
		view.TailChar = string(res.Opening.Tail())
		view.TailKey = res.Opening.LastKey
	}
	return view
}

func ToMoveView(res *game.MoveResult) *jielongdto.MoveView {
	if res == nil {
		return nil
	}
	view := &jielongdto.MoveView{
		UserMove: res.UserMove.Text,
		Reply:    res.OpponentMove.Text,
		GameOver: res.GameOver,
		Winner:   string(res.Winner),
	}
	if !res.OpponentMove.Empty() {
		view.TailChar = string(res.OpponentMove.Tail())
		view.TailKey = res.OpponentMove.LastKey
	}
	if res.Record != nil {
		view.Rounds = res.Record.RoundCount
		view.Chain = res.Record.Chain
	}
	return view
}

func ToGameSummary(record *domain.GameRecord) *jielongdto.GameSummary {
	if record == nil {
		return nil
	}
	return &jielongdto.GameSummary{
		EndedAt: record.EndedAt.Format("01/02 15:04"),
		Winner:  winnerLabel(record.Winner),
		Rounds:  record.RoundCount,
		Chain:   record.Chain,
	}
}

func ToGameSummaries(records []*domain.GameRecord) []*jielongdto.GameSummary {
	out := make([]*jielongdto.GameSummary, 0, len(records))
	for _, r := range records {
		if s := ToGameSummary(r); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func ToScoreRows(entries []*domain.ScoreEntry) []*jielongdto.ScoreRow {
	rows := make([]*jielongdto.ScoreRow, 0, len(entries))
	for i, entry := range entries {
		row := &jielongdto.ScoreRow{Rank: i + 1, Name: entry.DisplayName}
		for _, g := range entry.RecentGames {
			row.Scores = append(row.Scores, g.Score)
			row.Total += g.Score
		}
		rows = append(rows, row)
	}
	return rows
}

func winnerLabel(winner string) string {
	switch strings.ToUpper(strings.TrimSpace(winner)) {
	case string(game.MoverUser):
		return "플레이어"
	case string(game.MoverOpponent):
		return "봇"
	default:
		return winner
	}
}
