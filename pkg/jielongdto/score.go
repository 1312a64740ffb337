package jielongdto

// ScoreRow is one scoreboard line: recent per-game scores, oldest first.
type ScoreRow struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Scores []int  `json:"scores"`
}
