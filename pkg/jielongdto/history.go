package jielongdto

// GameSummary is one finished game for history and stop messages.
type GameSummary struct {
	EndedAt string   `json:"ended_at"`
	Winner  string   `json:"winner"`
	Rounds  int      `json:"rounds"`
	Chain   []string `json:"chain"`
}
