package domain

import "time"

// GameRecord is one completed word-chain game for a chat session.
type GameRecord struct {
	ID               int64
	GameUUID         string
	SessionKey       string
	StartedAt        time.Time
	EndedAt          time.Time
	Chain            []string
	RoundCount       int
	ParticipantCount int
	Winner           string
}

// GameScore is a single finished game's score for one player.
type GameScore struct {
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// ScoreEntry is the rolling per-user ledger row for one session.
// RecentGames is ordered oldest first, newest last.
type ScoreEntry struct {
	DisplayName string      `json:"display_name"`
	RecentGames []GameScore `json:"recent_games"`
}
