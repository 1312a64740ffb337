// Package score keeps the per-room scoreboard and game history.
//
// The in-memory ledger is authoritative for scores; the repository is a
// write-behind so restarts do not wipe the board. Persistence failures are
// logged and swallowed: a broken database never blocks a game from
// finishing.
package score

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
)

// maxRecentGames is how many completed-game scores are kept per user.
// Older scores roll off; the board reflects recent form, not lifetime
// totals.
const maxRecentGames = 3

type Ledger struct {
	mu     sync.RWMutex
	scores map[string]map[string]*domain.ScoreEntry

	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		scores: make(map[string]map[string]*domain.ScoreEntry),
		repo:   repo,
		logger: logger,
	}
}

// Load replaces the in-memory board with the persisted one. Called once at
// startup, before any game traffic.
func (l *Ledger) Load(ctx context.Context) error {
	if l.repo == nil {
		return nil
	}
	scores, err := l.repo.LoadScores(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.scores = scores
	l.mu.Unlock()
	return nil
}

// RecordCompletedGame appends one finished game's score for a user,
// trimming to the newest maxRecentGames. DisplayName is overwritten each
// time so renames propagate.
func (l *Ledger) RecordCompletedGame(ctx context.Context, sessionKey, userID, displayName string, points int, completedAt time.Time) {
	l.mu.Lock()
	byUser := l.scores[sessionKey]
	if byUser == nil {
		byUser = make(map[string]*domain.ScoreEntry)
		l.scores[sessionKey] = byUser
	}
	entry := byUser[userID]
	if entry == nil {
		entry = &domain.ScoreEntry{}
		byUser[userID] = entry
	}
	entry.DisplayName = displayName
	entry.RecentGames = append(entry.RecentGames, domain.GameScore{Score: points, CompletedAt: completedAt})
	if len(entry.RecentGames) > maxRecentGames {
		entry.RecentGames = entry.RecentGames[len(entry.RecentGames)-maxRecentGames:]
	}
	snapshot := *entry
	snapshot.RecentGames = append([]domain.GameScore(nil), entry.RecentGames...)
	l.mu.Unlock()

	if l.repo == nil {
		return
	}
	if err := l.repo.UpsertScore(ctx, sessionKey, userID, &snapshot); err != nil {
		l.logger.Warn("score persist failed",
			zap.Error(err),
			zap.String("session_key", sessionKey),
			zap.String("user_id", userID),
		)
	}
}

// RecentScores returns the session's board, best recent form first. The
// entries are copies.
func (l *Ledger) RecentScores(sessionKey string) []*domain.ScoreEntry {
	l.mu.RLock()
	byUser := l.scores[sessionKey]
	entries := make([]*domain.ScoreEntry, 0, len(byUser))
	for _, entry := range byUser {
		snapshot := *entry
		snapshot.RecentGames = append([]domain.GameScore(nil), entry.RecentGames...)
		entries = append(entries, &snapshot)
	}
	l.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		si, sj := recentTotal(entries[i]), recentTotal(entries[j])
		if si != sj {
			return si > sj
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})
	return entries
}

// RecordGame persists a finished game into the room history. Best-effort,
// same policy as scores.
func (l *Ledger) RecordGame(ctx context.Context, record *domain.GameRecord) {
	if l.repo == nil || record == nil {
		return
	}
	if _, err := l.repo.InsertGame(ctx, record); err != nil && !errors.Is(err, ErrDuplicateGame) {
		l.logger.Warn("game record persist failed",
			zap.Error(err),
			zap.String("session_key", record.SessionKey),
			zap.String("game_uuid", record.GameUUID),
		)
	}
}

// RecentGames returns the newest-first room history, at most ten entries.
func (l *Ledger) RecentGames(ctx context.Context, sessionKey string) ([]*domain.GameRecord, error) {
	if l.repo == nil {
		return nil, nil
	}
	return l.repo.RecentGames(ctx, sessionKey, maxHistoryRecords)
}

func recentTotal(entry *domain.ScoreEntry) int {
	total := 0
	for _, g := range entry.RecentGames {
		total += g.Score
	}
	return total
}
