package score

import (
	"context"
	"sync"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
)

// memrepo is a development-only in-memory repository implementation used when no DB is configured.
type memrepo struct {
	mu sync.RWMutex

	nextID int64

	scores      map[string]map[string]*domain.ScoreEntry
	gamesByRoom map[string][]*domain.GameRecord // sessionKey -> slice (append, latest last)
	gamesByUUID map[string]struct{}
}

func NewMemoryRepository() Repository {
	return &memrepo{
		scores:      make(map[string]map[string]*domain.ScoreEntry),
		gamesByRoom: make(map[string][]*domain.GameRecord),
		gamesByUUID: make(map[string]struct{}),
	}
}

func (m *memrepo) UpsertScore(_ context.Context, sessionKey, userID string, entry *domain.ScoreEntry) error {
	if entry == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scores[sessionKey] == nil {
		m.scores[sessionKey] = make(map[string]*domain.ScoreEntry)
	}
	stored := *entry
	stored.RecentGames = append([]domain.GameScore(nil), entry.RecentGames...)
	m.scores[sessionKey][userID] = &stored
	return nil
}

func (m *memrepo) LoadScores(context.Context) (map[string]map[string]*domain.ScoreEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]*domain.ScoreEntry, len(m.scores))
	for sessionKey, byUser := range m.scores {
		out[sessionKey] = make(map[string]*domain.ScoreEntry, len(byUser))
		for userID, entry := range byUser {
			stored := *entry
			stored.RecentGames = append([]domain.GameScore(nil), entry.RecentGames...)
			out[sessionKey][userID] = &stored
		}
	}
	return out, nil
}

func (m *memrepo) InsertGame(_ context.Context, record *domain.GameRecord) (int64, error) {
	if record == nil {
		return 0, ErrDuplicateGame
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.gamesByUUID[record.GameUUID]; exists {
		return 0, ErrDuplicateGame
	}

	m.nextID++
	stored := *record
	stored.ID = m.nextID
	stored.Chain = append([]string(nil), record.Chain...)

	m.gamesByUUID[record.GameUUID] = struct{}{}
	list := append(m.gamesByRoom[record.SessionKey], &stored)
	if len(list) > maxHistoryRecords {
		list = list[len(list)-maxHistoryRecords:]
	}
	m.gamesByRoom[record.SessionKey] = list
	return stored.ID, nil
}

func (m *memrepo) RecentGames(_ context.Context, sessionKey string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 || limit > maxHistoryRecords {
		limit = maxHistoryRecords
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.gamesByRoom[sessionKey]
	out := make([]*domain.GameRecord, 0, limit)
	// Latest first, matching the SQL ordering.
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		stored := *list[i]
		stored.Chain = append([]string(nil), list[i].Chain...)
		out = append(out, &stored)
	}
	return out, nil
}
