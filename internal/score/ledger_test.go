package score

import (
	"context"
	"testing"
	"time"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
)

func TestLedgerKeepsOnlyRecentGames(t *testing.T) {
	ledger := NewLedger(NewMemoryRepository(), nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, points := range []int{2, 5, 1, 7} {
		ledger.RecordCompletedGame(ctx, "room-1", "user-a", "김철수", points, base.Add(time.Duration(i)*time.Hour))
	}

	entries := ledger.RecentScores("room-1")
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	games := entries[0].RecentGames
	if len(games) != 3 {
		t.Fatalf("want 3 recent games, got %d", len(games))
	}
	// Oldest game (score 2) rolled off; newest is last.
	if games[0].Score != 5 || games[1].Score != 1 || games[2].Score != 7 {
		t.Fatalf("unexpected retained scores: %+v", games)
	}
}

func TestLedgerOverwritesDisplayName(t *testing.T) {
	ledger := NewLedger(nil, nil)
	ctx := context.Background()
	now := time.Now()

	ledger.RecordCompletedGame(ctx, "room-1", "user-a", "옛날이름", 3, now)
	ledger.RecordCompletedGame(ctx, "room-1", "user-a", "새이름", 4, now.Add(time.Minute))

	entries := ledger.RecentScores("room-1")
	if len(entries) != 1 || entries[0].DisplayName != "새이름" {
		t.Fatalf("display name not overwritten: %+v", entries)
	}
}

func TestLedgerOrdersByRecentTotal(t *testing.T) {
	ledger := NewLedger(nil, nil)
	ctx := context.Background()
	now := time.Now()

	ledger.RecordCompletedGame(ctx, "room-1", "user-a", "A", 2, now)
	ledger.RecordCompletedGame(ctx, "room-1", "user-b", "B", 6, now)

	entries := ledger.RecentScores("room-1")
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].DisplayName != "B" {
		t.Fatalf("want B first, got %s", entries[0].DisplayName)
	}
}

func TestLedgerLoadRestoresBoard(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := NewLedger(repo, nil)
	first.RecordCompletedGame(ctx, "room-1", "user-a", "김철수", 9, time.Now())

	second := NewLedger(repo, nil)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	entries := second.RecentScores("room-1")
	if len(entries) != 1 || entries[0].RecentGames[0].Score != 9 {
		t.Fatalf("board not restored: %+v", entries)
	}
}

func TestRepositoryHistoryTrimsToTen(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		record := &domain.GameRecord{
			GameUUID:   string(rune('a' + i)),
			SessionKey: "room-1",
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			EndedAt:    base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			Chain:      []string{"龙飞凤舞", "舞文弄墨"},
			RoundCount: 1,
			Winner:     "USER",
		}
		if _, err := repo.InsertGame(ctx, record); err != nil {
			t.Fatalf("InsertGame %d: %v", i, err)
		}
	}

	records, err := repo.RecentGames(ctx, "room-1", 0)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("want 10 records, got %d", len(records))
	}
	// Newest first.
	if !records[0].EndedAt.After(records[9].EndedAt) {
		t.Fatalf("history not newest-first")
	}
}
