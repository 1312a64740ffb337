package score

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
)

var ErrDuplicateGame = errors.New("jielong game already recorded")

// maxHistoryRecords bounds the per-room game history; older rows are pruned
// on insert.
const maxHistoryRecords = 10

type Repository interface {
	UpsertScore(ctx context.Context, sessionKey, userID string, entry *domain.ScoreEntry) error
	LoadScores(ctx context.Context) (map[string]map[string]*domain.ScoreEntry, error)
	InsertGame(ctx context.Context, record *domain.GameRecord) (int64, error)
	RecentGames(ctx context.Context, sessionKey string, limit int) ([]*domain.GameRecord, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertScore(ctx context.Context, sessionKey, userID string, entry *domain.ScoreEntry) error {
	if entry == nil {
		return fmt.Errorf("nil score entry payload")
	}
	recentGames, err := json.Marshal(entry.RecentGames)
	if err != nil {
		return fmt.Errorf("marshal recent_games: %w", err)
	}

	const query = `
		INSERT INTO jielong_scores (
			session_key,
			user_id,
			display_name,
			recent_games,
			updated_at
		)
		VALUES ($1, $2, $3, $4::jsonb, NOW())
		ON CONFLICT (session_key, user_id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			recent_games = EXCLUDED.recent_games,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, sessionKey, userID, entry.DisplayName, recentGames); err != nil {
		return fmt.Errorf("upsert jielong score: %w", err)
	}
	return nil
}

func (r *repository) LoadScores(ctx context.Context) (map[string]map[string]*domain.ScoreEntry, error) {
	const query = `
		SELECT
			session_key,
			user_id,
			display_name,
			recent_games
		FROM jielong_scores`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select jielong scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]map[string]*domain.ScoreEntry)
	for rows.Next() {
		var (
			sessionKey      string
			userID          string
			entry           domain.ScoreEntry
			recentGamesJSON []byte
		)
		if err := rows.Scan(&sessionKey, &userID, &entry.DisplayName, &recentGamesJSON); err != nil {
			return nil, fmt.Errorf("scan jielong score: %w", err)
		}
		if err := json.Unmarshal(recentGamesJSON, &entry.RecentGames); err != nil {
			return nil, fmt.Errorf("unmarshal recent_games: %w", err)
		}
		if scores[sessionKey] == nil {
			scores[sessionKey] = make(map[string]*domain.ScoreEntry)
		}
		scores[sessionKey][userID] = &entry
	}
	return scores, rows.Err()
}

func (r *repository) InsertGame(ctx context.Context, record *domain.GameRecord) (int64, error) {
	if record == nil {
		return 0, fmt.Errorf("nil game record payload")
	}
	chain, err := json.Marshal(record.Chain)
	if err != nil {
		return 0, fmt.Errorf("marshal chain: %w", err)
	}

	const query = `
		INSERT INTO jielong_games (
			game_uuid,
			session_key,
			started_at,
			ended_at,
			chain,
			round_count,
			participant_count,
			winner
		)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)
		ON CONFLICT (game_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(
		ctx,
		query,
		record.GameUUID,
		record.SessionKey,
		record.StartedAt,
		record.EndedAt,
		chain,
		record.RoundCount,
		record.ParticipantCount,
		record.Winner,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert jielong game: %w", err)
	}

	const prune = `
		DELETE FROM jielong_games
		WHERE session_key = $1
		AND id NOT IN (
			SELECT id FROM jielong_games
			WHERE session_key = $1
			ORDER BY ended_at DESC, id DESC
			LIMIT $2
		)`
	if _, err := r.db.ExecContext(ctx, prune, record.SessionKey, maxHistoryRecords); err != nil {
		return id.Int64, fmt.Errorf("prune jielong games: %w", err)
	}
	return id.Int64, nil
}

func (r *repository) RecentGames(ctx context.Context, sessionKey string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 || limit > maxHistoryRecords {
		limit = maxHistoryRecords
	}
	const query = `
		SELECT
			id,
			game_uuid,
			session_key,
			started_at,
			ended_at,
			chain,
			round_count,
			participant_count,
			winner
		FROM jielong_games
		WHERE session_key = $1
		ORDER BY ended_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, sessionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("select jielong games: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.GameRecord, 0, limit)
	for rows.Next() {
		var (
			record    domain.GameRecord
			chainJSON []byte
		)
		if err := rows.Scan(
			&record.ID,
			&record.GameUUID,
			&record.SessionKey,
			&record.StartedAt,
			&record.EndedAt,
			&chainJSON,
			&record.RoundCount,
			&record.ParticipantCount,
			&record.Winner,
		); err != nil {
			return nil, fmt.Errorf("scan jielong game: %w", err)
		}
		if err := json.Unmarshal(chainJSON, &record.Chain); err != nil {
			return nil, fmt.Errorf("unmarshal chain: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
