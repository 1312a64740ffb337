// Package game runs word-chain sessions: one active game per chat room,
// user and opponent alternating idioms, scores settling into the ledger
// when a game ends.
package game

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/domain"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/kvcache"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/opponent"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/score"
)

const snapshotKeyPrefix = "jielong:session:"

// snapshotKey hashes the session key so raw room identifiers never land in
// redis.
func snapshotKey(sessionKey string) string {
	sum := sha256.Sum256([]byte(sessionKey))
	return snapshotKeyPrefix + hex.EncodeToString(sum[:16])
}

// Validator is the subset of the idiom validator the service needs.
type Validator interface {
	Validate(ctx context.Context, raw string) (idiom.Idiom, error)
}

type Service struct {
	registry  *Registry
	validator Validator
	strategy  opponent.Strategy
	ledger    *score.Ledger
	cache     *kvcache.Cache // optional
	logger    *zap.Logger

	fallbackOpening idiom.Idiom
}

func NewService(
	registry *Registry,
	validator Validator,
	strategy opponent.Strategy,
	ledger *score.Ledger,
	cache *kvcache.Cache,
	fallbackOpening string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:        registry,
		validator:       validator,
		strategy:        strategy,
		ledger:          ledger,
		cache:           cache,
		logger:          logger,
		fallbackOpening: idiom.New(fallbackOpening),
	}
}

// StartResult describes a freshly started game. Opening is the opponent's
// first move: the opener itself, or the reply to the user's seed. When the
// opponent cannot answer a seed the game ends immediately and GameOver is
// set.
type StartResult struct {
	Seed     idiom.Idiom // zero unless the user seeded the game
	Opening  idiom.Idiom
	GameOver bool
	Winner   Mover
	Record   *domain.GameRecord
}

// MoveResult describes one accepted user move and its aftermath.
type MoveResult struct {
	UserMove     idiom.Idiom
	OpponentMove idiom.Idiom
	GameOver     bool
	Winner       Mover
	Record       *domain.GameRecord
}

// Start opens a game in the session. With an empty seed the opponent plays
// the opening move; with a seed the user plays first and the opponent
// answers within the same call.
func (s *Service) Start(ctx context.Context, sessionKey, userID, displayName, seed string) (*StartResult, error) {
	release := s.registry.Acquire(sessionKey)
	defer release()

	if s.registry.Get(sessionKey) != nil {
		return nil, ErrAlreadyActive
	}

	session := newSession(uuid.NewString(), sessionKey, time.Now())

	if seed == "" {
		opening, err := s.strategy.OpeningMove(ctx)
		if err != nil || opening.Empty() {
			if err != nil {
				s.logger.Warn("opening move failed, using fallback",
					zap.Error(err),
					zap.String("session_key", sessionKey),
				)
			}
			opening = s.fallbackOpening
		}
		session.append(opening, MoverOpponent)
		s.registry.Put(session)
		s.snapshot(ctx, session)
		s.logger.Info("game started",
			zap.String("session_key", sessionKey),
			zap.String("game_uuid", session.GameUUID),
			zap.String("opening", opening.Text),
		)
		return &StartResult{Opening: opening}, nil
	}

	seedIdiom, err := s.validator.Validate(ctx, seed)
	if err != nil {
		return nil, err
	}
	session.append(seedIdiom, MoverUser)
	session.creditUser(userID, displayName)

	reply, err := s.opponentReply(ctx, session)
	if err != nil {
		// User opened with something unanswerable: shortest possible win.
		record := s.finalize(ctx, session)
		s.logger.Info("game over at start, opponent could not answer seed",
			zap.String("session_key", sessionKey),
			zap.String("seed", seedIdiom.Text),
		)
		return &StartResult{Seed: seedIdiom, GameOver: true, Winner: MoverUser, Record: record}, nil
	}
	session.append(reply, MoverOpponent)
	s.registry.Put(session)
	s.snapshot(ctx, session)
	s.logger.Info("game started from seed",
		zap.String("session_key", sessionKey),
		zap.String("game_uuid", session.GameUUID),
		zap.String("seed", seedIdiom.Text),
		zap.String("reply", reply.Text),
	)
	return &StartResult{Seed: seedIdiom, Opening: reply}, nil
}

// Submit plays one user idiom. Validation and chain errors are returned to
// the caller without changing the game; an accepted move always credits
// the user before the opponent answers, so an opponent failure ends the
// game with the user as winner.
func (s *Service) Submit(ctx context.Context, sessionKey, userID, displayName, raw string) (*MoveResult, error) {
	release := s.registry.Acquire(sessionKey)
	defer release()

	session := s.registry.Get(sessionKey)
	if session == nil {
		return nil, ErrNoActiveGame
	}

	move, err := s.validator.Validate(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := idiom.CanChain(session.Current(), move); err != nil {
		return nil, err
	}
	if session.Used(move.Text) {
		return nil, &DuplicateIdiomError{Text: move.Text}
	}

	session.append(move, MoverUser)
	session.creditUser(userID, displayName)

	reply, err := s.opponentReply(ctx, session)
	if err != nil {
		record := s.finalize(ctx, session)
		s.logger.Info("game over, opponent could not continue",
			zap.String("session_key", sessionKey),
			zap.String("last_move", move.Text),
			zap.Int("rounds", record.RoundCount),
		)
		return &MoveResult{UserMove: move, GameOver: true, Winner: MoverUser, Record: record}, nil
	}

	session.append(reply, MoverOpponent)
	s.snapshot(ctx, session)
	return &MoveResult{UserMove: move, OpponentMove: reply}, nil
}

// Stop ends the session's game. Whoever moved last wins.
func (s *Service) Stop(ctx context.Context, sessionKey string) (*domain.GameRecord, error) {
	release := s.registry.Acquire(sessionKey)
	defer release()

	session := s.registry.Get(sessionKey)
	if session == nil {
		return nil, ErrNoActiveGame
	}
	record := s.finalize(ctx, session)
	s.logger.Info("game stopped",
		zap.String("session_key", sessionKey),
		zap.String("winner", record.Winner),
		zap.Int("rounds", record.RoundCount),
	)
	return record, nil
}

// RecentScores returns the session's rolling scoreboard.
func (s *Service) RecentScores(sessionKey string) []*domain.ScoreEntry {
	return s.ledger.RecentScores(sessionKey)
}

// RecentGames returns the session's game history, newest first.
func (s *Service) RecentGames(ctx context.Context, sessionKey string) ([]*domain.GameRecord, error) {
	return s.ledger.RecentGames(ctx, sessionKey)
}

// Active reports whether the session has a running game.
func (s *Service) Active(sessionKey string) bool {
	return s.registry.Get(sessionKey) != nil
}

// opponentReply asks the strategy for the next move and re-checks it. The
// strategy is not trusted: a malformed, non-chaining, unknown, or repeated
// reply counts as the opponent failing, never as a bad game state.
func (s *Service) opponentReply(ctx context.Context, session *Session) (idiom.Idiom, error) {
	reply, err := s.strategy.NextMove(ctx, session.Current())
	if err != nil {
		if !errors.Is(err, opponent.ErrExhausted) && !errors.Is(err, opponent.ErrUnavailable) {
			s.logger.Warn("opponent strategy failed",
				zap.Error(err),
				zap.String("session_key", session.SessionKey),
			)
		}
		return idiom.Idiom{}, err
	}
	if reply.Empty() || idiom.CanChain(session.Current(), reply) != nil {
		return idiom.Idiom{}, opponent.ErrExhausted
	}
	if session.Used(reply.Text) {
		return idiom.Idiom{}, opponent.ErrExhausted
	}
	return reply, nil
}

// finalize settles a finished game: ledger scores, history record,
// snapshot cleanup, registry removal. Persistence is best-effort; the
// in-memory outcome is already decided.
func (s *Service) finalize(ctx context.Context, session *Session) *domain.GameRecord {
	endedAt := time.Now()
	record := &domain.GameRecord{
		GameUUID:         session.GameUUID,
		SessionKey:       session.SessionKey,
		StartedAt:        session.StartedAt,
		EndedAt:          endedAt,
		Chain:            session.Chain(),
		RoundCount:       len(session.History) - 1,
		ParticipantCount: len(session.Scores),
		Winner:           string(session.LastMover),
	}

	for userID, ps := range session.Scores {
		s.ledger.RecordCompletedGame(ctx, session.SessionKey, userID, ps.DisplayName, ps.Score, endedAt)
	}
	s.ledger.RecordGame(ctx, record)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, snapshotKey(session.SessionKey)); err != nil {
			s.logger.Debug("snapshot delete failed", zap.Error(err))
		}
	}
	s.registry.Remove(session.SessionKey)
	return record
}

type sessionSnapshot struct {
	GameUUID  string    `json:"game_uuid"`
	StartedAt time.Time `json:"started_at"`
	Chain     []string  `json:"chain"`
	LastMover string    `json:"last_mover"`
}

func (s *Service) snapshot(ctx context.Context, session *Session) {
	if s.cache == nil {
		return
	}
	snap := sessionSnapshot{
		GameUUID:  session.GameUUID,
		StartedAt: session.StartedAt,
		Chain:     session.Chain(),
		LastMover: string(session.LastMover),
	}
	if err := s.cache.SetJSON(ctx, snapshotKey(session.SessionKey), snap); err != nil {
		s.logger.Debug("snapshot write failed",
			zap.Error(err),
			zap.String("session_key", session.SessionKey),
		)
	}
}
