package game

import (
	"time"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
)

// Mover identifies who placed a move. The last mover of a finished game is
// its winner.
type Mover string

const (
	MoverUser     Mover = "USER"
	MoverOpponent Mover = "OPPONENT"
)

// PlayerScore counts one user's accepted idioms in the current game.
type PlayerScore struct {
	DisplayName string
	Score       int
}

// Session is one in-progress game. It is never touched without holding the
// session key's lock from the Registry, so it carries no mutex of its own.
type Session struct {
	GameUUID   string
	SessionKey string
	StartedAt  time.Time

	History   []idiom.Idiom
	used      map[string]struct{}
	LastMover Mover

	Scores map[string]*PlayerScore // userID -> score
}

func newSession(gameUUID, sessionKey string, now time.Time) *Session {
	return &Session{
		GameUUID:   gameUUID,
		SessionKey: sessionKey,
		StartedAt:  now,
		used:       make(map[string]struct{}),
		Scores:     make(map[string]*PlayerScore),
	}
}

func (s *Session) Used(text string) bool {
	_, ok := s.used[text]
	return ok
}

// Current returns the idiom the next move must chain onto.
func (s *Session) Current() idiom.Idiom {
	if len(s.History) == 0 {
		return idiom.Idiom{}
	}
	return s.History[len(s.History)-1]
}

func (s *Session) append(move idiom.Idiom, mover Mover) {
	s.History = append(s.History, move)
	s.used[move.Text] = struct{}{}
	s.LastMover = mover
}

func (s *Session) creditUser(userID, displayName string) {
	ps := s.Scores[userID]
	if ps == nil {
		ps = &PlayerScore{}
		s.Scores[userID] = ps
	}
	ps.DisplayName = displayName
	ps.Score++
}

// Chain returns the played idioms in order.
func (s *Session) Chain() []string {
	chain := make([]string, len(s.History))
	for i, move := range s.History {
		chain[i] = move.Text
	}
	return chain
}
