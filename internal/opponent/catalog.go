package opponent

import (
	"context"
	"crypto/rand"
	"math/big"

	"go.uber.org/zap"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
)

const defaultCandidateLimit = 10

// CatalogStrategy answers from the static catalog. Deterministic set,
// random pick: games do not replay identically.
type CatalogStrategy struct {
	catalog        *idiom.Catalog
	candidateLimit int
	logger         *zap.Logger
}

func NewCatalogStrategy(catalog *idiom.Catalog, candidateLimit int, logger *zap.Logger) *CatalogStrategy {
	if candidateLimit <= 0 {
		candidateLimit = defaultCandidateLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogStrategy{catalog: catalog, candidateLimit: candidateLimit, logger: logger}
}

func (s *CatalogStrategy) NextMove(_ context.Context, prev idiom.Idiom) (idiom.Idiom, error) {
	candidates := s.catalog.FindByFirstKey(prev.LastKey, s.candidateLimit)
	if len(candidates) == 0 {
		s.logger.Debug("catalog exhausted for key", zap.String("key", prev.LastKey))
		return idiom.Idiom{}, ErrExhausted
	}
	return candidates[pickIndex(len(candidates))], nil
}

func (s *CatalogStrategy) OpeningMove(context.Context) (idiom.Idiom, error) {
	opening := s.catalog.RandomIdiom()
	if opening.Empty() {
		return idiom.Idiom{}, ErrExhausted
	}
	return opening, nil
}

func pickIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
