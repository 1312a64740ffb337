package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/opponent"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/score"
)

// scriptedStrategy plays a fixed opening and then pops replies in order.
// When the script runs out it reports failErr.
type scriptedStrategy struct {
	mu      sync.Mutex
	opening string
	replies []string
	failErr error
}

func (s *scriptedStrategy) OpeningMove(context.Context) (idiom.Idiom, error) {
	if s.opening == "" {
		return idiom.Idiom{}, opponent.ErrExhausted
	}
	return idiom.New(s.opening), nil
}

func (s *scriptedStrategy) NextMove(context.Context, idiom.Idiom) (idiom.Idiom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		if s.failErr != nil {
			return idiom.Idiom{}, s.failErr
		}
		return idiom.Idiom{}, opponent.ErrExhausted
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return idiom.New(next), nil
}

var testIdioms = []string{
	"开花结果", "果然如此", "此起彼伏", "天花乱坠", "龙飞凤舞", "精益求精",
}

func newTestService(t *testing.T, strategy opponent.Strategy) *Service {
	t.Helper()
	catalog := idiom.NewCatalog(testIdioms)
	validator := idiom.NewValidator(catalog, nil, idiom.ModeCatalog, nil)
	ledger := score.NewLedger(score.NewMemoryRepository(), nil)
	return NewService(NewRegistry(), validator, strategy, ledger, nil, "龙飞凤舞", nil)
}

func TestStartWithoutSeedOpensWithOpponentMove(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})

	res, err := svc.Start(context.Background(), "room-1", "", "", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Opening.Text != "龙飞凤舞" {
		t.Fatalf("unexpected opening %q", res.Opening.Text)
	}
	if !svc.Active("room-1") {
		t.Fatalf("session not active after start")
	}
}

func TestStartWithSeedGetsImmediateReply(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{replies: []string{"果然如此"}})

	res, err := svc.Start(context.Background(), "room-1", "user-a", "김철수", "开花结果")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Seed.Text != "开花结果" || res.Opening.Text != "果然如此" {
		t.Fatalf("unexpected start result: %+v", res)
	}
	if res.GameOver {
		t.Fatalf("game ended prematurely")
	}
}

func TestStartTwiceFails(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := svc.Start(ctx, "room-1", "", "", ""); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("want ErrAlreadyActive, got %v", err)
	}
}

func TestSubmitChainsAndOpponentAnswers(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{replies: []string{"果然如此"}, failErr: opponent.ErrExhausted})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "user-a", "김철수", "开花结果"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Opponent script is exhausted: the user's valid move wins the game.
	res, err := svc.Submit(ctx, "room-1", "user-a", "김철수", "此起彼伏")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.GameOver || res.Winner != MoverUser {
		t.Fatalf("want user win, got %+v", res)
	}
	if res.Record.RoundCount != 2 || res.Record.ParticipantCount != 1 {
		t.Fatalf("unexpected record: %+v", res.Record)
	}
	if svc.Active("room-1") {
		t.Fatalf("session still active after game over")
	}

	entries := svc.RecentScores("room-1")
	if len(entries) != 1 || entries[0].RecentGames[0].Score != 2 {
		t.Fatalf("score not settled: %+v", entries)
	}
}

func TestSubmitRejectsChainMismatch(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{replies: []string{"果然如此"}})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "user-a", "김철수", "开花结果"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err := svc.Submit(ctx, "room-1", "user-a", "김철수", "天花乱坠")
	var mismatch *idiom.ChainMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("want ChainMismatchError, got %v", err)
	}
	if !svc.Active("room-1") {
		t.Fatalf("rejected move must not end the game")
	}
}

func TestSubmitRejectsUnknownIdiom(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err := svc.Submit(ctx, "room-1", "user-a", "김철수", "舞舞舞舞")
	var notIdiom *idiom.NotIdiomError
	if !errors.As(err, &notIdiom) {
		t.Fatalf("want NotIdiomError, got %v", err)
	}
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	// 精益求精 chains onto itself, so resubmitting it exercises only the
	// duplicate rule.
	svc := newTestService(t, &scriptedStrategy{opening: "精益求精"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err := svc.Submit(ctx, "room-1", "user-a", "김철수", "精益求精")
	var dup *DuplicateIdiomError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateIdiomError, got %v", err)
	}
}

func TestSubmitWithoutGame(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{})

	_, err := svc.Submit(context.Background(), "room-1", "user-a", "김철수", "开花结果")
	if !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("want ErrNoActiveGame, got %v", err)
	}
}

func TestOpponentUnavailableEndsGameForUser(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{replies: []string{"果然如此"}, failErr: opponent.ErrUnavailable})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "user-a", "김철수", "开花结果"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res, err := svc.Submit(ctx, "room-1", "user-a", "김철수", "此起彼伏")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.GameOver || res.Winner != MoverUser {
		t.Fatalf("opponent outage must favor the user: %+v", res)
	}
}

func TestStopRecordsLastMoverAsWinner(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	record, err := svc.Stop(ctx, "room-1")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if record.Winner != string(MoverOpponent) {
		t.Fatalf("want opponent win after opening-only game, got %q", record.Winner)
	}
	if _, err := svc.Stop(ctx, "room-1"); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("second Stop: want ErrNoActiveGame, got %v", err)
	}
}

func TestStopRecordsHistory(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Stop(ctx, "room-1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	records, err := svc.RecentGames(ctx, "room-1")
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(records) != 1 || records[0].Chain[0] != "龙飞凤舞" {
		t.Fatalf("history not recorded: %+v", records)
	}
}

func TestConcurrentStartAdmitsExactlyOne(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, "room-1", "", "", "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	started := 0
	for err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, ErrAlreadyActive):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if started != 1 {
		t.Fatalf("want exactly one successful start, got %d", started)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService(t, &scriptedStrategy{opening: "龙飞凤舞"})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "room-1", "", "", ""); err != nil {
		t.Fatalf("Start room-1: %v", err)
	}
	if _, err := svc.Start(ctx, "room-2", "", "", ""); err != nil {
		t.Fatalf("Start room-2: %v", err)
	}
	if _, err := svc.Stop(ctx, "room-1"); err != nil {
		t.Fatalf("Stop room-1: %v", err)
	}
	if !svc.Active("room-2") {
		t.Fatalf("stopping room-1 must not touch room-2")
	}
}
