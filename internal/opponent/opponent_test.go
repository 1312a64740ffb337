package opponent

import (
	"context"
	"errors"
	"testing"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
)

type fakeAsker struct {
	reply string
	err   error
}

func (f *fakeAsker) Ask(context.Context, string) (string, error) {
	return f.reply, f.err
}

func TestCatalogStrategyNextMoveChains(t *testing.T) {
	catalog := idiom.NewCatalog([]string{"开花结果", "果然如此", "此起彼伏"})
	s := NewCatalogStrategy(catalog, 0, nil)

	prev := idiom.New("开花结果")
	move, err := s.NextMove(context.Background(), prev)
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if move.FirstKey != prev.LastKey {
		t.Fatalf("move %q does not chain onto %q", move.Text, prev.Text)
	}
}

func TestCatalogStrategyExhausted(t *testing.T) {
	catalog := idiom.NewCatalog([]string{"开花结果"})
	s := NewCatalogStrategy(catalog, 0, nil)

	_, err := s.NextMove(context.Background(), idiom.New("此起彼伏"))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestCatalogStrategyOpeningMove(t *testing.T) {
	catalog := idiom.NewCatalog([]string{"龙飞凤舞"})
	s := NewCatalogStrategy(catalog, 0, nil)

	opening, err := s.OpeningMove(context.Background())
	if err != nil {
		t.Fatalf("OpeningMove: %v", err)
	}
	if opening.Text != "龙飞凤舞" {
		t.Fatalf("unexpected opening %q", opening.Text)
	}
}

func TestLLMStrategyAcceptsChainingReply(t *testing.T) {
	s := NewLLMStrategy(&fakeAsker{reply: "  果然如此。"}, nil, nil)

	move, err := s.NextMove(context.Background(), idiom.New("开花结果"))
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if move.Text != "果然如此" {
		t.Fatalf("want 果然如此, got %q", move.Text)
	}
}

func TestLLMStrategyRejectsNonChainingReply(t *testing.T) {
	s := NewLLMStrategy(&fakeAsker{reply: "天花乱坠"}, nil, nil)

	_, err := s.NextMove(context.Background(), idiom.New("开花结果"))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestLLMStrategyRejectsMalformedReply(t *testing.T) {
	for _, reply := range []string{"", "认输", "果然如此啊这个接得好"} {
		s := NewLLMStrategy(&fakeAsker{reply: reply}, nil, nil)
		if _, err := s.NextMove(context.Background(), idiom.New("开花结果")); !errors.Is(err, ErrExhausted) {
			t.Fatalf("reply %q: want ErrExhausted, got %v", reply, err)
		}
	}
}

func TestLLMStrategyTransportFailure(t *testing.T) {
	s := NewLLMStrategy(&fakeAsker{err: errors.New("connection refused")}, nil, nil)

	_, err := s.NextMove(context.Background(), idiom.New("开花结果"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
