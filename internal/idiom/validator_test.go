package idiom

import (
	"context"
	"errors"
	"testing"
)

type fakeJudge struct {
	reply string
	err   error
	asked int
}

func (f *fakeJudge) Ask(context.Context, string) (string, error) {
	f.asked++
	return f.reply, f.err
}

func testCatalog() *Catalog {
	return NewCatalog([]string{"开花结果", "果然如此", "天花乱坠"})
}

func TestValidateCatalogMode(t *testing.T) {
	v := NewValidator(testCatalog(), nil, ModeCatalog, nil)
	ctx := context.Background()

	got, err := v.Validate(ctx, " 开花结果！")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Text != "开花结果" {
		t.Fatalf("unexpected idiom %q", got.Text)
	}
}

func TestValidateWrongLength(t *testing.T) {
	v := NewValidator(testCatalog(), nil, ModeCatalog, nil)

	for _, in := range []string{"", "好", "开花结", "开花结果然"} {
		_, err := v.Validate(context.Background(), in)
		var wrongLen *WrongLengthError
		if !errors.As(err, &wrongLen) {
			t.Fatalf("Validate(%q): want WrongLengthError, got %v", in, err)
		}
	}
}

func TestValidateUnknownIdiom(t *testing.T) {
	v := NewValidator(testCatalog(), nil, ModeCatalog, nil)

	_, err := v.Validate(context.Background(), "龙飞凤舞")
	var notIdiom *NotIdiomError
	if !errors.As(err, &notIdiom) {
		t.Fatalf("want NotIdiomError, got %v", err)
	}
	if notIdiom.Text != "龙飞凤舞" {
		t.Fatalf("unexpected text %q", notIdiom.Text)
	}
}

func TestValidateJudgeAffirmative(t *testing.T) {
	for _, reply := range []string{"是", "是的", "yes", "Yes, it is.", "这是一个成语"} {
		judge := &fakeJudge{reply: reply}
		v := NewValidator(nil, judge, ModeJudge, nil)
		if _, err := v.Validate(context.Background(), "龙飞凤舞"); err != nil {
			t.Fatalf("reply %q: %v", reply, err)
		}
	}
}

func TestValidateJudgeNegative(t *testing.T) {
	judge := &fakeJudge{reply: "否"}
	v := NewValidator(nil, judge, ModeJudge, nil)

	_, err := v.Validate(context.Background(), "龙飞凤舞")
	var notIdiom *NotIdiomError
	if !errors.As(err, &notIdiom) {
		t.Fatalf("want NotIdiomError, got %v", err)
	}
}

func TestValidateJudgeFailureIsFailOpen(t *testing.T) {
	judge := &fakeJudge{err: errors.New("timeout")}
	v := NewValidator(nil, judge, ModeJudge, nil)

	got, err := v.Validate(context.Background(), "龙飞凤舞")
	if err != nil {
		t.Fatalf("judge outage must not reject: %v", err)
	}
	if got.Text != "龙飞凤舞" {
		t.Fatalf("unexpected idiom %q", got.Text)
	}
	if judge.asked != 1 {
		t.Fatalf("judge asked %d times, want 1", judge.asked)
	}
}

func TestValidateJudgeEmptyReplyIsFailOpen(t *testing.T) {
	judge := &fakeJudge{reply: "   "}
	v := NewValidator(nil, judge, ModeJudge, nil)

	if _, err := v.Validate(context.Background(), "龙飞凤舞"); err != nil {
		t.Fatalf("empty reply must not reject: %v", err)
	}
}

func TestValidateJudgeSkippedForMalformedInput(t *testing.T) {
	// Format checks run first; the judge never sees garbage.
	judge := &fakeJudge{reply: "是"}
	v := NewValidator(nil, judge, ModeJudge, nil)

	if _, err := v.Validate(context.Background(), "abc"); err == nil {
		t.Fatalf("malformed input must fail before the judge")
	}
	if judge.asked != 0 {
		t.Fatalf("judge consulted for malformed input")
	}
}
