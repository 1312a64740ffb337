package idiom

import (
	"errors"
	"testing"
)

func TestCanChainExactCharacter(t *testing.T) {
	if err := CanChain(New("开花结果"), New("果然如此")); err != nil {
		t.Fatalf("CanChain: %v", err)
	}
}

func TestCanChainHomophone(t *testing.T) {
	// 伏 → 福: same reading, different characters.
	if err := CanChain(New("此起彼伏"), New("福星高照")); err != nil {
		t.Fatalf("homophone chain rejected: %v", err)
	}
}

func TestCanChainMismatch(t *testing.T) {
	err := CanChain(New("开花结果"), New("天花乱坠"))
	var mismatch *ChainMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("want ChainMismatchError, got %v", err)
	}
	if mismatch.PrevTail != '果' || mismatch.NextHead != '天' {
		t.Fatalf("mismatch detail wrong: %+v", mismatch)
	}
}

func TestCanChainIsDirectional(t *testing.T) {
	// 果然如此 may follow 开花结果 but not the other way around.
	if err := CanChain(New("果然如此"), New("开花结果")); err == nil {
		t.Fatalf("reverse chain must fail")
	}
}

func TestCanChainEmpty(t *testing.T) {
	if err := CanChain(Idiom{}, New("开花结果")); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
}
