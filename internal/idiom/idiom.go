package idiom

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// Length is the number of Han characters a valid idiom must have.
const Length = 4

var keyArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.Tone
	return a
}()

// Idiom is an immutable four-character phrase with its phonetic boundary
// keys precomputed for chaining.
type Idiom struct {
	Text     string
	FirstKey string
	LastKey  string
}

// New derives the boundary keys for text. It does not validate; use
// Validator.Validate for untrusted input.
func New(text string) Idiom {
	runes := []rune(text)
	if len(runes) == 0 {
		return Idiom{}
	}
	return Idiom{
		Text:     text,
		FirstKey: Key(runes[0]),
		LastKey:  Key(runes[len(runes)-1]),
	}
}

func (i Idiom) Empty() bool { return i.Text == "" }

// Head returns the first character, or 0 when empty.
func (i Idiom) Head() rune {
	for _, r := range i.Text {
		return r
	}
	return 0
}

// Tail returns the last character, or 0 when empty.
func (i Idiom) Tail() rune {
	var last rune
	for _, r := range i.Text {
		last = r
	}
	return last
}

// Key returns the phonetic class of a character: its pinyin reading with
// tone marks. Characters without a known reading key to themselves, which
// degrades chaining to exact-character matching for them.
func Key(r rune) string {
	readings := pinyin.SinglePinyin(r, keyArgs)
	if len(readings) == 0 {
		return string(r)
	}
	return readings[0]
}

// Strip removes every rune outside the permitted alphabet (CJK unified
// ideographs), mirroring how punctuation and spacing are shed before the
// length check.
func Strip(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isHan(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isHan(r rune) bool { return r >= 0x4e00 && r <= 0x9fff }

// conversationalParticles are function characters that essentially never
// appear in a four-character idiom but are common in ordinary chat.
const conversationalParticles = "的了吗呢吧啊哦嗯呀哈"

// FastReject is a cheap pre-filter for free-text chat routing: it reports
// whether raw obviously cannot be an idiom candidate. It is a heuristic
// with false negatives and is never a substitute for Validate.
func FastReject(raw string) bool {
	if strings.ContainsAny(raw, conversationalParticles) {
		return true
	}
	stripped := Strip(raw)
	return len([]rune(stripped)) != Length
}
