package idiom

import "testing"

func TestStripRemovesNonHan(t *testing.T) {
	cases := map[string]string{
		"开花结果":        "开花结果",
		" 开花结果！":      "开花结果",
		"kai开花结果123":  "开花结果",
		"开 花 结 果":     "开花结果",
		"hello world": "",
	}
	for in, want := range cases {
		if got := Strip(in); got != want {
			t.Fatalf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewDerivesBoundaryKeys(t *testing.T) {
	i := New("开花结果")
	if i.FirstKey == "" || i.LastKey == "" {
		t.Fatalf("missing keys: %+v", i)
	}
	if i.FirstKey != Key('开') || i.LastKey != Key('果') {
		t.Fatalf("boundary keys do not match character keys: %+v", i)
	}
}

func TestKeyFallsBackToCharacter(t *testing.T) {
	// Latin letters have no pinyin reading; the key degrades to the rune
	// itself so chaining becomes exact-character matching.
	if got := Key('x'); got != "x" {
		t.Fatalf("Key('x') = %q", got)
	}
}

func TestHomophoneKeysMatch(t *testing.T) {
	// 伏 and 福 share the reading fú; the chain rule works on sound, not
	// glyph.
	if Key('伏') != Key('福') {
		t.Fatalf("伏=%q 福=%q should share a key", Key('伏'), Key('福'))
	}
}

func TestFastReject(t *testing.T) {
	rejected := []string{
		"好的",       // too short
		"这是一句普通的话", // particle + length
		"哈哈哈哈",     // particle
		"",
	}
	for _, s := range rejected {
		if !FastReject(s) {
			t.Fatalf("FastReject(%q) = false, want true", s)
		}
	}
	accepted := []string{"开花结果", "天花乱坠", " 龙飞凤舞 "}
	for _, s := range accepted {
		if FastReject(s) {
			t.Fatalf("FastReject(%q) = true, want false", s)
		}
	}
}
