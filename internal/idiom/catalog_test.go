package idiom

import "testing"

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if c.Size() < 100 {
		t.Fatalf("suspiciously small catalog: %d", c.Size())
	}
	for _, text := range []string{"龙飞凤舞", "开花结果", "果然如此"} {
		if !c.Contains(text) {
			t.Fatalf("catalog missing %q", text)
		}
	}
}

func TestCatalogDeduplicates(t *testing.T) {
	c := NewCatalog([]string{"开花结果", "开花结果", "", "果然如此"})
	if c.Size() != 2 {
		t.Fatalf("want 2 entries, got %d", c.Size())
	}
}

func TestFindByFirstKey(t *testing.T) {
	c := NewCatalog([]string{"开花结果", "果然如此", "此起彼伏"})

	matches := c.FindByFirstKey(Key('果'), 0)
	if len(matches) != 1 || matches[0].Text != "果然如此" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if got := c.FindByFirstKey(Key('龙'), 0); len(got) != 0 {
		t.Fatalf("want no matches, got %+v", got)
	}
}

func TestFindByFirstKeyLimit(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	// 天长地久 and 天花乱坠 both start with tiān.
	matches := c.FindByFirstKey(Key('天'), 1)
	if len(matches) != 1 {
		t.Fatalf("limit ignored: %d matches", len(matches))
	}
}

func TestRandomIdiomFromCatalog(t *testing.T) {
	c := NewCatalog([]string{"开花结果"})
	if got := c.RandomIdiom(); got.Text != "开花结果" {
		t.Fatalf("unexpected pick %+v", got)
	}
	var empty Catalog
	if got := empty.RandomIdiom(); !got.Empty() {
		t.Fatalf("empty catalog must return zero idiom")
	}
}
