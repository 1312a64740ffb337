package idiom

import (
	"crypto/rand"
	"embed"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
)

//go:embed idioms.json
var catalogFiles embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

type catalogFile struct {
	Idioms []string `json:"idioms"`
}

// Catalog is an in-memory idiom set indexed for membership and
// first-key continuation queries.
type Catalog struct {
	entries    []Idiom
	byText     map[string]struct{}
	byFirstKey map[string][]Idiom
}

// NewCatalog builds a catalog from raw idiom texts, deriving phonetic keys
// for each entry. Duplicate texts are collapsed.
func NewCatalog(texts []string) *Catalog {
	c := &Catalog{
		entries:    make([]Idiom, 0, len(texts)),
		byText:     make(map[string]struct{}, len(texts)),
		byFirstKey: make(map[string][]Idiom),
	}
	for _, t := range texts {
		if t == "" {
			continue
		}
		if _, seen := c.byText[t]; seen {
			continue
		}
		entry := New(t)
		c.entries = append(c.entries, entry)
		c.byText[t] = struct{}{}
		c.byFirstKey[entry.FirstKey] = append(c.byFirstKey[entry.FirstKey], entry)
	}
	return c
}

// DefaultCatalog loads the embedded idiom set once per process.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		raw, err := catalogFiles.ReadFile("idioms.json")
		if err != nil {
			defaultErr = fmt.Errorf("read embedded idioms: %w", err)
			return
		}
		var file catalogFile
		if err := json.Unmarshal(raw, &file); err != nil {
			defaultErr = fmt.Errorf("parse embedded idioms: %w", err)
			return
		}
		defaultCatalog = NewCatalog(file.Idioms)
	})
	return defaultCatalog, defaultErr
}

func (c *Catalog) Size() int { return len(c.entries) }

// Contains reports exact-text membership.
func (c *Catalog) Contains(text string) bool {
	_, ok := c.byText[text]
	return ok
}

// FindByFirstKey returns up to limit idioms whose first character keys to
// key. The result aliases no internal state.
func (c *Catalog) FindByFirstKey(key string, limit int) []Idiom {
	matches := c.byFirstKey[key]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return append([]Idiom(nil), matches...)
}

// RandomIdiom picks a uniformly random member. The zero Idiom is returned
// for an empty catalog.
func (c *Catalog) RandomIdiom() Idiom {
	if len(c.entries) == 0 {
		return Idiom{}
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.entries))))
	if err != nil {
		return c.entries[0]
	}
	return c.entries[n.Int64()]
}
