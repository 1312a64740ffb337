package kvcache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type payload struct {
	Chain []string `json:"chain"`
	Round int      `json:"round"`
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewFromURL(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()), time.Minute)
	if err != nil {
		t.Fatalf("NewFromURL: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := payload{Chain: []string{"龙飞凤舞", "舞文弄墨"}, Round: 1}
	if err := c.SetJSON(ctx, "jielong:snapshot:room-1", in); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out payload
	found, err := c.GetJSON(ctx, "jielong:snapshot:room-1", &out)
	if err != nil || !found {
		t.Fatalf("GetJSON: found=%v err=%v", found, err)
	}
	if out.Round != 1 || len(out.Chain) != 2 || out.Chain[1] != "舞文弄墨" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestCacheMissingKey(t *testing.T) {
	c := newTestCache(t)

	var out payload
	found, err := c.GetJSON(context.Background(), "jielong:snapshot:none", &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Fatalf("want miss, got hit")
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", payload{Round: 2}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var out payload
	if found, _ := c.GetJSON(ctx, "k", &out); found {
		t.Fatalf("key survived delete")
	}
}
