package pagecache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/xcite/internal/work"
)

// setupTestCache opens a cache in a temp dir with a controllable clock.
func setupTestCache(t *testing.T, ttl time.Duration) (*Cache, *time.Time) {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "pages.db"), ttl)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func testPage(next string, ids ...string) *work.Page {
	p := &work.Page{NextCursor: next}
	for _, id := range ids {
		p.Works = append(p.Works, work.RawWork{ID: id, Title: work.StrPtr("t-" + id), PublicationYear: work.IntPtr(2020)})
	}
	return p
}

func TestCache_PutGet(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)

	if _, ok, err := c.Get("A1", "*"); ok || err != nil {
		t.Fatalf("empty cache Get() = %v, %v", ok, err)
	}

	if err := c.Put("https://openalex.org/A1", "*", testPage("next", "W1", "W2")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// the short and URL forms of an id share entries
	got, ok, err := c.Get("A1", "*")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if !got.Cached {
		t.Error("cached page should be marked Cached")
	}
	if got.NextCursor != "next" || len(got.Works) != 2 {
		t.Errorf("page = %+v", got)
	}
	if *got.Works[0].Title != "t-W1" || *got.Works[0].PublicationYear != 2020 {
		t.Errorf("work = %+v", got.Works[0])
	}

	if _, ok, _ := c.Get("A1", "next"); ok {
		t.Error("different cursor should miss")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clock := setupTestCache(t, time.Hour)
	c.Put("A1", "*", testPage("", "W1"))

	*clock = clock.Add(59 * time.Minute)
	if _, ok, _ := c.Get("A1", "*"); !ok {
		t.Error("page should still be fresh")
	}

	*clock = clock.Add(2 * time.Minute)
	if _, ok, _ := c.Get("A1", "*"); ok {
		t.Error("page should have expired")
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Pages != 1 || stats.Expired != 1 {
		t.Errorf("stats = %+v", stats)
	}

	n, err := c.Purge()
	if err != nil || n != 1 {
		t.Errorf("Purge() = %d, %v", n, err)
	}
}

func TestCache_ChainExpiresWithFirstPage(t *testing.T) {
	c, clock := setupTestCache(t, time.Hour)
	c.Put("A1", work.FirstCursor, testPage("c2", "W1"))

	*clock = clock.Add(30 * time.Minute)
	c.Put("A1", "c2", testPage("", "W2"))

	if _, ok, _ := c.Get("A1", "c2"); !ok {
		t.Fatal("page 2 should be fresh while page 1 is")
	}

	// page 1 is now 61 minutes old, page 2 only 31
	*clock = clock.Add(31 * time.Minute)
	if _, ok, _ := c.Get("A1", "c2"); ok {
		t.Error("page 2 must expire with page 1: its cursor came from the expired copy")
	}

	stats, _ := c.Stats()
	if stats.Pages != 2 || stats.Expired != 2 {
		t.Errorf("stats = %+v, want both pages expired", stats)
	}
	if n, err := c.Purge(); err != nil || n != 2 {
		t.Errorf("Purge() = %d, %v; want 2", n, err)
	}
}

func TestCache_RefetchedFirstPageDropsOldChain(t *testing.T) {
	c, clock := setupTestCache(t, time.Hour)
	c.Put("A1", work.FirstCursor, testPage("c2", "W1"))
	c.Put("A1", "c2", testPage("", "W2"))

	*clock = clock.Add(2 * time.Hour)
	c.Put("A1", work.FirstCursor, testPage("c2", "W1"))

	if _, ok, _ := c.Get("A1", work.FirstCursor); !ok {
		t.Error("refetched first page should be fresh")
	}
	if _, ok, _ := c.Get("A1", "c2"); ok {
		t.Error("page fetched before the current first page should miss")
	}
}

func TestCache_PageWithoutFirstPageMisses(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	c.Put("A1", "c2", testPage("", "W2"))
	if _, ok, _ := c.Get("A1", "c2"); ok {
		t.Error("a page is unusable without its author's first page")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := setupTestCache(t, 0)
	c.Put("A1", "*", testPage("", "W1"))
	c.Put("A2", "*", testPage("", "W2"))

	if n, _ := c.Purge(); n != 0 {
		t.Errorf("Purge() without ttl removed %d pages", n)
	}
	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Errorf("Clear() = %d, %v", n, err)
	}
	stats, _ := c.Stats()
	if stats.Pages != 0 {
		t.Errorf("pages after Clear = %d", stats.Pages)
	}
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) WorksPage(_ context.Context, _ work.AuthorID, cursor string) (*work.Page, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if cursor == work.FirstCursor {
		return testPage("c2", "W1"), nil
	}
	return testPage("", "W2"), nil
}

func TestSource(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	inner := &countingSource{}
	src := NewSource(inner, c, nil)
	ctx := context.Background()

	first, err := src.WorksPage(ctx, "A1", work.FirstCursor)
	if err != nil {
		t.Fatalf("WorksPage() error = %v", err)
	}
	if first.Cached {
		t.Error("miss should not be marked cached")
	}

	again, err := src.WorksPage(ctx, "A1", work.FirstCursor)
	if err != nil {
		t.Fatalf("WorksPage() error = %v", err)
	}
	if !again.Cached || again.NextCursor != "c2" {
		t.Errorf("hit = %+v", again)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
}

func TestSource_ErrorsAreNotCached(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	boom := errors.New("boom")
	src := NewSource(&countingSource{err: boom}, c, nil)

	if _, err := src.WorksPage(context.Background(), "A1", work.FirstCursor); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if stats, _ := c.Stats(); stats.Pages != 0 {
		t.Errorf("failed fetch was cached: %+v", stats)
	}
}
