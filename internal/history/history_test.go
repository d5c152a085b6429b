package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/ccw/internal/review"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id, mode string, started time.Time) review.Result {
	return review.Result{
		ID:            id,
		Mode:          mode,
		Source:        "main.go",
		Model:         "qwen3-coder:30b",
		Status:        review.StatusSucceeded,
		Text:          "ok\n\nText generated with ccw (v0.1.0)/qwen3-coder:30b",
		ContextWindow: 4200,
		Attempts:      2,
		Cached:        true,
		Redactions:    1,
		StartedAt:     started,
		Elapsed:       1500 * time.Millisecond,
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	started := time.Date(2025, 5, 4, 10, 30, 0, 123456789, time.UTC)

	want := sampleResult("run-1", "checker", started)
	if err := s.Record(ctx, want); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Mode != want.Mode || got.Source != want.Source || got.Model != want.Model || got.Text != want.Text {
		t.Errorf("Get = %+v", got)
	}
	if got.Status != review.StatusSucceeded || got.ContextWindow != 4200 || got.Attempts != 2 {
		t.Errorf("Get = %+v", got)
	}
	if !got.Cached || got.Redactions != 1 {
		t.Errorf("cached/redactions = %v/%d", got.Cached, got.Redactions)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Elapsed != 1500*time.Millisecond || got.ElapsedMs != 1500 {
		t.Errorf("Elapsed = %v / %d", got.Elapsed, got.ElapsedMs)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTest(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestStore_DuplicateID(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	r := sampleResult("dup", "checker", time.Now())
	if err := s.Record(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, r); err == nil {
		t.Error("expected error recording a duplicate ID")
	}
}

func TestStore_Recent(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Record(ctx, sampleResult("a", "checker", base))
	s.Record(ctx, sampleResult("b", "explain", base.Add(time.Second)))
	s.Record(ctx, sampleResult("c", "checker", base.Add(1500*time.Millisecond)))

	all, err := s.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Errorf("Recent order = %v", ids(all))
	}

	checker, _ := s.Recent(ctx, "checker", 10)
	if len(checker) != 2 {
		t.Errorf("Recent(checker) = %v", ids(checker))
	}

	limited, _ := s.Recent(ctx, "", 1)
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("Recent limit 1 = %v", ids(limited))
	}
}

func TestStore_Prune(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Record(ctx, sampleResult("old", "checker", base))
	s.Record(ctx, sampleResult("new", "checker", base.Add(48*time.Hour)))

	n, err := s.Prune(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	left, _ := s.Recent(ctx, "", 10)
	if len(left) != 1 || left[0].ID != "new" {
		t.Errorf("remaining = %v", ids(left))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	s.Record(ctx, sampleResult("keep", "checker", time.Now()))
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "keep"); err != nil {
		t.Errorf("run lost across reopen: %v", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg-data", "ccw", "history.db") {
		t.Errorf("DefaultPath = %q", p)
	}
}

func TestStore_ImplementsRecorder(t *testing.T) {
	var _ review.Recorder = (*Store)(nil)
}

func ids(rs []review.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
