package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "concierge.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEnablesWAL(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := s.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestEnsureChat(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	isNew, err := s.EnsureChat(ctx, 1001)
	if err != nil {
		t.Fatalf("EnsureChat() error = %v", err)
	}
	if !isNew {
		t.Error("first contact should report new")
	}

	isNew, err = s.EnsureChat(ctx, 1001)
	if err != nil {
		t.Fatalf("EnsureChat() second error = %v", err)
	}
	if isNew {
		t.Error("second contact should not report new")
	}
}

func TestSummary_EmptyThenUpsertThenOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.Summary(ctx, 42)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got != "" {
		t.Errorf("Summary() on fresh chat = %q, want empty", got)
	}

	if err := s.UpsertSummary(ctx, 42, "likes budget hotels"); err != nil {
		t.Fatalf("UpsertSummary() error = %v", err)
	}
	if err := s.UpsertSummary(ctx, 42, "likes budget hotels and vegan food"); err != nil {
		t.Fatalf("UpsertSummary() overwrite error = %v", err)
	}

	got, err = s.Summary(ctx, 42)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got != "likes budget hotels and vegan food" {
		t.Errorf("Summary() = %q, want the overwritten value", got)
	}
}

func TestSaveMessage_AppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"hola", "any tours tomorrow?", "gracias"} {
		if err := s.SaveMessage(ctx, 7, 99, "user", text); err != nil {
			t.Fatalf("SaveMessage(%q) error = %v", text, err)
		}
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chat_history WHERE chat_id = 7`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("history rows = %d, want 3", n)
	}
}

func TestSaveFeedback_UpsertsPerMessageAndUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveFeedback(ctx, 7, 99, 555, "the answer", 1); err != nil {
		t.Fatalf("SaveFeedback() error = %v", err)
	}
	// Rating the same message again replaces the rating, no duplicate row.
	if err := s.SaveFeedback(ctx, 7, 99, 555, "the answer", -1); err != nil {
		t.Fatalf("SaveFeedback() re-rate error = %v", err)
	}

	var n, rating int
	if err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(rating) FROM feedback WHERE chat_id = 7 AND message_id = 555`).
		Scan(&n, &rating); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("feedback rows = %d, want 1", n)
	}
	if rating != -1 {
		t.Errorf("rating = %d, want the replacement -1", rating)
	}

	// A different user rating the same message is a separate record.
	if err := s.SaveFeedback(ctx, 7, 100, 555, "the answer", 1); err != nil {
		t.Fatalf("SaveFeedback() other user error = %v", err)
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM feedback WHERE chat_id = 7 AND message_id = 555`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("feedback rows = %d, want 2", n)
	}
}

func TestBanner_DefaultWhenTableMissing(t *testing.T) {
	s := openTestStore(t)
	// No banners table in a fresh bot-owned schema: defaults apply.
	if got := s.Banner(context.Background(), "tours"); got != defaultBanners["tours"] {
		t.Errorf("Banner(tours) = %q, want default", got)
	}
	if got := s.Banner(context.Background(), "unknown-section"); got != "" {
		t.Errorf("Banner(unknown) = %q, want empty", got)
	}
}
