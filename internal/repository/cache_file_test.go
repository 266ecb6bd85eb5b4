package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"tunestatus"
)

func TestCacheFile_LoadMissingReturnsFresh(t *testing.T) {
	t.Parallel()

	repo := NewCacheFile(filepath.Join(t.TempDir(), "cache.json"))
	rec, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if rec.LastNonEmptyNonOwned != nil || rec.LastSetByScript != nil || rec.EmptyRead != nil {
		t.Fatalf("expected fresh record, got %+v", rec)
	}
}

func TestCacheFile_SaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.json")
	repo := NewCacheFile(path)

	in := tunestatus.CacheRecord{
		LastNonEmptyNonOwned: &tunestatus.ForeignStatus{
			Text: "Lunch", Emoji: ":pizza:", Expiration: 0, ObservedAt: 1700000000,
		},
		LastSetByScript: &tunestatus.ScriptStatus{
			Text: "Artist - Song", Emoji: ":musical_note:", Expiration: 1700000120, SetAt: 1700000000,
		},
	}
	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.UpdatedAt == 0 {
		t.Fatalf("UpdatedAt must be stamped on save")
	}
	if out.LastNonEmptyNonOwned == nil || out.LastNonEmptyNonOwned.Text != "Lunch" {
		t.Fatalf("foreign status lost: %+v", out.LastNonEmptyNonOwned)
	}
	if out.LastSetByScript == nil || out.LastSetByScript.Emoji != ":musical_note:" {
		t.Fatalf("script status lost: %+v", out.LastSetByScript)
	}
}

func TestCacheFile_ToleratesUnknownFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.json")
	body := map[string]any{
		"updated_at":       1700000000,
		"future_field":     map[string]any{"x": 1},
		"empty_read":       map[string]any{"last_seen_at": 1700000000, "consecutive_count": 2},
		"another_unknown":  "ok",
		"last_set_by_script": map[string]any{"text": "A - B", "emoji": ":musical_note:"},
	}
	data, _ := json.Marshal(body)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec, err := NewCacheFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unknown fields must be tolerated: %v", err)
	}
	if rec.EmptyRead == nil || rec.EmptyRead.ConsecutiveCount != 2 {
		t.Fatalf("known fields must survive: %+v", rec.EmptyRead)
	}
}

func TestCacheFile_CorruptReturnsFreshRecordWithError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec, err := NewCacheFile(path).Load(context.Background())
	if err == nil {
		t.Fatalf("corrupt file should surface an error for logging")
	}
	// The returned record must still be usable as a fresh one.
	if rec.LastNonEmptyNonOwned != nil || rec.LastSetByScript != nil {
		t.Fatalf("corrupt load must return a zero record, got %+v", rec)
	}
}
