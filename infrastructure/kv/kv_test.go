package kv

import (
	"context"
	"path/filepath"
	"testing"

	"popcheck/infrastructure/sqlite"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "kv-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestSetGetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "received_a"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "received_a", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, "received_a")
	if err != nil || !ok || value != "true" {
		t.Fatalf("get after set: value=%q ok=%v err=%v", value, ok, err)
	}

	// Overwrite must replace, not duplicate.
	if err := store.Set(ctx, "received_a", "true"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	entries, err := store.ListPrefix(ctx, "received_")
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(entries))
	}

	if err := store.Delete(ctx, "received_a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "received_a"); ok {
		t.Fatalf("expected key gone after delete")
	}
}

func TestSetRejectsEmptyKey(t *testing.T) {
	store := openTestStore(t)
	if err := store.Set(context.Background(), "  ", "true"); err == nil {
		t.Fatalf("expected error for blank key")
	}
}

func TestListPrefixDoesNotTreatUnderscoreAsWildcard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := map[string]string{
		"received_สาขาบางกอก_Widget": "true",
		"received_BranchA_Shelf":     "true",
		"receivedXBranchB_Shelf":     "true",
		"other_BranchA_Shelf":        "true",
	}
	for k, v := range seed {
		if err := store.Set(ctx, k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}

	entries, err := store.ListPrefix(ctx, "received_")
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(entries), entries)
	}
	if _, ok := entries["received_สาขาบางกอก_Widget"]; !ok {
		t.Fatalf("expected Thai key in scan results")
	}
	if _, ok := entries["receivedXBranchB_Shelf"]; ok {
		t.Fatalf("underscore must not match arbitrary characters")
	}
}

func TestDeleteAllRemovesOnlyGivenKeys(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"received_a", "received_b", "received_c"} {
		if err := store.Set(ctx, k, "true"); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	if err := store.DeleteAll(ctx, []string{"received_a", "received_b"}); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	entries, err := store.ListPrefix(ctx, "received_")
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(entries))
	}
	if _, ok := entries["received_c"]; !ok {
		t.Fatalf("expected received_c untouched")
	}
}
