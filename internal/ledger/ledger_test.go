package ledger

import (
	"path/filepath"
	"testing"
)

func open(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger"))
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndEntries(t *testing.T) {
	l := open(t)
	if err := l.Record("note-spot", "123-456.pdf", "delete failed: timeout"); err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if err := l.Record("note-spot", "789-000.pdf", "delete failed: 503"); err != nil {
		t.Fatalf("Record err: %v", err)
	}
	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("Entries err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Bucket != "note-spot" || e.Reason == "" || e.RecordedAt.IsZero() {
			t.Fatalf("bad entry: %+v", e)
		}
	}
}

func TestRecordOverwritesSameKey(t *testing.T) {
	l := open(t)
	if err := l.Record("b", "k", "first"); err != nil {
		t.Fatal(err)
	}
	if err := l.Record("b", "k", "second"); err != nil {
		t.Fatal(err)
	}
	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Reason != "second" {
		t.Fatalf("reason %q, want latest failure", entries[0].Reason)
	}
}

func TestResolve(t *testing.T) {
	l := open(t)
	if err := l.Record("b", "k", "leak"); err != nil {
		t.Fatal(err)
	}
	if err := l.Resolve("b", "k"); err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries after resolve, want 0", len(entries))
	}
}
