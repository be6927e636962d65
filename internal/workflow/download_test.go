package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestResolveExpiredToken(t *testing.T) {
	cat := newFakeCatalog()
	dl := NewDownloader(cat, testLogger())

	_, err := dl.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, ErrLinkExpired) {
		t.Fatalf("want ErrLinkExpired, got %v", err)
	}
	// lookup only; no writes happened
	for _, c := range cat.calls {
		if c == "save" {
			t.Fatalf("unexpected catalog write: %v", cat.calls)
		}
	}
}

func TestResolveReturnsLocalHandle(t *testing.T) {
	cat := newFakeCatalog()
	doc := seedDoc(cat)
	dl := NewDownloader(cat, testLogger())

	h, err := dl.Resolve(context.Background(), doc.UUID)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if h.Path != doc.Path || h.FileName != doc.FileName || h.Size != doc.Size {
		t.Fatalf("handle %+v", h)
	}
}

func TestResolveBumpsDownloadCount(t *testing.T) {
	cat := newFakeCatalog()
	doc := seedDoc(cat)
	dl := NewDownloader(cat, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := dl.Resolve(context.Background(), doc.UUID); err != nil {
			t.Fatal(err)
		}
	}
	if got := cat.byID[doc.ID.Hex()].Downloads; got != 3 {
		t.Fatalf("downloads %d, want 3", got)
	}
}

func TestResolveBookkeepingFailureDoesNotBlockDownload(t *testing.T) {
	cat := newFakeCatalog()
	doc := seedDoc(cat)
	cat.saveErr = errors.New("mongo down")
	dl := NewDownloader(cat, testLogger())

	h, err := dl.Resolve(context.Background(), doc.UUID)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if h.Path != doc.Path {
		t.Fatalf("handle %+v", h)
	}
}
