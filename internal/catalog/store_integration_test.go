package catalog_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/models"
)

func testURI() string {
	if uri := os.Getenv("MONGO_TEST_URI"); uri != "" {
		return uri
	}
	// Default to local compose
	return "mongodb://localhost:27017"
}

func connect(t *testing.T) *catalog.Mongo {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, err := catalog.Connect(ctx, testURI(), "notespot_test")
	if err != nil {
		t.Skipf("skipping integration test; cannot connect to Mongo: %v", err)
	}
	return m
}

func TestSaveFindDeleteRoundTrip(t *testing.T) {
	m := connect(t)
	ctx := context.Background()
	defer m.Close(ctx)

	doc := &models.Document{
		Title:       "Integration Notes",
		PublishDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		UUID:        "it-token-1",
		FileName:    "1709250000000-123456789.pdf",
		FileURL:     "https://note-spot.s3.test/1709250000000-123456789.pdf",
		Path:        "/tmp/1709250000000-123456789.pdf",
		Size:        9,
	}
	saved, err := m.Save(ctx, doc)
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if saved.ID.IsZero() {
		t.Fatal("no id assigned")
	}
	defer func() { _ = m.DeleteByID(ctx, saved.ID.Hex()) }()

	got, err := m.FindByID(ctx, saved.ID.Hex())
	if err != nil {
		t.Fatalf("FindByID err: %v", err)
	}
	if got.FileName != doc.FileName || got.UUID != doc.UUID {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	byToken, err := m.FindByToken(ctx, "it-token-1")
	if err != nil {
		t.Fatalf("FindByToken err: %v", err)
	}
	if byToken.ID != saved.ID {
		t.Fatal("token lookup found a different record")
	}

	// re-save mutates in place
	byToken.Downloads = 2
	if _, err := m.Save(ctx, byToken); err != nil {
		t.Fatalf("re-save err: %v", err)
	}
	again, err := m.FindByID(ctx, saved.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if again.Downloads != 2 {
		t.Fatalf("downloads %d after re-save", again.Downloads)
	}

	if err := m.DeleteByID(ctx, saved.ID.Hex()); err != nil {
		t.Fatalf("DeleteByID err: %v", err)
	}
	if _, err := m.FindByID(ctx, saved.ID.Hex()); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestFindWithFilter(t *testing.T) {
	m := connect(t)
	ctx := context.Background()
	defer m.Close(ctx)

	seed := []models.Document{
		{Title: "Alpha Primer", PublishDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), UUID: "it-a"},
		{Title: "beta alphabet", PublishDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), UUID: "it-b"},
	}
	var ids []string
	for i := range seed {
		saved, err := m.Save(ctx, &seed[i])
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, saved.ID.Hex())
	}
	defer func() {
		for _, id := range ids {
			_ = m.DeleteByID(ctx, id)
		}
	}()

	docs, err := m.Find(ctx, catalog.BuildQuery(catalog.Filter{Title: "alpha", PublishedAfter: "2023-01-01"}))
	if err != nil {
		t.Fatalf("Find err: %v", err)
	}
	found := false
	for _, d := range docs {
		if d.UUID == "it-a" {
			t.Fatal("date lower bound not applied")
		}
		if d.UUID == "it-b" {
			found = true
		}
	}
	if !found {
		t.Fatal("case-insensitive title match missing")
	}
}
