package workflow

import (
	"context"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/models"
)

// fakeObjectStore records puts/deletes in order so tests can assert the
// sequencing and targeting of store calls.
type fakeObjectStore struct {
	mu      sync.Mutex
	calls   []string // "put:<key>" / "delete:<key>"
	objects map[string][]byte
	putCT   map[string]string
	putErr  error
	delErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, putCT: map[string]string{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	b, _ := io.ReadAll(body)
	f.calls = append(f.calls, "put:"+key)
	f.objects[key] = b
	f.putCT[key] = contentType
	return "https://" + bucket + ".s3.test/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

// fakeCatalog is an in-memory catalog.Store.
type fakeCatalog struct {
	mu      sync.Mutex
	calls   []string
	byID    map[string]*models.Document
	saveErr error
	delErr  error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{byID: map[string]*models.Document{}}
}

func (f *fakeCatalog) Save(ctx context.Context, doc *models.Document) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "save")
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	cp := *doc
	f.byID[doc.ID.Hex()] = &cp
	return doc, nil
}

func (f *fakeCatalog) FindByID(ctx context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "findById")
	doc, ok := f.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeCatalog) FindByToken(ctx context.Context, token string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "findByToken")
	for _, doc := range f.byID {
		if doc.UUID == token {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) Find(ctx context.Context, filter bson.D) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, doc := range f.byID {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeCatalog) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "deleteById")
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.byID[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func testLogger() *zap.Logger { return zap.NewNop() }
