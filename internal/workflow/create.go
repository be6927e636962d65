// Package workflow holds the multi-step pipelines that keep the object store
// and the catalog consistent with each other. Create is storage-wins: a
// failed catalog save triggers a compensating delete of the stored object.
// Delete is record-wins: the catalog record goes away even when the object
// delete fails. The asymmetry is deliberate — a missing object is cheaper to
// reconcile than a dangling catalog entry.
package workflow

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/intake"
	"github.com/yourorg/notespot/internal/ledger"
	"github.com/yourorg/notespot/internal/metrics"
	"github.com/yourorg/notespot/internal/models"
	"github.com/yourorg/notespot/internal/storage"
)

// Metadata carries the non-file form fields of a create request.
type Metadata struct {
	Title       string
	Description string
	PublishDate time.Time
	AuthorID    string
	// Cover is the raw companion cover field: JSON-encoded
	// {"type": mime, "data": base64}, or empty.
	Cover string
}

// Creator runs the create workflow against injected store clients.
type Creator struct {
	store   storage.ObjectStore
	catalog catalog.Store
	orphans *ledger.Ledger
	bucket  string
	log     *zap.Logger
}

func NewCreator(store storage.ObjectStore, cat catalog.Store, orphans *ledger.Ledger, bucket string, log *zap.Logger) *Creator {
	return &Creator{store: store, catalog: cat, orphans: orphans, bucket: bucket, log: log}
}

// Create stages the validated upload into the object store, persists a
// catalog record referencing it, and compensates when persistence fails.
// Each step gates the next; nothing runs in parallel.
//
// On a *StorageError no catalog write was attempted. On a *PersistenceError
// the stored object has already been deleted on a best-effort basis and the
// error carries the constructed record for form redisplay.
func (c *Creator) Create(ctx context.Context, up *intake.Result, meta Metadata) (*models.Document, error) {
	f, err := os.Open(up.Path)
	if err != nil {
		metrics.CreatesFailed.WithLabelValues("read").Inc()
		return nil, &StorageError{Key: up.FileName, Err: err}
	}
	defer f.Close()

	locator, err := c.store.Put(ctx, c.bucket, up.FileName, f, up.ContentType)
	if err != nil {
		metrics.CreatesFailed.WithLabelValues("store").Inc()
		return nil, &StorageError{Key: up.FileName, Err: err}
	}

	doc := &models.Document{
		Title:       meta.Title,
		Description: meta.Description,
		PublishDate: meta.PublishDate,
		AuthorID:    meta.AuthorID,
		UUID:        uuid.NewString(),
		FileName:    up.FileName,
		FileURL:     locator,
		Path:        up.Path,
		Size:        up.Size,
	}
	applyCover(doc, meta.Cover)

	saved, err := c.catalog.Save(ctx, doc)
	if err != nil {
		c.compensate(ctx, up.FileName, err)
		metrics.CreatesFailed.WithLabelValues("persist").Inc()
		return nil, &PersistenceError{Record: doc, Err: err}
	}

	metrics.DocumentsCreated.Inc()
	c.log.Info("document created",
		zap.String("id", saved.ID.Hex()),
		zap.String("key", saved.FileName),
		zap.Int64("size", saved.Size))
	return saved, nil
}

// compensate removes the object stored for a create whose catalog save
// failed. Its own failures are logged and recorded in the orphan ledger,
// never propagated: the caller always sees the persist failure.
func (c *Creator) compensate(ctx context.Context, key string, cause error) {
	metrics.CompensatingDeletes.Inc()
	if err := c.store.Delete(ctx, c.bucket, key); err != nil {
		metrics.CompensationFailures.Inc()
		c.log.Error("compensating delete failed, object orphaned",
			zap.String("bucket", c.bucket),
			zap.String("key", key),
			zap.NamedError("cause", cause),
			zap.Error(err))
		if c.orphans != nil {
			if lerr := c.orphans.Record(c.bucket, key, err.Error()); lerr != nil {
				c.log.Error("orphan ledger write failed", zap.String("key", key), zap.Error(lerr))
			}
		}
		return
	}
	c.log.Warn("catalog save failed, stored object rolled back",
		zap.String("bucket", c.bucket),
		zap.String("key", key),
		zap.NamedError("cause", cause))
}
