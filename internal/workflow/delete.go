package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/metrics"
	"github.com/yourorg/notespot/internal/storage"
)

// Deleter runs the delete workflow: remove the object, then the record.
type Deleter struct {
	store   storage.ObjectStore
	catalog catalog.Store
	bucket  string
	log     *zap.Logger
}

func NewDeleter(store storage.ObjectStore, cat catalog.Store, bucket string, log *zap.Logger) *Deleter {
	return &Deleter{store: store, catalog: cat, bucket: bucket, log: log}
}

// Delete removes the record with the given id and its stored object.
// The object-store delete is best-effort and the catalog delete proceeds
// regardless of its outcome: record wins. Returns catalog.ErrNotFound when
// no record exists, a *DeletionError when the catalog delete itself fails.
func (d *Deleter) Delete(ctx context.Context, id string) error {
	doc, err := d.catalog.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := d.store.Delete(ctx, d.bucket, doc.FileName); err != nil {
		// a missing object is cheaper to reconcile than a dangling record
		d.log.Error("object delete failed, removing catalog record anyway",
			zap.String("bucket", d.bucket),
			zap.String("key", doc.FileName),
			zap.Error(err))
	}

	if err := d.catalog.DeleteByID(ctx, id); err != nil {
		return &DeletionError{ID: id, Err: err}
	}
	metrics.DocumentsDeleted.Inc()
	d.log.Info("document deleted", zap.String("id", id), zap.String("key", doc.FileName))
	return nil
}
