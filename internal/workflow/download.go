package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/metrics"
)

// Handle points at the locally staged copy of an asset; delivery streams it
// from disk rather than making a second hop through the object store.
type Handle struct {
	Path     string
	FileName string
	Size     int64
}

// Downloader resolves opaque download tokens to asset handles.
type Downloader struct {
	catalog catalog.Store
	log     *zap.Logger
}

func NewDownloader(cat catalog.Store, log *zap.Logger) *Downloader {
	return &Downloader{catalog: cat, log: log}
}

// Resolve looks up the record behind token. An unknown token returns
// ErrLinkExpired without touching the object store. On a hit the record is
// re-saved with its download count bumped before the handle is returned.
func (d *Downloader) Resolve(ctx context.Context, token string) (*Handle, error) {
	doc, err := d.catalog.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			metrics.ExpiredLinks.Inc()
			return nil, ErrLinkExpired
		}
		return nil, err
	}

	doc.Downloads++
	if _, err := d.catalog.Save(ctx, doc); err != nil {
		// bookkeeping only; the user still gets their file
		d.log.Warn("download bookkeeping save failed",
			zap.String("id", doc.ID.Hex()), zap.Error(err))
	}

	metrics.Downloads.Inc()
	return &Handle{Path: doc.Path, FileName: doc.FileName, Size: doc.Size}, nil
}
