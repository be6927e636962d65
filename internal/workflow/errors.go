package workflow

import (
	"errors"
	"fmt"

	"github.com/yourorg/notespot/internal/models"
)

// ErrLinkExpired is returned when a download token resolves to no record.
// It is an expected end-user condition, not a system fault.
var ErrLinkExpired = errors.New("link has expired")

// StorageError wraps an object-store put failure. Nothing was persisted to
// the catalog when it is returned, so there is no compensation to run.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing object %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError wraps a catalog save failure that happened after the
// object was stored. Record carries the fully constructed document so the
// caller can redisplay the submitted form pre-filled; the compensating
// object-store delete has already been attempted by the time this is returned.
type PersistenceError struct {
	Record *models.Document
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving catalog record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeletionError wraps a catalog delete failure. Object-store delete failures
// never surface through it; those are only logged.
type DeletionError struct {
	ID  string
	Err error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("deleting catalog record %s: %v", e.ID, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
