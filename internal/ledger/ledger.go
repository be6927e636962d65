// Package ledger keeps a durable local record of objects the service failed
// to clean up: when a compensating object-store delete fails, the bucket/key
// is written here so an operator can reconcile the leak offline. Nothing in
// the service retries these entries.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Entry is one orphaned object.
type Entry struct {
	Bucket     string    `json:"bucket"`
	Key        string    `json:"key"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Ledger is an append-mostly badger store keyed by bucket/key.
type Ledger struct {
	db *badger.DB
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores an orphaned object. The most recent failure for a given
// bucket/key wins.
func (l *Ledger) Record(bucket, key, reason string) error {
	e := Entry{Bucket: bucket, Key: key, Reason: reason, RecordedAt: time.Now().UTC()}
	v, err := json.Marshal(e)
	if err != nil {
		return err
	}
	k := []byte(fmt.Sprintf("%s/%s", bucket, key))
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, v)
	})
}

// Entries returns every recorded orphan.
func (l *Ledger) Entries() ([]Entry, error) {
	var out []Entry
	err := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var e Entry
				if err := json.Unmarshal(v, &e); err != nil {
					return err
				}
				out = append(out, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve removes an entry once the orphan has been reconciled.
func (l *Ledger) Resolve(bucket, key string) error {
	k := []byte(fmt.Sprintf("%s/%s", bucket, key))
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}
