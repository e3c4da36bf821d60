// Package journal keeps a local, append-only record of deployment runs in a
// badger database so past deployments can be inspected without any remote
// calls.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "run:"

// Run is one recorded deployment.
type Run struct {
	Bucket    string        `json:"bucket"`
	Files     int           `json:"files"`
	Bytes     int64         `json:"bytes"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
}

type Journal struct {
	db *badger.DB
}

func Open(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

// OpenReadOnly opens an existing journal without taking the directory lock,
// so readers do not block the writer that records runs. It fails if no
// journal has been written yet.
func OpenReadOnly(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil).WithReadOnly(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Record appends a run. Keys are zero-padded start timestamps so badger's key
// order is chronological.
func (j *Journal) Record(r Run) error {
	val, err := json.Marshal(r)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%020d", keyPrefix, r.StartedAt.UnixNano())
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

// Recent returns up to n runs, newest first.
func (j *Journal) Recent(n int) ([]Run, error) {
	var runs []Run
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible run key, then walk backwards.
		seek := append([]byte(keyPrefix), 0xff)
		prefix := []byte(keyPrefix)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(runs) < n; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var r Run
				if err := json.Unmarshal(val, &r); err != nil {
					return err
				}
				runs = append(runs, r)
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
	return runs, nil
}
