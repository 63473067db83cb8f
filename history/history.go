// Package history keeps a local log of completed dictations in a
// Badger database, so a transcript survives even when typing it into
// the focused application fails.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const keyPrefix = "dictation/"

// keyTimeFormat is fixed-width so keys sort chronologically as bytes.
const keyTimeFormat = "20060102150405.000000000"

// Entry is one completed dictation.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	WAVPath   string    `json:"wav_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a handle on the history database.
type Store struct {
	db *badger.DB
}

// Open opens or creates the database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records a dictation. A missing ID or timestamp is filled in.
func (s *Store) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	key := fmt.Sprintf("%s%s/%s", keyPrefix, e.CreatedAt.UTC().Format(keyTimeFormat), e.ID)
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		// Reverse iteration starts just past the last prefixed key.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(entries) < n; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var e Entry
				if err := json.Unmarshal(v, &e); err != nil {
					return fmt.Errorf("decode history entry: %w", err)
				}
				entries = append(entries, e)
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
	return entries, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
