// Package storage persists perft results so later runs can be checked against them.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dgraph-io/badger/v4"
)

// Storage keys are perft:<fen>#<depth>, depth zero-padded so keys sort by depth.
const keyPrefix = "perft:"

// ErrNotFound is returned when no result is stored for a FEN and depth.
var ErrNotFound = errors.New("perft result not found")

// PerftResult is one recorded perft run.
type PerftResult struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// NPS returns nodes per second, or 0 when no time was recorded.
func (r PerftResult) NPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// PerftStore wraps BadgerDB for persistent storage of perft results.
type PerftStore struct {
	db *badger.DB
}

// NewStorage opens the store in the default database directory.
func NewStorage() (*PerftStore, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) a store in dir.
func Open(dir string) (*PerftStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*PerftStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*PerftStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft store: %w", err)
	}

	log.WithFields(log.Fields{
		"dir":       opts.Dir,
		"in_memory": opts.InMemory,
	}).Debug("perft store opened")

	return &PerftStore{db: db}, nil
}

// Close closes the database
func (s *PerftStore) Close() error {
	if s.db == nil {
		return nil
	}
	log.Debug("perft store closed")
	return s.db.Close()
}

func resultKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%s#%03d", keyPrefix, fen, depth))
}

func fenPrefix(fen string) []byte {
	return []byte(keyPrefix + fen + "#")
}

// Put records a result, replacing any earlier one for the same FEN and depth.
func (s *PerftStore) Put(r PerftResult) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(r.FEN, r.Depth), data)
	})
}

// Get loads the result for fen at depth, or ErrNotFound.
func (s *PerftStore) Get(fen string, depth int) (PerftResult, error) {
	var r PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})

	return r, err
}

// List returns every result stored for fen, shallowest first.
func (s *PerftStore) List(fen string) ([]PerftResult, error) {
	var results []PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := fenPrefix(fen)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r PerftResult
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})

	return results, err
}

// Delete removes every result stored for fen.
func (s *PerftStore) Delete(fen string) error {
	results, err := s.List(fen)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, r := range results {
			if err := txn.Delete(resultKey(r.FEN, r.Depth)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Verify compares nodes with the stored result for fen at depth.
// It returns ErrNotFound when nothing is stored and a descriptive error on mismatch.
func (s *PerftStore) Verify(fen string, depth int, nodes uint64) error {
	r, err := s.Get(fen, depth)
	if err != nil {
		return err
	}
	if r.Nodes != nodes {
		return fmt.Errorf("perft(%d) of %q: got %d nodes, stored %d", depth, fen, nodes, r.Nodes)
	}
	return nil
}
