// SPDX-License-Identifier: MIT

package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// ErrNotFound indicates no snapshot exists under the requested id.
var ErrNotFound = errors.New("store: snapshot not found")

const keyPrefix = "snap/"

// Store is a BadgerDB-backed snapshot store. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	db *badger.DB
}

// Open opens the database at path, or an in-memory one for path == "".
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("Store failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}
	slog.Info("Store opened", slog.String("path", path), slog.Bool("inMemory", path == ""))

	return &Store{db: db}, nil
}

func snapKey(id string) []byte { return []byte(keyPrefix + id) }

// Put writes one snapshot, replacing any previous one with the same id.
func (s *Store) Put(snap *Snapshot) error {
	if snap == nil || snap.ID == "" {
		return errors.New("store: snapshot needs an id")
	}
	v, err := Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapKey(snap.ID), v)
	}); err != nil {
		slog.Error("Store failed to write snapshot", slog.Any("error", err), slog.String("id", snap.ID))
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// Get returns the snapshot stored under id, or ErrNotFound.
func (s *Store) Get(id string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			snap, err = Decode(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	return snap, nil
}

// List returns every stored snapshot ordered by id.
func (s *Store) List() ([]*Snapshot, error) {
	var snaps []*Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				snap, err := Decode(val)
				if err != nil {
					slog.Error("Store failed to decode snapshot", slog.Any("error", err))
					return err
				}
				snaps = append(snaps, snap)

				return nil
			})
			if err != nil {
				return fmt.Errorf("item data error: %w", err)
			}
		}

		return nil
	})
	slices.SortFunc(snaps, func(a, b *Snapshot) int { return strings.Compare(a.ID, b.ID) })

	return snaps, err
}

// Delete removes the snapshot under id. Deleting a missing id is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(snapKey(id))
	})
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		slog.Error("Store failed to close database", slog.Any("error", err))
		return fmt.Errorf("close failed: %w", err)
	}
	slog.Info("Store closed")

	return nil
}
