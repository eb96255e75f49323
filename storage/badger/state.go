// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/storage"
)

// StateRepository implements storage.StateRepository for BadgerDB.
type StateRepository struct {
	backend *Backend
}

var _ storage.StateRepository = (*StateRepository)(nil)

// NewStateRepository creates a StateRepository over an open backend.
func NewStateRepository(backend *Backend) (storage.StateRepository, error) {
	return &StateRepository{backend: backend}, nil
}

// SaveState persists the state for its date, overwriting any previous
// state.
func (r *StateRepository) SaveState(ctx context.Context, state *core.LoadState) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		state.UpdatedAt = time.Now().UTC()
		key := makeStateKey(state.Date)
		value := storage.MarshalLoadState(state)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadState retrieves the state for a date.
// Returns nil, nil if no state exists.
func (r *StateRepository) LoadState(ctx context.Context, date string) (*core.LoadState, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var state *core.LoadState
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStateKey(date))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			state, unmarshalErr = storage.UnmarshalLoadState(val)
			return unmarshalErr
		})
	}, false)

	return state, err
}

// DeleteState removes the state for a date.
func (r *StateRepository) DeleteState(ctx context.Context, date string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeStateKey(date)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListDates returns the dates that have persisted state, sorted ascending.
func (r *StateRepository) ListDates(ctx context.Context) ([]string, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var dates []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(loadStatePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			dates = append(dates, strings.TrimPrefix(key, loadStatePrefix+":"))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return dates, nil
}

// Close closes the underlying backend.
func (r *StateRepository) Close() error {
	return r.backend.Close()
}
