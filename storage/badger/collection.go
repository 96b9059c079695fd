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
	"errors"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// CollectionRepository implements storage.CollectionRepository for BadgerDB.
type CollectionRepository struct {
	backend *Backend
}

var _ storage.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(backend *Backend) *CollectionRepository {
	return &CollectionRepository{backend: backend}
}

// ListCollections returns all collections ordered by name.
func (r *CollectionRepository) ListCollections(ctx context.Context) ([]*core.CollectionInfo, error) {
	var collections []*core.CollectionInfo
	err := r.backend.scanPrefix(ctx, []byte(collectionPrefix+":"), func(_, val []byte) error {
		info, err := storage.UnmarshalCollection(val)
		if err != nil {
			return err
		}
		collections = append(collections, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// GetCollection retrieves a collection by name.
func (r *CollectionRepository) GetCollection(ctx context.Context, name string) (*core.CollectionInfo, error) {
	var info *core.CollectionInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readCollection(tx, name)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// CreateCollection registers a new collection with a random UUID.
func (r *CollectionRepository) CreateCollection(ctx context.Context, name string, metadata map[string]string) (*core.CollectionInfo, error) {
	info := &core.CollectionInfo{
		ID:        uuid.NewString(),
		Name:      name,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := readCollection(tx, name)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := tx.Set(makeCollectionKey(name), storage.MarshalCollection(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// DeleteCollection removes a collection from the catalog.
func (r *CollectionRepository) DeleteCollection(ctx context.Context, name string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readCollection(tx, name); err != nil {
			return err
		}
		if err := tx.Delete(makeCollectionKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func readCollection(tx *badger.Txn, name string) (*core.CollectionInfo, error) {
	item, err := tx.Get(makeCollectionKey(name))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var info *core.CollectionInfo
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		info, unmarshalErr = storage.UnmarshalCollection(val)
		return unmarshalErr
	})
	return info, err
}
