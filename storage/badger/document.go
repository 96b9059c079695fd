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
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
// Similarity queries scan every document of the collection.
type DocumentRepository struct {
	backend      *Backend
	collectionID string
	prefix       []byte
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a DocumentRepository scoped to one collection.
func NewDocumentRepository(backend *Backend, collectionID string) *DocumentRepository {
	return &DocumentRepository{
		backend:      backend,
		collectionID: collectionID,
		prefix:       makeDocumentPrefix(collectionID),
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *DocumentRepository) Close() error {
	return nil
}

// UpsertDocuments writes documents through a write batch, which commits as
// many transactions as the batch needs. Writes are not atomic across
// documents; replaying the same upsert is safe.
func (r *DocumentRepository) UpsertDocuments(ctx context.Context, docs ...*core.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}
	for _, doc := range docs {
		if err := core.ValidateStoredDocument(doc); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
		}
	}

	inserted, err := r.insertedTimes(docs)
	if err != nil {
		return err
	}

	wb, err := r.backend.newWriteBatch()
	if err != nil {
		return err
	}
	defer wb.Cancel()

	now := time.Now().UTC()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if at, ok := inserted[doc.ID]; ok && !at.IsZero() {
			doc.InsertedAt = at
		} else {
			doc.InsertedAt = now
		}
		doc.UpdatedAt = now

		if err := wb.Set(makeDocumentKey(r.collectionID, doc.ID), storage.MarshalDocument(doc)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// insertedTimes returns the insertion time of every document already stored.
func (r *DocumentRepository) insertedTimes(docs []*core.StoredDocument) (map[string]time.Time, error) {
	inserted := make(map[string]time.Time, len(docs))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			old, err := readDocument(tx, makeDocumentKey(r.collectionID, doc.ID))
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			inserted[doc.ID] = old.InsertedAt
		}
		return nil
	}, false)
	return inserted, err
}

// GetDocuments retrieves the documents that exist among ids.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...string) ([]*core.StoredDocument, error) {
	var docs []*core.StoredDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(tx, makeDocumentKey(r.collectionID, id))
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocuments removes documents by ID.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	wb, err := r.backend.newWriteBatch()
	if err != nil {
		return err
	}
	defer wb.Cancel()

	for _, id := range ids {
		if err := wb.Delete(makeDocumentKey(r.collectionID, id)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// DeleteAll removes every document of the collection.
func (r *DocumentRepository) DeleteAll(ctx context.Context) error {
	return r.backend.DeletePrefix(ctx, r.prefix)
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	return r.backend.countPrefix(ctx, r.prefix)
}

// FindSimilar ranks every document matching filter by cosine distance.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, filter storage.Filter, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.SearchResult
	err := r.backend.scanPrefix(ctx, r.prefix, func(_, val []byte) error {
		doc, err := storage.UnmarshalDocument(val)
		if err != nil {
			return err
		}
		if len(doc.Vector) == 0 || !filter.Match(doc.Metadata) {
			return nil
		}
		results = append(results, &core.SearchResult{
			Document: doc,
			Distance: 1 - dotProduct(vector, doc.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Document.ID, b.Document.ID)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ListDocuments pages through documents in ID order.
func (r *DocumentRepository) ListDocuments(ctx context.Context, afterID string, limit int) ([]*core.StoredDocument, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var docs []*core.StoredDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = r.prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makeDocumentKey(r.collectionID, afterID)
		for iter.Seek(start); iter.Valid() && len(docs) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			if afterID != "" && bytes.Equal(item.Key(), start) {
				continue
			}
			err := item.Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func readDocument(tx *badger.Txn, key []byte) (*core.StoredDocument, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var doc *core.StoredDocument
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

// dotProduct calculates the dot product of two vectors.
// Equals cosine similarity when both are normalized.
func dotProduct(a, b []float32) float32 {
	var sum float32
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
