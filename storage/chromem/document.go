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

// Package chromem implements storage.DocumentRepository on chromem-go, an
// embedded vector database persisted as one file per document.
//
// chromem-go stores metadata as strings, so documents read back carry String
// values only. Chunk bookkeeping fields travel in reserved metadata keys that
// are stripped on read.
package chromem

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/philippgille/chromem-go"
)

const (
	reservedPrefix = "surfer:"
	keyParentID    = reservedPrefix + "parent_id"
	keyChunkIndex  = reservedPrefix + "chunk_index"
	keyChunkCount  = reservedPrefix + "chunk_count"
	keyContentHash = reservedPrefix + "content_hash"
	keyInsertedAt  = reservedPrefix + "inserted_at"
	keyUpdatedAt   = reservedPrefix + "updated_at"
)

var errNoEmbeddingFunc = errors.New("chromem: documents must carry precomputed embeddings")

// DocumentRepository implements storage.DocumentRepository for chromem-go.
type DocumentRepository struct {
	db   *chromem.DB
	name string

	mu         sync.RWMutex
	collection *chromem.Collection
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository opens (or creates) the persistent chromem database at
// path and the collection named collectionID inside it.
func NewDocumentRepository(path, collectionID string, compress bool) (*DocumentRepository, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, err
	}

	r := &DocumentRepository{db: db, name: collectionID}
	if err := r.openCollection(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DocumentRepository) openCollection() error {
	collection, err := r.db.GetOrCreateCollection(r.name, map[string]string{"hnsw:space": "cosine"}, refuseEmbedding)
	if err != nil {
		return err
	}
	r.collection = collection
	return nil
}

func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}

// Close is a no-op; chromem persists every write immediately.
func (r *DocumentRepository) Close() error {
	return nil
}

// UpsertDocuments adds documents, replacing the ones with the same ID.
func (r *DocumentRepository) UpsertDocuments(ctx context.Context, docs ...*core.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	batch := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		if err := core.ValidateStoredDocument(doc); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
		}
		if len(doc.Vector) == 0 {
			return fmt.Errorf("%w: document %s has no vector", storage.ErrInvalidQuery, doc.ID)
		}
		doc.InsertedAt = now
		if old, err := r.collection.GetByID(ctx, doc.ID); err == nil {
			if prev := decodeDocument(old); !prev.InsertedAt.IsZero() {
				doc.InsertedAt = prev.InsertedAt
			}
		}
		doc.UpdatedAt = now
		batch = append(batch, encodeDocument(doc))
	}

	return r.collection.AddDocuments(ctx, batch, 1)
}

// GetDocuments retrieves the documents that exist among ids.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...string) ([]*core.StoredDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var docs []*core.StoredDocument
	for _, id := range ids {
		doc, err := r.collection.GetByID(ctx, id)
		if err != nil {
			// chromem only fails lookups for unknown IDs
			continue
		}
		docs = append(docs, decodeDocument(doc))
	}
	return docs, nil
}

// DeleteDocuments removes documents by ID. Missing IDs are ignored.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := r.collection.GetByID(ctx, id); err == nil {
			existing = append(existing, id)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return r.collection.Delete(ctx, nil, nil, existing...)
}

// DeleteAll drops and recreates the underlying chromem collection.
func (r *DocumentRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.DeleteCollection(r.name); err != nil {
		return err
	}
	return r.openCollection()
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collection.Count(), nil
}

// FindSimilar delegates ranking and filtering to chromem.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, filter storage.Filter, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// chromem rejects requests for more results than the collection holds
	n := min(limit, r.collection.Count())
	if n == 0 {
		return []*core.SearchResult{}, nil
	}

	var where map[string]string
	if len(filter) > 0 {
		where = filter
	}

	matches, err := r.collection.QueryEmbedding(ctx, vector, n, where, nil)
	if err != nil {
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(matches))
	for _, m := range matches {
		doc := decodeDocument(chromem.Document{
			ID:        m.ID,
			Metadata:  m.Metadata,
			Embedding: m.Embedding,
			Content:   m.Content,
		})
		results = append(results, &core.SearchResult{
			Document: doc,
			Distance: 1 - m.Similarity,
		})
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Document.ID, b.Document.ID)
	})
	return results, nil
}

// ListDocuments is unsupported: chromem-go cannot enumerate a collection.
func (r *DocumentRepository) ListDocuments(ctx context.Context, afterID string, limit int) ([]*core.StoredDocument, error) {
	return nil, storage.ErrUnsupported
}

func encodeDocument(doc *core.StoredDocument) chromem.Document {
	meta := doc.Metadata.Strings()
	meta[keyParentID] = doc.ParentID
	meta[keyChunkIndex] = strconv.Itoa(doc.ChunkIndex)
	meta[keyChunkCount] = strconv.Itoa(doc.ChunkCount)
	meta[keyContentHash] = strconv.FormatUint(doc.ContentHash, 10)
	meta[keyInsertedAt] = doc.InsertedAt.Format(time.RFC3339Nano)
	meta[keyUpdatedAt] = doc.UpdatedAt.Format(time.RFC3339Nano)

	return chromem.Document{
		ID:        doc.ID,
		Metadata:  meta,
		Embedding: doc.Vector,
		Content:   doc.Text,
	}
}

func decodeDocument(d chromem.Document) *core.StoredDocument {
	user := maps.Clone(d.Metadata)
	maps.DeleteFunc(user, func(k, _ string) bool {
		return strings.HasPrefix(k, reservedPrefix)
	})
	doc := &core.StoredDocument{
		ID:       d.ID,
		Text:     d.Content,
		Vector:   d.Embedding,
		Metadata: core.MetadataFromStrings(user),
	}

	doc.ParentID = d.Metadata[keyParentID]
	doc.ChunkIndex, _ = strconv.Atoi(d.Metadata[keyChunkIndex])
	doc.ChunkCount, _ = strconv.Atoi(d.Metadata[keyChunkCount])
	doc.ContentHash, _ = strconv.ParseUint(d.Metadata[keyContentHash], 10, 64)
	doc.InsertedAt, _ = time.Parse(time.RFC3339Nano, d.Metadata[keyInsertedAt])
	doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.Metadata[keyUpdatedAt])
	return doc
}
