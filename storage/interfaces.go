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

package storage

import (
	"context"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
)

// DocumentRepository stores the chunked, embedded documents of one collection.
// Implementations must be safe for use from a single writer and any number of
// concurrent readers.
type DocumentRepository interface {
	// UpsertDocuments inserts documents or replaces the ones with the same ID.
	// InsertedAt is preserved across replacements; UpdatedAt is set on every write.
	UpsertDocuments(ctx context.Context, docs ...*core.StoredDocument) error

	// GetDocuments retrieves documents by ID.
	// Returns only the documents that exist (no error for missing IDs).
	GetDocuments(ctx context.Context, ids ...string) ([]*core.StoredDocument, error)

	// DeleteDocuments removes documents by ID. Missing IDs are ignored.
	DeleteDocuments(ctx context.Context, ids ...string) error

	// DeleteAll removes every document of the collection.
	DeleteAll(ctx context.Context) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// FindSimilar returns up to limit documents matching filter, ordered by
	// ascending cosine distance to vector. Ties are broken by document ID.
	// The vector must be normalized.
	FindSimilar(ctx context.Context, vector []float32, filter Filter, limit int) ([]*core.SearchResult, error)

	// ListDocuments returns up to limit documents with IDs greater than
	// afterID, in ID order. An empty afterID starts from the first document.
	// Returns ErrUnsupported when the backend cannot enumerate documents.
	ListDocuments(ctx context.Context, afterID string, limit int) ([]*core.StoredDocument, error)

	// Close releases resources held by the repository.
	Close() error
}

// CollectionRepository manages the catalog of named collections.
type CollectionRepository interface {
	// ListCollections returns all collections ordered by name.
	ListCollections(ctx context.Context) ([]*core.CollectionInfo, error)

	// GetCollection retrieves a collection by name.
	// Returns ErrNotFound if the collection doesn't exist.
	GetCollection(ctx context.Context, name string) (*core.CollectionInfo, error)

	// CreateCollection registers a new collection with a generated ID.
	// Returns ErrDuplicateKey if the name is taken.
	CreateCollection(ctx context.Context, name string, metadata map[string]string) (*core.CollectionInfo, error)

	// DeleteCollection removes a collection from the catalog.
	// Returns ErrNotFound if the collection doesn't exist.
	DeleteCollection(ctx context.Context, name string) error
}

// CheckpointRepository persists ingestion run progress for one collection.
type CheckpointRepository interface {
	// SaveCheckpoint persists the checkpoint of a run, replacing any previous one.
	SaveCheckpoint(ctx context.Context, checkpoint *core.RunCheckpoint) error

	// LoadCheckpoint retrieves the checkpoint of a run.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, runID string) (*core.RunCheckpoint, error)

	// ClearCheckpoints removes every checkpoint of the collection.
	ClearCheckpoints(ctx context.Context) error
}
