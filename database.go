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

// Package surfer stores exported personal data in a local vector database
// and serves similarity queries over it.
//
// A data root holds one vector_db directory: a badger index with the
// collection catalog and run checkpoints, and the documents of the
// configured backend.
package surfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/config"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ingestion"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/reembed"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/search"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage/badger"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage/chromem"
)

// Layout of a data root.
const (
	DataDir    = "vector_db"
	IndexDir   = "index"
	ChromemDir = "chromem"
)

// CollectionDescription is the description metadata of a new collection.
const CollectionDescription = "Main collection for Surfer data"

type Database struct {
	dataDir     string
	settings    *config.Settings
	backend     *badger.Backend
	collections storage.CollectionRepository
	collection  *core.CollectionInfo
	documents   storage.DocumentRepository
	checkpoints storage.CheckpointRepository
	provider    ai.AIProvider
	baseLogger  *slog.Logger
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	settings *config.Settings
	provider ai.AIProvider
	logger   *slog.Logger
}

// WithSettings uses settings instead of the data root's settings file.
func WithSettings(settings *config.Settings) DatabaseOption {
	return func(o *databaseOptions) {
		o.settings = settings
	}
}

// WithAIProvider uses provider instead of the one the settings select.
// The Database closes it.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

func applyOptions(userDataPath string, opts []DatabaseOption) (*databaseOptions, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.settings == nil {
		settings, err := config.LoadRoot(userDataPath)
		if err != nil {
			return nil, err
		}
		options.settings = settings
	}
	return options, options.settings.Validate()
}

// Open opens the collection of a data root, creating the store and the
// collection on first use. Fails with core.ErrStorageUnavailable when the
// store cannot be created, is corrupt or is held by another process.
func Open(userDataPath string, opts ...DatabaseOption) (*Database, error) {
	dataDir := filepath.Join(userDataPath, DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	options, err := applyOptions(userDataPath, opts)
	if err != nil {
		return nil, err
	}
	settings := options.settings
	logger := options.logger.With("component", "database")

	backend, err := badger.OpenBackend(filepath.Join(dataDir, IndexDir), false, options.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: opening index: %w", core.ErrStorageUnavailable, err)
	}

	collections := badger.NewCollectionRepository(backend)
	collection, err := openOrCreateCollection(context.Background(), collections, settings.Collection, logger)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	documents, err := openDocuments(settings, dataDir, backend, collection)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("%w: opening %s documents: %w", core.ErrStorageUnavailable, settings.Backend, err)
	}

	provider := options.provider
	if provider == nil {
		provider, err = NewProvider(settings.AIConfig())
		if err != nil {
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		dataDir:     dataDir,
		settings:    settings,
		backend:     backend,
		collections: collections,
		collection:  collection,
		documents:   documents,
		checkpoints: badger.NewCheckpointRepository(backend, collection.ID),
		provider:    provider,
		baseLogger:  options.logger,
		logger:      logger,
	}, nil
}

func openOrCreateCollection(ctx context.Context, collections storage.CollectionRepository, name string, logger *slog.Logger) (*core.CollectionInfo, error) {
	info, err := collections.GetCollection(ctx, name)
	if err == nil {
		logger.Debug("retrieved existing collection", "name", name, "id", info.ID)
		return info, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	info, err = collections.CreateCollection(ctx, name, map[string]string{"description": CollectionDescription})
	if err != nil {
		return nil, err
	}
	logger.Info("created new collection", "name", name, "id", info.ID)
	return info, nil
}

func openDocuments(settings *config.Settings, dataDir string, backend *badger.Backend, collection *core.CollectionInfo) (storage.DocumentRepository, error) {
	switch settings.Backend {
	case config.BackendChromem:
		return chromem.NewDocumentRepository(filepath.Join(dataDir, ChromemDir), collection.ID, settings.Chromem.Compress)
	case config.BackendBadger:
		return badger.NewDocumentRepository(backend, collection.ID), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}

// Delete removes the collection of a data root with its documents and
// checkpoints. The vector_db directory is removed once no collection
// remains. Deleting a root without a store is a no-op.
func Delete(ctx context.Context, userDataPath string, opts ...DatabaseOption) error {
	dataDir := filepath.Join(userDataPath, DataDir)
	if _, err := os.Stat(dataDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	db, err := Open(userDataPath, opts...)
	if err != nil {
		return err
	}

	remaining, err := db.deleteCollection(ctx)
	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	if remaining == 0 {
		if err := os.RemoveAll(dataDir); err != nil {
			return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
		}
		db.logger.Info("removed vector store", "path", dataDir)
	}
	return nil
}

func (db *Database) deleteCollection(ctx context.Context) (int, error) {
	if err := db.documents.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	if err := db.checkpoints.ClearCheckpoints(ctx); err != nil {
		return 0, fmt.Errorf("clearing checkpoints: %w", err)
	}
	if err := db.collections.DeleteCollection(ctx, db.collection.Name); err != nil {
		return 0, fmt.Errorf("deleting collection: %w", err)
	}
	db.logger.Info("deleted collection", "name", db.collection.Name)

	remaining, err := db.collections.ListCollections(ctx)
	if err != nil {
		return 0, err
	}
	return len(remaining), nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.documents.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Count returns the number of documents in the collection.
func (db *Database) Count(ctx context.Context) (int, error) {
	n, err := db.documents.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return n, nil
}

// ListCollections returns every collection of the store.
func (db *Database) ListCollections(ctx context.Context) ([]*core.CollectionInfo, error) {
	return db.collections.ListCollections(ctx)
}

func (db *Database) Collection() *core.CollectionInfo {
	return db.collection
}

func (db *Database) Settings() *config.Settings {
	return db.settings
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpoints
}

// NewIngestionPipeline creates a pipeline configured from the settings.
// opts are applied after the settings and override them.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base, err := db.settings.IngestOptions()
	if err != nil {
		return nil, err
	}
	base = append(base, ingestion.WithLogger(db.baseLogger))
	return ingestion.NewPipeline(db.documents, db.checkpoints, db.provider.Embedder(), append(base, opts...)...)
}

// NewSearcher creates a searcher using the settings' default limit.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithDefaultLimit(db.settings.Query.Limit),
		search.WithLogger(db.baseLogger),
	}
	return search.NewSearcher(db.documents, db.provider.Embedder(), append(base, opts...)...)
}

// NewReembedder creates a reembedder writing progress to progress.
func (db *Database) NewReembedder(progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.documents, db.provider.Embedder(), db.settings.ReembedConfig(), progress)
}
