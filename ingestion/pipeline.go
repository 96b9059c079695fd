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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"strconv"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/chunk"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/metadata"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/panjf2000/ants/v2"
)

// Metadata keys added to the chunks of multi-chunk documents unless the
// item already has a field of the same name.
const (
	ParentIDField   = "parent_id"
	ChunkIndexField = "chunk_index"
	ChunkCountField = "chunk_count"
)

// ChunkIDMode selects how chunk documents are identified.
type ChunkIDMode string

const (
	// ChunkIDSuffix stores chunk k of a multi-chunk item as "<parentId>:<k>".
	// Single-chunk items keep the parent id.
	ChunkIDSuffix ChunkIDMode = "suffix"

	// ChunkIDCollapse stores every item under its parent id; the last chunk wins.
	ChunkIDCollapse ChunkIDMode = "collapse"
)

// ParseChunkIDMode converts a settings value to a ChunkIDMode.
// An empty string selects ChunkIDSuffix.
func ParseChunkIDMode(s string) (ChunkIDMode, error) {
	switch ChunkIDMode(s) {
	case "", ChunkIDSuffix:
		return ChunkIDSuffix, nil
	case ChunkIDCollapse:
		return ChunkIDCollapse, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChunkIDMode, s)
	}
}

// ProgressFunc receives a progress event after each processed item.
type ProgressFunc func(core.ProgressEvent)

// Pipeline ingests batches of exported items into a document store.
// A Pipeline serves one run at a time.
type Pipeline struct {
	documents      storage.DocumentRepository
	checkpoints    storage.CheckpointRepository
	embedder       ai.Embedder
	chunker        *chunk.Chunker
	codec          *metadata.Codec
	idMode         ChunkIDMode
	resume         bool
	embedBatchSize int
	embeddingPool  *ants.Pool
	embeddingProc  *embeddingProcessor
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent embedding workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker sets the chunker.
// Default is chunk.Default().
func WithChunker(chunker *chunk.Chunker) Option {
	return func(p *Pipeline) error {
		if chunker == nil {
			chunker = chunk.Default()
		}
		p.chunker = chunker
		return nil
	}
}

// WithCodec sets the metadata codec.
// Default renders every value as a string.
func WithCodec(codec *metadata.Codec) Option {
	return func(p *Pipeline) error {
		if codec == nil {
			codec = metadata.NewCodec()
		}
		p.codec = codec
		return nil
	}
}

// WithChunkIDMode sets how chunk documents are identified.
// Default is ChunkIDSuffix.
func WithChunkIDMode(mode ChunkIDMode) Option {
	return func(p *Pipeline) error {
		parsed, err := ParseChunkIDMode(string(mode))
		if err != nil {
			return err
		}
		p.idMode = parsed
		return nil
	}
}

// WithResume makes Ingest continue a run from its saved checkpoint.
func WithResume(resume bool) Option {
	return func(p *Pipeline) error {
		p.resume = resume
		return nil
	}
}

// WithEmbedBatchSize sets how many chunk texts are sent per embedder call.
func WithEmbedBatchSize(size int) Option {
	return func(p *Pipeline) error {
		p.embedBatchSize = size
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:      documents,
		checkpoints:    checkpoints,
		embedder:       embedder,
		chunker:        chunk.Default(),
		codec:          metadata.NewCodec(),
		idMode:         ChunkIDSuffix,
		embedBatchSize: defaultEmbedBatchSize,
		embeddingPool:  embeddingPool,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")

	// Created after options so it sees the final pool and logger
	embeddingProc, err := newEmbeddingProcessor(embedder, p.embeddingPool, p.embedBatchSize, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest processes the items of req in order and returns the final checkpoint.
//
// An item without the documents field is skipped with a warning. progress,
// if not nil, receives an initial event and one event per item, skipped
// items included. Cancellation is checked between items; items processed
// before it stay stored. A store or embedder failure aborts the run with
// an *ItemError.
func (p *Pipeline) Ingest(ctx context.Context, req *core.IngestionRequest, progress ProgressFunc) (*core.RunCheckpoint, error) {
	if err := core.ValidateIngestionRequest(req); err != nil {
		return nil, err
	}

	total := len(req.Content)
	logger := p.logger.With("run", req.RunID, "platform", req.PlatformID)

	checkpoint, err := p.startCheckpoint(ctx, req)
	if err != nil {
		return nil, err
	}
	if checkpoint.Completed > 0 {
		logger.Info("resuming run", "completed", checkpoint.Completed, "total", total)
	} else {
		logger.Info("ingesting run", "items", total)
	}

	emit := func(completed int) {
		if progress != nil {
			progress(core.ProgressEvent{PlatformID: req.PlatformID, Completed: completed, Total: total})
		}
	}
	emit(checkpoint.Completed)

	for i := checkpoint.Completed; i < total; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "completed", i, "total", total)
			return checkpoint, err
		}

		stored, err := p.ingestItem(ctx, req, i)
		switch {
		case errors.Is(err, core.ErrMissingDocumentsField):
			logger.Warn("skipping item", "index", i, "err", err)
			checkpoint.Skipped++
		case err != nil:
			logger.Error("error ingesting item", "index", i, "err", err)
			return checkpoint, &ItemError{Index: i, Err: err}
		default:
			checkpoint.Stored += stored
		}

		checkpoint.Completed = i + 1
		checkpoint.UpdatedAt = time.Now().UTC()
		if err := p.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
			return checkpoint, &ItemError{Index: i, Err: fmt.Errorf("%w: saving checkpoint: %w", core.ErrStorageUnavailable, err)}
		}

		emit(i + 1)
	}

	logger.Info("run complete", "stored", checkpoint.Stored, "skipped", checkpoint.Skipped)
	return checkpoint, nil
}

// startCheckpoint returns the checkpoint a run starts from. With resume
// enabled, a saved checkpoint of the same platform and batch size is
// continued; anything else starts at item 0.
func (p *Pipeline) startCheckpoint(ctx context.Context, req *core.IngestionRequest) (*core.RunCheckpoint, error) {
	fresh := &core.RunCheckpoint{
		RunID:      req.RunID,
		PlatformID: req.PlatformID,
		Total:      len(req.Content),
	}
	if !p.resume {
		return fresh, nil
	}

	saved, err := p.checkpoints.LoadCheckpoint(ctx, req.RunID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading checkpoint: %w", core.ErrStorageUnavailable, err)
	}
	if saved == nil || saved.PlatformID != req.PlatformID || saved.Total != fresh.Total || saved.Completed > saved.Total {
		return fresh, nil
	}
	return saved, nil
}

// ingestItem stores the chunks of item i and returns how many were upserted.
func (p *Pipeline) ingestItem(ctx context.Context, req *core.IngestionRequest, i int) (int, error) {
	record, err := Normalize(req.Content[i], req.DocumentsField, i)
	if err != nil {
		return 0, err
	}

	parentID := core.DocumentID(req.RunID, i)
	meta := p.codec.Encode(record.Item, req.DocumentsField)
	docs := p.buildDocuments(parentID, p.chunker.Split(record.Text), meta, req.PlatformName)

	previous, err := p.previousChunks(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	if _, err := p.embeddingProc.process(ctx, docs, previous); err != nil {
		return 0, err
	}

	if err := p.documents.UpsertDocuments(ctx, docs...); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	if stale := staleIDs(previous, docs); len(stale) > 0 {
		p.logger.Debug("removing stale chunks", "parent", parentID, "chunks", len(stale))
		if err := p.documents.DeleteDocuments(ctx, stale...); err != nil {
			return 0, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
		}
	}

	return len(docs), nil
}

// buildDocuments turns the chunks of one item into documents. The platform
// name is written last so it overrides an item field of the same key. The
// chunk position fields never override item fields; StoredDocument carries
// the position regardless.
func (p *Pipeline) buildDocuments(parentID string, chunks []string, meta core.Metadata, platformName string) []*core.StoredDocument {
	count := len(chunks)

	if p.idMode == ChunkIDCollapse || count == 1 {
		last := count - 1
		itemMeta := maps.Clone(meta)
		itemMeta[storage.NameField] = core.StringValue(platformName)
		return []*core.StoredDocument{{
			ID:          parentID,
			ParentID:    parentID,
			ChunkIndex:  last,
			ChunkCount:  count,
			Text:        chunks[last],
			ContentHash: core.HashContent(chunks[last]),
			Metadata:    itemMeta,
		}}
	}

	docs := make([]*core.StoredDocument, count)
	for k, text := range chunks {
		chunkMeta := maps.Clone(meta)
		putIfAbsent(chunkMeta, ParentIDField, core.StringValue(parentID))
		putIfAbsent(chunkMeta, ChunkIndexField, chunkNumber(k, p.codec.Typed()))
		putIfAbsent(chunkMeta, ChunkCountField, chunkNumber(count, p.codec.Typed()))
		chunkMeta[storage.NameField] = core.StringValue(platformName)

		docs[k] = &core.StoredDocument{
			ID:          core.ChunkID(parentID, k),
			ParentID:    parentID,
			ChunkIndex:  k,
			ChunkCount:  count,
			Text:        text,
			ContentHash: core.HashContent(text),
			Metadata:    chunkMeta,
		}
	}
	return docs
}

func putIfAbsent(meta core.Metadata, key string, v core.Value) {
	if _, ok := meta[key]; !ok {
		meta[key] = v
	}
}

// previousChunks loads the stored chunks of parentID, keyed by id.
// A document stored under the parent id means the item was stored whole;
// a document under "<parentId>:0" carries the previous chunk count.
func (p *Pipeline) previousChunks(ctx context.Context, parentID string) (map[string]*core.StoredDocument, error) {
	heads, err := p.documents.GetDocuments(ctx, parentID, core.ChunkID(parentID, 0))
	if err != nil {
		return nil, err
	}

	previous := make(map[string]*core.StoredDocument, len(heads))
	var rest []string
	for _, head := range heads {
		previous[head.ID] = head
		if head.ID == parentID {
			continue
		}
		for k := 1; k < head.ChunkCount; k++ {
			rest = append(rest, core.ChunkID(parentID, k))
		}
	}

	if len(rest) > 0 {
		docs, err := p.documents.GetDocuments(ctx, rest...)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			previous[doc.ID] = doc
		}
	}
	return previous, nil
}

// staleIDs returns the ids of previous that are not being written.
func staleIDs(previous map[string]*core.StoredDocument, docs []*core.StoredDocument) []string {
	written := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		written[doc.ID] = struct{}{}
	}

	var stale []string
	for id := range previous {
		if _, ok := written[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

func chunkNumber(n int, typed bool) core.Value {
	if typed {
		return core.NumberValue(float64(n))
	}
	return core.StringValue(strconv.Itoa(n))
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
