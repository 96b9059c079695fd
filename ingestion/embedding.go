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
	"fmt"
	"log/slog"
	"sync"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/panjf2000/ants/v2"
)

// defaultEmbedBatchSize is the number of chunk texts sent per embedder call.
const defaultEmbedBatchSize = 16

// embeddingProcessor fills in the vectors of chunk documents.
type embeddingProcessor struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embedder ai.Embedder, pool *ants.Pool, batchSize int, logger *slog.Logger) (*embeddingProcessor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if pool == nil {
		return nil, ErrWorkerPoolRequired
	}
	if batchSize < 1 {
		batchSize = defaultEmbedBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder:  embedder,
		pool:      pool,
		batchSize: batchSize,
		logger:    logger.With("processor", "embeddings"),
	}, nil
}

// process sets the Vector of every document. Documents whose id and content
// hash match an entry of previous reuse its vector; the others are embedded
// in batches on the worker pool. Returns the number of texts embedded.
func (ep *embeddingProcessor) process(ctx context.Context, docs []*core.StoredDocument, previous map[string]*core.StoredDocument) (int, error) {
	pending := make([]*core.StoredDocument, 0, len(docs))
	for _, doc := range docs {
		if prev, ok := previous[doc.ID]; ok && prev.ContentHash == doc.ContentHash && len(prev.Vector) > 0 {
			doc.Vector = prev.Vector
			continue
		}
		pending = append(pending, doc)
	}

	if len(pending) == 0 {
		ep.logger.Debug("all chunks unchanged, reusing vectors", "chunks", len(docs))
		return 0, nil
	}

	ep.logger.Debug("generating embeddings for chunks", "chunks", len(pending), "reused", len(docs)-len(pending))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(pending); start += ep.batchSize {
		batch := pending[start:min(start+ep.batchSize, len(pending))]
		wg.Add(1)
		err := ep.pool.Submit(func() {
			defer wg.Done()
			if err := ep.embedBatch(ctx, batch); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submitting embedding batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		ep.logger.Error("error generating embeddings", "err", firstErr)
		return 0, firstErr
	}
	return len(pending), nil
}

func (ep *embeddingProcessor) embedBatch(ctx context.Context, batch []*core.StoredDocument) error {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Text
	}

	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(batch), len(embeddings))
	}

	for i := range embeddings {
		batch[i].Vector = ai.NormalizeVector(embeddings[i])
	}
	return nil
}
