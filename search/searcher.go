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

package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
)

// DefaultLimit is the number of results returned when a query sets none.
const DefaultLimit = 5

// Query describes one similarity search.
type Query struct {
	Text     string
	Platform string // Platform name to filter on; empty searches all platforms
	Limit    int    // Zero selects the searcher's default
}

// Searcher serves similarity queries over stored documents.
type Searcher struct {
	documents    storage.DocumentRepository
	embedder     ai.Embedder
	defaultLimit int
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDefaultLimit sets the limit used by queries that set none.
// Default is DefaultLimit.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return fmt.Errorf("%w: default %d", ErrInvalidLimit, limit)
		}
		s.defaultLimit = limit
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(documents storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		documents:    documents,
		embedder:     embedder,
		defaultLimit: DefaultLimit,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "search")
	return s, nil
}

// Search returns up to the query limit of documents closest to the query
// text, ordered by ascending cosine distance. An empty collection or a
// platform without documents yields an empty result.
func (s *Searcher) Search(ctx context.Context, query Query) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with progress callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query Query, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	limit := query.Limit
	switch {
	case limit < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit == 0:
		limit = s.defaultLimit
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query.Text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query.Text, "err", err)
		return nil, fmt.Errorf("%w: embedding query: %w", core.ErrQueryFailed, err)
	}
	embedding = ai.NormalizeVector(embedding)
	monitor.AfterEmbedding(len(embedding))

	filter := storage.PlatformFilter(query.Platform)
	monitor.BeforeRetrieval(filter, limit)

	results, err := s.documents.FindSimilar(ctx, embedding, filter, limit)
	if err != nil {
		s.logger.Error("error querying for similar documents", "platform", query.Platform, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrQueryFailed, err)
	}
	if results == nil {
		results = []*core.SearchResult{}
	}

	s.logger.Debug("query complete", "platform", query.Platform, "results", len(results))
	monitor.Finish(results)
	return results, nil
}

// Results is the parallel-array form of a result list: entry i of every
// field describes the same document.
type Results struct {
	Documents []string        `json:"documents"`
	Distances []float32       `json:"distances"`
	IDs       []string        `json:"ids"`
	Metadata  []core.Metadata `json:"metadata"`
}

// Columns converts results to their parallel-array form.
// Empty input produces empty, non-nil arrays.
func Columns(results []*core.SearchResult) *Results {
	out := &Results{
		Documents: make([]string, 0, len(results)),
		Distances: make([]float32, 0, len(results)),
		IDs:       make([]string, 0, len(results)),
		Metadata:  make([]core.Metadata, 0, len(results)),
	}
	for _, r := range results {
		meta := r.Document.Metadata
		if meta == nil {
			meta = core.Metadata{}
		}
		out.Documents = append(out.Documents, r.Document.Text)
		out.Distances = append(out.Distances, r.Distance)
		out.IDs = append(out.IDs, r.Document.ID)
		out.Metadata = append(out.Metadata, meta)
	}
	return out
}
