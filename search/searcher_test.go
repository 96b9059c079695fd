package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai/mock"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*badger.DocumentRepository, *badger.Backend) {
	t.Helper()
	docs, _, backend, err := badger.NewMemoryRepositories("test-collection")
	require.NoError(t, err)
	t.Cleanup(func() {
		if !backend.IsClosed() {
			backend.Close()
		}
	})
	return docs, backend
}

func storedDoc(id, platform, text string, vector ...float32) *core.StoredDocument {
	return &core.StoredDocument{
		ID:          id,
		ParentID:    id,
		ChunkCount:  1,
		Text:        text,
		ContentHash: core.HashContent(text),
		Vector:      vector,
		Metadata: core.Metadata{
			"name":   core.StringValue(platform),
			"sender": core.StringValue("alice"),
		},
	}
}

// fixedEmbedder always embeds to vector.
func fixedEmbedder(vector ...float32) *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return vector, nil
	}
	return e
}

func seedPlatforms(t *testing.T, docs *badger.DocumentRepository) {
	t.Helper()
	require.NoError(t, docs.UpsertDocuments(context.Background(),
		storedDoc("a-run-2", "A", "far", 0, 1),
		storedDoc("a-run-0", "A", "exact", 1, 0),
		storedDoc("a-run-1", "A", "close", 0.6, 0.8),
		storedDoc("b-run-0", "B", "other exact", 1, 0),
		storedDoc("b-run-1", "B", "other close", 0.8, 0.6),
	))
}

func TestNewSearcher_RequiresDependencies(t *testing.T) {
	docs, _ := newTestRepo(t)

	_, err := NewSearcher(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewSearcher(docs, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewSearcher(docs, mock.NewMockEmbedder(), WithDefaultLimit(0))
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSearch_FiltersByPlatform(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(1, 0))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "hello", Platform: "A"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Document.ID
		name, _ := r.Document.Metadata.Get("name")
		assert.Equal(t, "A", name)
	}
	assert.Equal(t, []string{"a-run-0", "a-run-1", "a-run-2"}, ids)

	assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
	assert.InDelta(t, 0.4, results[1].Distance, 1e-6)
	assert.InDelta(t, 1.0, results[2].Distance, 1e-6)
}

func TestSearch_NoPlatformSearchesAll(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(1, 0))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "hello"})
	require.NoError(t, err)
	require.Len(t, results, 5)

	// Equal distances order by id
	assert.Equal(t, "a-run-0", results[0].Document.ID)
	assert.Equal(t, "b-run-0", results[1].Document.ID)
}

func TestSearch_Limit(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(1, 0), WithDefaultLimit(2))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = s.Search(context.Background(), Query{Text: "q", Limit: 4})
	require.NoError(t, err)
	assert.Len(t, results, 4)

	_, err = s.Search(context.Background(), Query{Text: "q", Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSearch_NormalizesQueryVector(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(10, 0))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "q", Platform: "A", Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
}

func TestSearch_EmptyCollection(t *testing.T) {
	docs, _ := newTestRepo(t)

	s, err := NewSearcher(docs, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "anything", Platform: "A"})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_UnknownPlatform(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(1, 0))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), Query{Text: "q", Platform: "Gmail"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmbedderFailure(t *testing.T) {
	docs, _ := newTestRepo(t)
	embedder := mock.NewMockEmbedder()
	boom := errors.New("model offline")
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, boom
	}

	s, err := NewSearcher(docs, embedder)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), Query{Text: "q"})
	assert.ErrorIs(t, err, core.ErrQueryFailed)
	assert.ErrorIs(t, err, boom)
}

func TestSearch_StoreFailure(t *testing.T) {
	docs, backend := newTestRepo(t)
	s, err := NewSearcher(docs, mock.NewMockEmbedder())
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = s.Search(context.Background(), Query{Text: "q"})
	assert.ErrorIs(t, err, core.ErrQueryFailed)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

type recordingMonitor struct {
	noopMonitor
	query      Query
	dimensions int
	filter     storage.Filter
	limit      int
	finished   int
}

func (m *recordingMonitor) Start(q Query)         { m.query = q }
func (m *recordingMonitor) AfterEmbedding(n int) { m.dimensions = n }
func (m *recordingMonitor) BeforeRetrieval(f storage.Filter, limit int) {
	m.filter = f
	m.limit = limit
}
func (m *recordingMonitor) Finish(results []*core.SearchResult) { m.finished = len(results) }

func TestSearchWithMonitor(t *testing.T) {
	docs, _ := newTestRepo(t)
	seedPlatforms(t, docs)

	s, err := NewSearcher(docs, fixedEmbedder(1, 0))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = s.SearchWithMonitor(context.Background(), Query{Text: "q", Platform: "B"}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "q", monitor.query.Text)
	assert.Equal(t, 2, monitor.dimensions)
	assert.Equal(t, storage.Filter{"name": "B"}, monitor.filter)
	assert.Equal(t, DefaultLimit, monitor.limit)
	assert.Equal(t, 2, monitor.finished)
}

func TestColumns(t *testing.T) {
	results := []*core.SearchResult{
		{Document: storedDoc("x-0", "A", "first", 1, 0), Distance: 0.1},
		{Document: storedDoc("x-1", "A", "second", 0, 1), Distance: 0.5},
	}

	cols := Columns(results)
	assert.Equal(t, []string{"first", "second"}, cols.Documents)
	assert.Equal(t, []float32{0.1, 0.5}, cols.Distances)
	assert.Equal(t, []string{"x-0", "x-1"}, cols.IDs)
	require.Len(t, cols.Metadata, 2)
	assert.Equal(t, "A", cols.Metadata[0]["name"].String())

	out, err := json.Marshal(Columns(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"documents":[],"distances":[],"ids":[],"metadata":[]}`, string(out))
}

func TestColumns_JSONShape(t *testing.T) {
	doc := storedDoc("x-0", "A", "hi", 1, 0)
	doc.Metadata["contact"] = core.NullValue()
	doc.Metadata["count"] = core.NumberValue(3)

	out, err := json.Marshal(Columns([]*core.SearchResult{{Document: doc, Distance: 0.25}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"documents": ["hi"],
		"distances": [0.25],
		"ids": ["x-0"],
		"metadata": [{"name": "A", "sender": "alice", "contact": "None", "count": 3}]
	}`, string(out))
}
