package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai/mock"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      4,
		ReportInterval: 4,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestRepo(t, 10)
	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer

	n, err := NewReembedder(repo, embedder, testConfig(), &out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 3, embedder.CallCount(), "10 documents in batches of 4")
	assert.Equal(t, 10, embedder.TextCount())

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	for _, doc := range listAll(t, repo) {
		assert.Len(t, doc.Vector, mock.DefaultDimensions)
	}

	assert.Contains(t, out.String(), "Starting reembedding of 10 documents (batch size: 4)")
	assert.Contains(t, out.String(), "10/10 (100.0%)")
	assert.Contains(t, out.String(), "Reembedding complete. Processed 10 documents")
}

func TestReembedder_Idempotent(t *testing.T) {
	repo := setupTestRepo(t, 5)
	embedder := mock.NewMockEmbedder()
	r := NewReembedder(repo, embedder, testConfig(), nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	first := listAll(t, repo)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	second := listAll(t, repo)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Vector, second[i].Vector)
	}
}

func TestReembedder_EmptyCollection(t *testing.T) {
	repo := setupTestRepo(t, 0)
	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer

	n, err := NewReembedder(repo, embedder, nil, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, embedder.CallCount())
	assert.Contains(t, out.String(), "No documents found")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	repo := setupTestRepo(t, 12)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		cancel()
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.DeterministicVector(text, 4)
		}
		return out, nil
	}

	n, err := NewReembedder(repo, embedder, testConfig(), nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, n)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	repo := setupTestRepo(t, 6)
	embedder := mock.NewMockEmbedder()
	boom := errors.New("model gone")
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	}

	n, err := NewReembedder(repo, embedder, testConfig(), nil).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, n)
}

type countingUnlistableRepo struct {
	unlistableRepo
}

func (countingUnlistableRepo) Count(context.Context) (int, error) {
	return 3, nil
}

func TestReembedder_UnsupportedBackend(t *testing.T) {
	_, err := NewReembedder(countingUnlistableRepo{}, mock.NewMockEmbedder(), nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrUnsupported)
}

func TestReembedder_StoreFailure(t *testing.T) {
	n, err := NewReembedder(failingCountRepo{}, mock.NewMockEmbedder(), nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Equal(t, 0, n)
}

type failingCountRepo struct {
	storage.DocumentRepository
}

func (failingCountRepo) Count(context.Context) (int, error) {
	return 0, storage.ErrStorageClosed
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 100, cfg.ReportInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}
