package ingestion

import (
	"testing"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai/mock"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProcessor_RequiresDependencies(t *testing.T) {
	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	_, err = newEmbeddingProcessor(nil, pool, 1, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = newEmbeddingProcessor(mock.NewMockEmbedder(), nil, 1, nil)
	assert.ErrorIs(t, err, ErrWorkerPoolRequired)
}

func TestNewEmbeddingProcessor_DefaultBatchSize(t *testing.T) {
	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	p, err := newEmbeddingProcessor(mock.NewMockEmbedder(), pool, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultEmbedBatchSize, p.batchSize)
}
