package chromem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc(id, platform string, x, y float32) *core.StoredDocument {
	return &core.StoredDocument{
		ID:          id,
		ParentID:    id,
		ChunkCount:  1,
		Text:        "text of " + id,
		ContentHash: core.HashContent("text of " + id),
		Vector:      []float32{x, y},
		Metadata: core.Metadata{
			"name":   core.StringValue(platform),
			"sender": core.NullValue(),
		},
	}
}

func newTestRepo(t *testing.T) (*DocumentRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chromem")
	repo, err := NewDocumentRepository(path, "collection-1", false)
	require.NoError(t, err)
	return repo, path
}

func TestUpsertAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, testDoc("run1-0", "iMessage", 1, 0)))

	got, err := repo.GetDocuments(ctx, "run1-0", "missing")
	require.NoError(t, err)
	require.Len(t, got, 1)

	doc := got[0]
	assert.Equal(t, "run1-0", doc.ParentID)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.Equal(t, core.HashContent("text of run1-0"), doc.ContentHash)
	assert.Equal(t, "text of run1-0", doc.Text)
	assert.Equal(t, core.StringValue("iMessage"), doc.Metadata["name"])
	assert.Equal(t, core.StringValue("None"), doc.Metadata["sender"])
	assert.NotContains(t, doc.Metadata, keyParentID)
	assert.False(t, doc.InsertedAt.IsZero())
}

func TestUpsert_ReplacesAndPreservesInsertedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, testDoc("a", "A", 1, 0)))
	first, err := repo.GetDocuments(ctx, "a")
	require.NoError(t, err)
	require.Len(t, first, 1)

	replacement := testDoc("a", "A", 0, 1)
	replacement.Text = "replaced"
	require.NoError(t, repo.UpsertDocuments(ctx, replacement))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetDocuments(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "replaced", got[0].Text)
	assert.True(t, first[0].InsertedAt.Equal(got[0].InsertedAt))
}

func TestUpsert_RequiresVector(t *testing.T) {
	repo, _ := newTestRepo(t)
	doc := testDoc("a", "A", 1, 0)
	doc.Vector = nil

	err := repo.UpsertDocuments(context.Background(), doc)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestUpsert_RequiresName(t *testing.T) {
	repo, _ := newTestRepo(t)
	doc := testDoc("a", "A", 1, 0)
	delete(doc.Metadata, "name")

	err := repo.UpsertDocuments(context.Background(), doc)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	assert.ErrorIs(t, err, core.ErrMissingField)
}

func TestFindSimilar_Filtered(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx,
		testDoc("a1", "A", 1, 0),
		testDoc("a2", "A", 0.6, 0.8),
		testDoc("a3", "A", 0, 1),
		testDoc("b1", "B", 1, 0),
		testDoc("b2", "B", 1, 0),
	))

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, storage.PlatformFilter("A"), 5)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a1", results[0].Document.ID)
	assert.Equal(t, "a2", results[1].Document.ID)
	assert.Equal(t, "a3", results[2].Document.ID)
	for _, r := range results {
		assert.Equal(t, core.StringValue("A"), r.Document.Metadata["name"])
	}
	assert.InDelta(t, 0.0, results[0].Distance, 1e-5)
}

func TestFindSimilar_EmptyCollection(t *testing.T) {
	repo, _ := newTestRepo(t)

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0}, storage.PlatformFilter("A"), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_NoMatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, testDoc("b1", "B", 1, 0)))

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, storage.PlatformFilter("A"), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteDocumentsAndDeleteAll(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx,
		testDoc("a", "A", 1, 0),
		testDoc("b", "A", 0, 1),
		testDoc("c", "A", 1, 1),
	))

	require.NoError(t, repo.DeleteDocuments(ctx, "a", "missing"))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteAll(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The collection stays usable after DeleteAll
	require.NoError(t, repo.UpsertDocuments(ctx, testDoc("d", "A", 1, 0)))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPersistence(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, testDoc("a", "A", 1, 0)))
	require.NoError(t, repo.Close())

	reopened, err := NewDocumentRepository(path, "collection-1", false)
	require.NoError(t, err)

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListDocuments_Unsupported(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.ListDocuments(context.Background(), "", 10)
	assert.ErrorIs(t, err, storage.ErrUnsupported)
}
