package core

import (
	"testing"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredDocumentMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := StoredDocument{
		ID:          "run1-0:1",
		ParentID:    "run1-0",
		ChunkIndex:  1,
		ChunkCount:  3,
		Text:        "second chunk",
		ContentHash: HashContent("second chunk"),
		Vector:      []float32{0.6, 0.8},
		Metadata: Metadata{
			"name":   StringValue("iMessage"),
			"count":  NumberValue(2),
			"read":   BoolValue(true),
			"sender": NullValue(),
		},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	bs := make([]byte, StoredDocumentMUS.Size(doc))
	n := StoredDocumentMUS.Marshal(doc, bs)
	assert.Equal(t, len(bs), n)

	decoded, m, err := StoredDocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, doc.ID, decoded.ID)
	assert.Equal(t, doc.ParentID, decoded.ParentID)
	assert.Equal(t, doc.ChunkIndex, decoded.ChunkIndex)
	assert.Equal(t, doc.ChunkCount, decoded.ChunkCount)
	assert.Equal(t, doc.Text, decoded.Text)
	assert.Equal(t, doc.ContentHash, decoded.ContentHash)
	assert.Equal(t, doc.Vector, decoded.Vector)
	assert.Equal(t, doc.Metadata, decoded.Metadata)
	assert.True(t, doc.InsertedAt.Equal(decoded.InsertedAt))
	assert.True(t, doc.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestStoredDocumentMUS_ZeroTimes(t *testing.T) {
	doc := StoredDocument{ID: "a"}
	bs := make([]byte, StoredDocumentMUS.Size(doc))
	StoredDocumentMUS.Marshal(doc, bs)

	decoded, _, err := StoredDocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.True(t, decoded.InsertedAt.IsZero())
	assert.Empty(t, decoded.Vector)
}

// documentPrefix encodes the fields of a StoredDocument up to and including
// the vector length prefix.
func documentPrefix(vectorLen int) []byte {
	bs := make([]byte, 64)
	n := ord.String.Marshal("run1-0", bs)
	n += ord.String.Marshal("run1-0", bs[n:])
	n += varint.Int.Marshal(0, bs[n:])
	n += varint.Int.Marshal(1, bs[n:])
	n += ord.String.Marshal("text", bs[n:])
	n += varint.Uint64.Marshal(7, bs[n:])
	n += varint.PositiveInt.Marshal(vectorLen, bs[n:])
	return bs[:n]
}

func TestStoredDocumentMUS_Truncated(t *testing.T) {
	doc := StoredDocument{ID: "run1-0", Text: "some text", Vector: []float32{1}}
	bs := make([]byte, StoredDocumentMUS.Size(doc))
	StoredDocumentMUS.Marshal(doc, bs)

	_, _, err := StoredDocumentMUS.Unmarshal(bs[:len(bs)/2])
	assert.Error(t, err)

	t.Run("huge vector length", func(t *testing.T) {
		_, _, err := StoredDocumentMUS.Unmarshal(documentPrefix(1 << 40))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("vector length past the end", func(t *testing.T) {
		_, _, err := StoredDocumentMUS.Unmarshal(documentPrefix(1024))
		assert.Error(t, err)
	})

	t.Run("huge metadata length", func(t *testing.T) {
		bs := documentPrefix(0)
		bs = append(bs, make([]byte, 16)...)
		n := len(documentPrefix(0))
		n += varint.PositiveInt.Marshal(1<<40, bs[n:])

		_, _, err := StoredDocumentMUS.Unmarshal(bs[:n])
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("huge collection metadata length", func(t *testing.T) {
		bs := make([]byte, 64)
		n := ord.String.Marshal("id", bs)
		n += ord.String.Marshal("surfer_collection", bs[n:])
		n += varint.PositiveInt.Marshal(1<<40, bs[n:])

		_, _, err := CollectionInfoMUS.Unmarshal(bs[:n])
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestValidateLengths(t *testing.T) {
	assert.NoError(t, ValidateVectorLength(MaxVectorDimensions))
	assert.ErrorIs(t, ValidateVectorLength(MaxVectorDimensions+1), ErrMalformedRecord)
	assert.NoError(t, ValidateMetadataLength(0))
	assert.ErrorIs(t, ValidateMetadataLength(MaxMetadataFields+1), ErrMalformedRecord)
}

func TestValueMUS_UnknownKind(t *testing.T) {
	_, _, err := ValueMUS.Unmarshal([]byte{0x7f})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestCollectionInfoMUS_RoundTrip(t *testing.T) {
	info := CollectionInfo{
		ID:        "0b5c7a8e-1111-2222-3333-444455556666",
		Name:      "surfer_collection",
		Metadata:  map[string]string{"description": "Main collection for Surfer data"},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, CollectionInfoMUS.Size(info))
	CollectionInfoMUS.Marshal(info, bs)

	decoded, _, err := CollectionInfoMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, info.ID, decoded.ID)
	assert.Equal(t, info.Name, decoded.Name)
	assert.Equal(t, info.Metadata, decoded.Metadata)
	assert.True(t, info.CreatedAt.Equal(decoded.CreatedAt))
}

func TestRunCheckpointMUS_RoundTrip(t *testing.T) {
	cp := RunCheckpoint{
		RunID:      "run1",
		PlatformID: "gmail-001",
		Completed:  3,
		Total:      5,
		Stored:     7,
		Skipped:    1,
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, RunCheckpointMUS.Size(cp))
	RunCheckpointMUS.Marshal(cp, bs)

	decoded, _, err := RunCheckpointMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, cp.RunID, decoded.RunID)
	assert.Equal(t, cp.PlatformID, decoded.PlatformID)
	assert.Equal(t, cp.Completed, decoded.Completed)
	assert.Equal(t, cp.Total, decoded.Total)
	assert.Equal(t, cp.Stored, decoded.Stored)
	assert.Equal(t, cp.Skipped, decoded.Skipped)
	assert.True(t, cp.UpdatedAt.Equal(decoded.UpdatedAt))
}
