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

package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// HashContent generates a deterministic hash of text content using BLAKE2b hashing.
// Identical chunk text always produces the identical hash, which lets replays
// skip re-embedding unchanged chunks.
func HashContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// DocumentID derives the stable id of the item at index within a run.
func DocumentID(runID string, index int) string {
	return runID + "-" + strconv.Itoa(index)
}

// ChunkID derives the id of one chunk of a multi-chunk document.
func ChunkID(parentID string, chunkIndex int) string {
	return parentID + ":" + strconv.Itoa(chunkIndex)
}

// RawItem is one exported unit (a message, a bookmark, an email) before chunking.
type RawItem map[string]any

// IngestionRequest is a batch of exported items from a single run.
type IngestionRequest struct {
	RunID          string
	PlatformID     string
	PlatformName   string
	DocumentsField string // Name of the item field that holds document text
	Content        []RawItem
}

// StoredDocument is a chunk of an item as persisted in a collection.
type StoredDocument struct {
	ID          string
	ParentID    string // "<runId>-<index>" of the source item
	ChunkIndex  int
	ChunkCount  int
	Text        string
	ContentHash uint64    // HashContent(Text)
	Vector      []float32 // Normalized embedding
	Metadata    Metadata
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// ProgressEvent reports how many items of a batch have been processed.
type ProgressEvent struct {
	PlatformID string
	Completed  int
	Total      int
}

// String renders the event in the "progress:<platformId>:<completed>/<total>" form.
func (e ProgressEvent) String() string {
	return "progress:" + e.PlatformID + ":" + strconv.Itoa(e.Completed) + "/" + strconv.Itoa(e.Total)
}

// Done reports whether the event is terminal.
func (e ProgressEvent) Done() bool {
	return e.Completed >= e.Total
}

// CollectionInfo describes a named, persisted collection.
type CollectionInfo struct {
	ID        string
	Name      string
	Metadata  map[string]string
	CreatedAt time.Time
}

// RunCheckpoint records the durable progress of one ingestion run.
type RunCheckpoint struct {
	RunID      string
	PlatformID string
	Completed  int // Items processed, including skipped ones
	Total      int
	Stored     int // Chunks upserted
	Skipped    int // Items missing the documents field
	UpdatedAt  time.Time
}

// SearchResult is a document matched by a similarity query.
type SearchResult struct {
	Document *StoredDocument
	Distance float32 // Cosine distance, lower is closer
}
