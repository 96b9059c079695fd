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

// Package chunk splits document text into fixed-size, overlapping windows.
//
// Sizes count Unicode code points, not bytes, so multi-byte text is never
// split inside a character.
package chunk

import (
	"errors"
	"fmt"
)

const (
	// DefaultSize is the maximum chunk length in characters.
	DefaultSize = 1000
	// DefaultOverlap is the number of characters shared by consecutive chunks.
	DefaultOverlap = 200
)

var (
	// ErrInvalidSize indicates a non-positive chunk size.
	ErrInvalidSize = errors.New("chunk size must be positive")
	// ErrInvalidOverlap indicates an overlap outside [0, size).
	ErrInvalidOverlap = errors.New("chunk overlap must be in [0, size)")
)

// Chunker splits text into windows of Size characters, each starting
// Overlap characters before the end of the previous one.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Requires size > 0 and 0 <= overlap < size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrInvalidOverlap, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Default returns a Chunker with DefaultSize and DefaultOverlap.
func Default() *Chunker {
	return &Chunker{size: DefaultSize, overlap: DefaultOverlap}
}

// Size returns the maximum chunk length.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of characters shared by consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the ordered, non-empty list of chunks covering text.
// Text no longer than Size is returned unchanged as the only chunk.
// The last chunk may be shorter than Size.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	stride := c.size - c.overlap
	chunks := make([]string, 0, (len(runes)-c.overlap+stride-1)/stride)
	for start := 0; ; start += stride {
		end := min(start+c.size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Join reverses Split: it concatenates the first chunk with every later
// chunk minus its leading overlap.
func (c *Chunker) Join(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, chunk := range chunks[1:] {
		out = append(out, []rune(chunk)[c.overlap:]...)
	}
	return string(out)
}
