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

// Package hashing implements ai.Embedder with the hashing trick: every word
// is hashed into one of a fixed number of buckets with a hash-derived sign.
// Vectors are deterministic, need no model or network, and texts sharing
// words score higher cosine similarity than texts that don't.
package hashing

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
)

// Bucket 0 is reserved for texts without any token so that they still
// produce a unit vector.
const emptyBucket = 0

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// Embedder is a feature-hashing ai.Embedder.
type Embedder struct {
	dims int
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder producing vectors of dims components.
// Values below 2 fall back to ai.DefaultDimensions.
func NewEmbedder(dims int) *Embedder {
	if dims < 2 {
		dims = ai.DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Dimensions returns the vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// EmbedText returns the normalized hashed bag-of-words vector of text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts embeds every text in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	vector := make([]float32, e.dims)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		bucket := 1 + int(sum%uint64(e.dims-1))
		if sum>>63 == 1 {
			vector[bucket]--
		} else {
			vector[bucket]++
		}
	}

	vector = ai.NormalizeVector(vector)
	if isZero(vector) {
		vector[emptyBucket] = 1
	}
	return vector
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
