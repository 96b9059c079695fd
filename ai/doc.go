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

// Package ai provides abstractions for the embedding services used by Surfer.
//
// The Embedder interface turns text into vectors; AIProvider owns an Embedder
// and whatever client resources it needs.
//
// # Implementation Packages
//
//   - ai/hashing: deterministic local feature-hashing embedder (the default)
//   - ai/openai: OpenAI-compatible embedding APIs through langchaingo
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Vectors are compared by cosine similarity. Callers normalize them with
// NormalizeVector before storage so that similarity reduces to a dot product.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI), ai.WithAPIKeyEnv("OPENAI_API_KEY"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
package ai
