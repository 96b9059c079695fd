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

// Package ingestion loads batches of exported items into a document store.
//
// The Pipeline normalizes each item, splits its text into chunks, encodes
// the remaining item fields as metadata and embeds every chunk before
// upserting the item's documents in one call. Items are processed in
// order; progress is reported after each one and persisted as a run
// checkpoint so an interrupted run can resume.
//
// Chunk embedding is spread over a worker pool. Chunks whose id and content
// hash match a stored document keep their stored vector, which makes
// replaying a run cheap.
package ingestion
