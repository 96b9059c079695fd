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

// Package storage provides the storage abstraction layer for Surfer.
//
// Three repositories split the persisted state of a store root:
//
//   - CollectionRepository: the catalog of named collections
//   - DocumentRepository: chunked, embedded documents of one collection
//   - CheckpointRepository: per-run ingestion progress of one collection
//
// The badger subpackage implements all three. The chromem subpackage
// implements DocumentRepository on top of chromem-go; the catalog and
// checkpoints always live in badger.
//
// # Filtering
//
// Similarity queries take a Filter, an equality match on the text form of
// metadata values. Every stored document carries the platform name under
// NameField, so PlatformFilter restricts a query to one source platform.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
// Pass context.Background() for operations without specific deadlines.
package storage
