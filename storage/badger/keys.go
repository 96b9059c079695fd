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

package badger

// Key prefixes for different data types
const (
	collectionPrefix = "col"
	checkpointPrefix = "chk"
	documentPrefix   = "doc"
)

// makeCollectionKey generates a catalog key for a collection by name.
// Format: col:name
func makeCollectionKey(name string) []byte {
	return []byte(collectionPrefix + ":" + name)
}

// makeCheckpointPrefix generates the prefix of all checkpoints of a collection.
// Format: chk:collectionID:
func makeCheckpointPrefix(collectionID string) []byte {
	return []byte(checkpointPrefix + ":" + collectionID + ":")
}

// makeCheckpointKey generates a key for the checkpoint of one run.
// Format: chk:collectionID:runID
func makeCheckpointKey(collectionID, runID string) []byte {
	return append(makeCheckpointPrefix(collectionID), runID...)
}

// makeDocumentPrefix generates the prefix of all documents of a collection.
// Format: doc:collectionID:
func makeDocumentPrefix(collectionID string) []byte {
	return []byte(documentPrefix + ":" + collectionID + ":")
}

// makeDocumentKey generates a key for a document by ID.
// Format: doc:collectionID:documentID
func makeDocumentKey(collectionID, docID string) []byte {
	return append(makeDocumentPrefix(collectionID), docID...)
}
