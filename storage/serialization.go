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

package storage

import (
	"fmt"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
)

// MarshalDocument serializes a StoredDocument to bytes.
func MarshalDocument(doc *core.StoredDocument) []byte {
	buf := make([]byte, core.StoredDocumentMUS.Size(*doc))
	core.StoredDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a StoredDocument from bytes.
func UnmarshalDocument(data []byte) (*core.StoredDocument, error) {
	doc, _, err := core.StoredDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalCollection serializes a CollectionInfo to bytes.
func MarshalCollection(info *core.CollectionInfo) []byte {
	buf := make([]byte, core.CollectionInfoMUS.Size(*info))
	core.CollectionInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalCollection deserializes a CollectionInfo from bytes.
func UnmarshalCollection(data []byte) (*core.CollectionInfo, error) {
	info, _, err := core.CollectionInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}

// MarshalCheckpoint serializes a RunCheckpoint to bytes.
func MarshalCheckpoint(checkpoint *core.RunCheckpoint) []byte {
	buf := make([]byte, core.RunCheckpointMUS.Size(*checkpoint))
	core.RunCheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a RunCheckpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.RunCheckpoint, error) {
	checkpoint, _, err := core.RunCheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}
