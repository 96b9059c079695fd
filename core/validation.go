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

import "fmt"

// ValidateIngestionRequest validates an IngestionRequest before any item is processed.
//
// Validation rules:
//   - RunID must not be empty (document ids derive from it)
//   - PlatformID must not be empty (progress events carry it)
//   - PlatformName must not be empty (stored as the "name" filter field)
//   - DocumentsField must not be empty
//
// NOT validated:
//   - Content (an empty batch completes immediately)
//   - Individual items (missing documents fields are skipped per item)
func ValidateIngestionRequest(req *IngestionRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if req.RunID == "" {
		return fmt.Errorf("%w: %w: run id", ErrInvalidRequest, ErrMissingField)
	}

	if req.PlatformID == "" {
		return fmt.Errorf("%w: %w: platform id", ErrInvalidRequest, ErrMissingField)
	}

	if req.PlatformName == "" {
		return fmt.Errorf("%w: %w: platform name", ErrInvalidRequest, ErrMissingField)
	}

	if req.DocumentsField == "" {
		return fmt.Errorf("%w: %w: documents field", ErrInvalidRequest, ErrMissingField)
	}

	return nil
}

// ValidateStoredDocument checks the invariants every persisted document must hold.
// Vector and metadata sizes are bounded so that every written record can be
// read back.
func ValidateStoredDocument(doc *StoredDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidRequest)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: %w: document id", ErrInvalidRequest, ErrMissingField)
	}
	if _, ok := doc.Metadata["name"]; !ok {
		return fmt.Errorf("%w: %w: name metadata", ErrInvalidRequest, ErrMissingField)
	}
	if len(doc.Vector) > MaxVectorDimensions {
		return fmt.Errorf("%w: vector of %d dimensions exceeds %d", ErrInvalidRequest, len(doc.Vector), MaxVectorDimensions)
	}
	if len(doc.Metadata) > MaxMetadataFields {
		return fmt.Errorf("%w: %d metadata fields exceed %d", ErrInvalidRequest, len(doc.Metadata), MaxMetadataFields)
	}
	return nil
}
