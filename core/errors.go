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

import "errors"

var (
	// ErrInvalidRequest indicates an IngestionRequest failed validation.
	// Fatal for the whole request.
	ErrInvalidRequest = errors.New("invalid ingestion request")

	// ErrMissingField indicates a required request field is empty.
	ErrMissingField = errors.New("required field missing")

	// ErrMissingDocumentsField indicates an item lacks the configured documents field.
	// The item is skipped; the batch continues.
	ErrMissingDocumentsField = errors.New("item missing documents field")

	// ErrStorageUnavailable indicates the store cannot be opened or written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrQueryFailed indicates a similarity query could not be served.
	ErrQueryFailed = errors.New("query failed")

	// ErrMalformedRecord indicates persisted bytes could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)
