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

package ingestion

import (
	"fmt"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/metadata"
)

// NormalizedRecord is an item with its document text extracted.
type NormalizedRecord struct {
	Index int
	Text  string
	Item  core.RawItem
}

// Normalize extracts the text held under documentsField.
// Returns core.ErrMissingDocumentsField when the item lacks the field;
// callers skip such items. Non-string values are converted to text.
func Normalize(item core.RawItem, documentsField string, index int) (*NormalizedRecord, error) {
	raw, ok := item[documentsField]
	if !ok {
		return nil, fmt.Errorf("%w: %q at index %d", core.ErrMissingDocumentsField, documentsField, index)
	}

	text, isString := raw.(string)
	if !isString {
		text = metadata.Stringify(raw)
	}

	return &NormalizedRecord{
		Index: index,
		Text:  text,
		Item:  item,
	}, nil
}
