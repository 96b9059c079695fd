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

import "github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"

// Filter restricts a similarity query to documents whose metadata values,
// in text form, equal every entry. An empty filter matches everything.
type Filter map[string]string

// Match reports whether meta satisfies the filter.
func (f Filter) Match(meta core.Metadata) bool {
	for k, want := range f {
		got, ok := meta.Get(k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// PlatformFilter returns the filter selecting documents of one platform.
// An empty platform name selects all documents.
func PlatformFilter(platformName string) Filter {
	if platformName == "" {
		return nil
	}
	return Filter{NameField: platformName}
}

// NameField is the metadata key carrying the platform name of every document.
const NameField = "name"
