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

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Length limits enforced when records are decoded, so a corrupt length
// prefix fails with ErrMalformedRecord instead of a huge allocation.
const (
	MaxVectorDimensions = 1 << 16
	MaxMetadataFields   = 1 << 16
)

// ValidateVectorLength rejects vector lengths no embedder produces.
func ValidateVectorLength(length int) error {
	if length > MaxVectorDimensions {
		return fmt.Errorf("%w: vector length %d exceeds %d", ErrMalformedRecord, length, MaxVectorDimensions)
	}
	return nil
}

// ValidateMetadataLength rejects metadata maps with more than MaxMetadataFields entries.
func ValidateMetadataLength(length int) error {
	if length > MaxMetadataFields {
		return fmt.Errorf("%w: %d metadata fields exceed %d", ErrMalformedRecord, length, MaxMetadataFields)
	}
	return nil
}

// ValueMUS serializes the Value union as a kind tag followed by its payload.
// Generated codecs reference it by name.
var ValueMUS = valueMUS{}

type valueMUS struct{}

func (valueMUS) Marshal(v Value, bs []byte) (n int) {
	kind := v.Kind()
	n = varint.Int.Marshal(int(kind), bs)
	switch kind {
	case KindString:
		n += ord.String.Marshal(v.str, bs[n:])
	case KindNumber:
		n += raw.Float64.Marshal(v.num, bs[n:])
	case KindBool:
		n += ord.Bool.Marshal(v.b, bs[n:])
	}
	return
}

func (valueMUS) Unmarshal(bs []byte) (v Value, n int, err error) {
	kind, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	switch Kind(kind) {
	case KindString:
		v.kind = KindString
		v.str, n1, err = ord.String.Unmarshal(bs[n:])
	case KindNumber:
		v.kind = KindNumber
		v.num, n1, err = raw.Float64.Unmarshal(bs[n:])
	case KindBool:
		v.kind = KindBool
		v.b, n1, err = ord.Bool.Unmarshal(bs[n:])
	case KindNull:
		v.kind = KindNull
	default:
		err = fmt.Errorf("%w: unknown value kind %d", ErrMalformedRecord, kind)
	}
	n += n1
	return
}

func (valueMUS) Size(v Value) (size int) {
	kind := v.Kind()
	size = varint.Int.Size(int(kind))
	switch kind {
	case KindString:
		size += ord.String.Size(v.str)
	case KindNumber:
		size += raw.Float64.Size(v.num)
	case KindBool:
		size += ord.Bool.Size(v.b)
	}
	return
}

func (s valueMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
