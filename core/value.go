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
	"encoding/json"
	"math"
	"strconv"
)

// NullLiteral is the text form of a null metadata value.
const NullLiteral = "None"

// Kind identifies the primitive type held by a Value.
type Kind int

const (
	// KindString is a text value.
	KindString Kind = iota + 1
	// KindNumber is a float64 value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindNull is the absence of a value.
	KindNull
)

// Value is a metadata value restricted to the primitive kinds a store accepts.
// The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringValue returns a text Value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NullValue returns the null Value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	if v.kind == 0 {
		return KindNull
	}
	return v.kind
}

// Number returns the numeric payload and whether the value is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean payload and whether the value is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String returns the canonical text form of the value.
func (v Value) String() string {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return FormatBool(v.b)
	default:
		return NullLiteral
	}
}

// MarshalJSON renders strings, numbers and booleans natively and null as "None".
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(FormatNumber(v.num))
		}
		return []byte(FormatNumber(v.num)), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.String())
	}
}

// FormatNumber returns the shortest decimal text of n.
// Integral values print without a fractional part.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// FormatBool returns "True" or "False".
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Metadata maps field names to primitive values.
type Metadata map[string]Value

// Strings returns the text form of every value.
func (m Metadata) Strings() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

// Get returns the text form of the value stored under key.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// MetadataFromStrings wraps plain string metadata.
func MetadataFromStrings(in map[string]string) Metadata {
	out := make(Metadata, len(in))
	for k, v := range in {
		out[k] = StringValue(v)
	}
	return out
}
