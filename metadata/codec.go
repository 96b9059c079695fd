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

// Package metadata converts arbitrary exported item fields into the
// primitive values a vector store accepts as document metadata.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
)

// IDField is never copied into metadata; the document id is derived instead.
const IDField = "id"

// Codec encodes item fields as metadata values.
// The zero Codec renders every value as a string.
type Codec struct {
	typed bool
}

// Option configures a Codec.
type Option func(*Codec)

// WithTypedValues keeps numbers and booleans as native Number and Bool
// values and null as Null, for stores that accept typed metadata.
func WithTypedValues(typed bool) Option {
	return func(c *Codec) {
		c.typed = typed
	}
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Typed reports whether the codec preserves numbers and booleans.
func (c *Codec) Typed() bool {
	return c.typed
}

// Encode converts every field of item except IDField and the excluded keys.
func (c *Codec) Encode(item core.RawItem, exclude ...string) core.Metadata {
	meta := make(core.Metadata, len(item))
	for key, raw := range item {
		if key == IDField || slices.Contains(exclude, key) {
			continue
		}
		meta[key] = c.Value(raw)
	}
	return meta
}

// Value encodes a single field value.
func (c *Codec) Value(raw any) core.Value {
	if !c.typed {
		return core.StringValue(Stringify(raw))
	}

	switch v := raw.(type) {
	case nil:
		return core.NullValue()
	case bool:
		return core.BoolValue(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return core.NumberValue(f)
		}
		return core.StringValue(v.String())
	case float64:
		return core.NumberValue(v)
	case float32:
		return core.NumberValue(float64(v))
	case int:
		return core.NumberValue(float64(v))
	case int64:
		return core.NumberValue(float64(v))
	case int32:
		return core.NumberValue(float64(v))
	case uint64:
		return core.NumberValue(float64(v))
	default:
		return core.StringValue(Stringify(raw))
	}
}

// Stringify returns the text form of any decoded JSON value:
// null is "None", booleans are "True"/"False", numbers keep their literal,
// mappings and sequences become compact JSON with sorted keys.
func Stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return core.NullLiteral
	case string:
		return v
	case bool:
		return core.FormatBool(v)
	case json.Number:
		return v.String()
	case float64:
		return core.FormatNumber(v)
	case float32:
		return core.FormatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.ValueOf(raw).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if text, err := canonicalJSON(raw); err == nil {
			return text
		}
	}
	return fmt.Sprint(raw)
}

// canonicalJSON marshals v without HTML escaping. encoding/json sorts map
// keys, so equal values always produce equal text.
func canonicalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sanitize(v)); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// sanitize replaces values encoding/json rejects (NaN, infinities) with
// their text form so that every input has an encoding.
func sanitize(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return core.FormatNumber(x)
		}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = sanitize(val)
		}
		return out
	}
	return v
}
