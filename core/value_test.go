package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
		kind  Kind
	}{
		{name: "string", value: StringValue("hi"), want: "hi", kind: KindString},
		{name: "empty string", value: StringValue(""), want: "", kind: KindString},
		{name: "integral number", value: NumberValue(42), want: "42", kind: KindNumber},
		{name: "negative number", value: NumberValue(-7), want: "-7", kind: KindNumber},
		{name: "fractional number", value: NumberValue(1.5), want: "1.5", kind: KindNumber},
		{name: "large number", value: NumberValue(1e21), want: "1e+21", kind: KindNumber},
		{name: "true", value: BoolValue(true), want: "True", kind: KindBool},
		{name: "false", value: BoolValue(false), want: "False", kind: KindBool},
		{name: "null", value: NullValue(), want: "None", kind: KindNull},
		{name: "zero value", value: Value{}, want: "None", kind: KindNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
			assert.Equal(t, tt.kind, tt.value.Kind())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	n, ok := NumberValue(3).Number()
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)

	_, ok = StringValue("3").Number()
	assert.False(t, ok)

	b, ok := BoolValue(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = NullValue().Bool()
	assert.False(t, ok)
}

func TestValue_MarshalJSON(t *testing.T) {
	meta := Metadata{
		"name":   StringValue("iMessage"),
		"count":  NumberValue(3),
		"read":   BoolValue(false),
		"sender": NullValue(),
		"weird":  NumberValue(math.Inf(1)),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"iMessage","count":3,"read":false,"sender":"None","weird":"+Inf"}`, string(data))
}

func TestMetadata_Strings(t *testing.T) {
	meta := Metadata{
		"name":  StringValue("Gmail"),
		"count": NumberValue(2),
		"flag":  BoolValue(true),
		"none":  NullValue(),
	}

	assert.Equal(t, map[string]string{
		"name":  "Gmail",
		"count": "2",
		"flag":  "True",
		"none":  "None",
	}, meta.Strings())

	v, ok := meta.Get("count")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = meta.Get("missing")
	assert.False(t, ok)

	round := MetadataFromStrings(meta.Strings())
	assert.Equal(t, StringValue("2"), round["count"])
}
