package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTagValue(t *testing.T) {
	tests := []struct {
		name string
		kind TagKind
		raw  string
		want TagValue
	}{
		{name: "number", kind: TagNumber, raw: "9.99", want: NumberTag(9.99)},
		{name: "integer number", kind: TagNumber, raw: "5", want: NumberTag(5)},
		{name: "boolean true", kind: TagBoolean, raw: "true", want: BoolTag(true)},
		{name: "boolean anything else is false", kind: TagBoolean, raw: "yes", want: BoolTag(false)},
		{name: "string", kind: TagString, raw: "x", want: StringTag("x")},
		{name: "corrupt number degrades to string", kind: TagNumber, raw: "not-a-number", want: StringTag("not-a-number")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeTagValue(tt.kind, tt.raw))
		})
	}
}

func TestTagValueRoundTrip(t *testing.T) {
	// Typed value -> stored text -> typed value must be lossless.
	values := []TagValue{
		NumberTag(5),
		NumberTag(9.99),
		BoolTag(true),
		BoolTag(false),
		StringTag("x"),
		StringTag("true"), // string "true" must stay a string
	}
	for _, v := range values {
		got := DecodeTagValue(v.Kind, v.StoreValue())
		assert.Equal(t, v, got, "round trip of %+v", v)
	}
}

func TestTagValueJSON(t *testing.T) {
	var tags TagMap
	err := json.Unmarshal([]byte(`{"n": 5, "ok": true, "s": "x"}`), &tags)
	require.NoError(t, err)

	assert.Equal(t, NumberTag(5), tags["n"])
	assert.Equal(t, BoolTag(true), tags["ok"])
	assert.Equal(t, StringTag("x"), tags["s"])

	out, err := json.Marshal(tags)
	require.NoError(t, err)

	var again TagMap
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, tags, again)
}

func TestTagValueJSONRejectsNonPrimitive(t *testing.T) {
	var v TagValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested": 1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
	assert.Error(t, json.Unmarshal([]byte(`null`), &v))
}

func TestParseTagMap(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    TagMap
		wantErr bool
	}{
		{
			name: "object payload",
			raw:  `{"amount": 9.99}`,
			want: TagMap{"amount": NumberTag(9.99)},
		},
		{
			name: "string payload is one layer deeper",
			raw:  `"{\"ok\": true}"`,
			want: TagMap{"ok": BoolTag(true)},
		},
		{
			name:    "string payload with invalid JSON",
			raw:     `"not json"`,
			wantErr: true,
		},
		{
			name:    "array payload",
			raw:     `[1,2,3]`,
			wantErr: true,
		},
		{
			name: "empty payload",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTagMap(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventQueryIsDefaultOrder(t *testing.T) {
	assert.True(t, EventQuery{}.IsDefaultOrder())
	assert.True(t, EventQuery{SortBy: SortByDate, SortOrder: SortDesc}.IsDefaultOrder())
	assert.False(t, EventQuery{SortBy: SortByName}.IsDefaultOrder())
	assert.False(t, EventQuery{SortOrder: SortAsc}.IsDefaultOrder())
}
