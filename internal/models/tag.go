package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TagKind discriminates how a tag's stored text value decodes back to a
// typed value. The kind is fixed when the event is ingested and never
// changes afterwards.
type TagKind string

const (
	TagString  TagKind = "string"
	TagNumber  TagKind = "number"
	TagBoolean TagKind = "boolean"
)

// ParseTagKind converts the stored discriminant into a TagKind.
func ParseTagKind(s string) (TagKind, error) {
	switch TagKind(s) {
	case TagString, TagNumber, TagBoolean:
		return TagKind(s), nil
	default:
		return "", fmt.Errorf("unknown tag type %q", s)
	}
}

// TagValue is the decoded value of a single event tag. Exactly one of the
// payload fields is meaningful, selected by Kind.
type TagValue struct {
	Kind TagKind
	Str  string
	Num  float64
	Bool bool
}

// StringTag returns a string-kinded TagValue.
func StringTag(s string) TagValue { return TagValue{Kind: TagString, Str: s} }

// NumberTag returns a number-kinded TagValue.
func NumberTag(f float64) TagValue { return TagValue{Kind: TagNumber, Num: f} }

// BoolTag returns a boolean-kinded TagValue.
func BoolTag(b bool) TagValue { return TagValue{Kind: TagBoolean, Bool: b} }

// DecodeTagValue turns a stored (type, value) pair back into a typed value.
// This is the single decode point at the store boundary: number parses the
// text as a float, boolean compares against the literal "true", anything
// else passes through as a string.
func DecodeTagValue(kind TagKind, raw string) TagValue {
	switch kind {
	case TagNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Corrupt numeric text degrades to a string rather than
			// dropping the tag.
			return StringTag(raw)
		}
		return NumberTag(f)
	case TagBoolean:
		return BoolTag(raw == "true")
	default:
		return StringTag(raw)
	}
}

// StoreValue returns the text encoding persisted in the event_tags table.
func (v TagValue) StoreValue() string {
	switch v.Kind {
	case TagNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case TagBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// MarshalJSON emits the raw primitive so tag maps round-trip as plain JSON
// objects on the wire.
func (v TagValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case TagNumber:
		return json.Marshal(v.Num)
	case TagBoolean:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON infers the kind from the JSON token type. Only primitive
// values are accepted; nested objects, arrays and null are rejected.
func (v *TagValue) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty tag value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringTag(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolTag(b)
		return nil
	case '{', '[', 'n':
		return fmt.Errorf("tag values must be strings, numbers or booleans")
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = NumberTag(f)
		return nil
	}
}

// TagMap is an event's decoded tag set, keyed by tag key. A key is unique
// within an event.
type TagMap map[string]TagValue

// ParseTagMap decodes a tags payload from an ingestion request. The payload
// is either a JSON object of primitive values or a JSON string containing
// the encoding of such an object.
func ParseTagMap(raw json.RawMessage) (TagMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	data := []byte(raw)
	// A string payload is one more JSON layer deep.
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		data = []byte(inner)
	}
	var tags TagMap
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// TagFilter is a query-time equality constraint on one tag key/value pair.
// Multiple filters on the same query are conjunctive.
type TagFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AvailableTag lists the distinct values observed for one tag key, used by
// the dashboard's filter picker.
type AvailableTag struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}
