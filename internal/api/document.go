package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/tweetkit/tw/internal/filter"
)

// jsonAPI keeps numbers as json.Number so 64-bit IDs survive decoding.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Document is a decoded JSON value with explicit accessors. A nil or
// missing Document behaves as JSON null: every accessor returns a zero value.
type Document struct {
	v any
}

// NewDocument wraps an already decoded value.
func NewDocument(v any) *Document {
	return &Document{v: v}
}

// ParseDocument decodes data. Empty input yields a null document.
func ParseDocument(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{}, nil
	}
	var v any
	if err := jsonAPI.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return &Document{v: v}, nil
}

// Value returns the underlying decoded value.
func (d *Document) Value() any {
	if d == nil {
		return nil
	}
	return d.v
}

// IsNull reports whether the document holds JSON null.
func (d *Document) IsNull() bool {
	return d.Value() == nil
}

func (d *Document) object() map[string]any {
	m, _ := d.Value().(map[string]any)
	return m
}

func (d *Document) array() []any {
	a, _ := d.Value().([]any)
	return a
}

// Has reports whether the document is an object containing key.
func (d *Document) Has(key string) bool {
	_, ok := d.object()[key]
	return ok
}

// Get returns the member key of an object document.
func (d *Document) Get(key string) *Document {
	return &Document{v: d.object()[key]}
}

// String returns member key as a string.
func (d *Document) String(key string) string {
	return scalarString(d.object()[key])
}

// Int64 returns member key as an integer.
func (d *Document) Int64(key string) int64 {
	return scalarInt64(d.object()[key])
}

// Bool returns member key as a boolean.
func (d *Document) Bool(key string) bool {
	return cast.ToBool(d.object()[key])
}

// Len returns the number of members or elements.
func (d *Document) Len() int {
	switch v := d.Value().(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

// Index returns element i of an array document.
func (d *Document) Index(i int) *Document {
	a := d.array()
	if i < 0 || i >= len(a) {
		return &Document{}
	}
	return &Document{v: a[i]}
}

// Items returns the elements of an array document.
func (d *Document) Items() []*Document {
	a := d.array()
	out := make([]*Document, len(a))
	for i, v := range a {
		out[i] = &Document{v: v}
	}
	return out
}

// Keys returns the sorted member names of an object document.
func (d *Document) Keys() []string {
	m := d.object()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode copies the document into a struct using its json tags.
func (d *Document) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(d.Value()); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Query runs a jq expression against the document. A single result is
// returned as-is, several as a slice.
func (d *Document) Query(expr string) (any, error) {
	if expr == "" {
		return d.Value(), nil
	}
	return filter.Apply(d.Value(), expr)
}

// MarshalJSON encodes the underlying value.
func (d *Document) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(d.Value())
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case json.Number:
		return t.String()
	default:
		return cast.ToString(t)
	}
}

func scalarInt64(v any) int64 {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return int64(f)
	}
	return cast.ToInt64(v)
}
