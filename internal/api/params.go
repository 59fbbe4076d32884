package api

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// Params is an ordered mapping of request parameter names to scalar values.
// Encode emits keys in first-insertion order. The zero value is empty and
// ready to use.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams builds Params from alternating key/value arguments.
// A trailing key without a value is ignored.
func NewParams(kv ...any) Params {
	var p Params
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(cast.ToString(kv[i]), kv[i+1])
	}
	return p
}

// Set stores value under key, stringified. Re-setting a key keeps its
// original position.
func (p *Params) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = cast.ToString(value)
}

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Del removes key and returns its value.
func (p *Params) Del(key string) (string, bool) {
	v, ok := p.values[key]
	if !ok {
		return "", false
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.keys)
}

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	var out Params
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Merge sets every parameter of other on p, in other's order.
func (p *Params) Merge(other Params) {
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
}

// Values converts to url.Values (order is lost).
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Encode form-encodes the parameters in insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// Map returns the parameters as a plain map.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		out[k] = p.values[k]
	}
	return out
}
