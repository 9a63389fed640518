package http

import (
	"iter"
	"strings"
)

// Common header names
const (
	HeaderContentType      = "Content-Type"
	HeaderContentLength    = "Content-Length"
	HeaderTransferEncoding = "Transfer-Encoding"
	HeaderConnection       = "Connection"
)

// Header is an insertion-ordered header map. Names keep the case they were
// set with; setting an existing name replaces its value in place.
type Header struct {
	keys   []string
	values map[string]string
}

// NewHeader builds a Header from alternating name/value pairs.
// A trailing name without a value is ignored.
func NewHeader(pairs ...string) Header {
	var h Header
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Set(pairs[i], pairs[i+1])
	}
	return h
}

// Set sets name to value (last write wins)
func (h *Header) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[name]; !ok {
		h.keys = append(h.keys, name)
	}
	h.values[name] = value
}

// Get returns the value stored under exactly name
func (h Header) Get(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Value looks name up case-insensitively. An exact match wins; otherwise the
// most recently inserted name that folds to the same key is used.
func (h Header) Value(name string) (string, bool) {
	if v, ok := h.values[name]; ok {
		return v, true
	}
	for i := len(h.keys) - 1; i >= 0; i-- {
		if strings.EqualFold(h.keys[i], name) {
			return h.values[h.keys[i]], true
		}
	}
	return "", false
}

// Len returns the number of distinct names
func (h Header) Len() int {
	return len(h.keys)
}

// Names returns the header names in insertion order
func (h Header) Names() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// All iterates over name/value pairs in insertion order
func (h Header) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range h.keys {
			if !yield(k, h.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy
func (h Header) Clone() Header {
	var c Header
	for k, v := range h.All() {
		c.Set(k, v)
	}
	return c
}
