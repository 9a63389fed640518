package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/searchktools/mock-server/core/codec"
	"github.com/searchktools/mock-server/core/http"
)

// Script is a list of canned responses served in order
type Script struct {
	Responses []ScriptResponse `yaml:"responses"`
}

// ScriptResponse describes one canned response. At most one body source is
// used, in this order of precedence: Data (encoded with Codec), JSON, Chunks,
// Body.
type ScriptResponse struct {
	Status  int           `yaml:"status"`
	Headers OrderedHeader `yaml:"headers"`
	Body    string        `yaml:"body"`
	JSON    any           `yaml:"json"`
	Data    any           `yaml:"data"`
	Codec   string        `yaml:"codec"` // json (default) or protobuf
	Chunks  []string      `yaml:"chunks"`
	DelayMs int           `yaml:"delay_ms"`
}

// OrderedHeader keeps YAML mapping keys in document order
type OrderedHeader struct {
	http.Header
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *OrderedHeader) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: headers must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, value string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		h.Set(key, value)
	}
	return nil
}

// LoadScript reads a response script from path
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML response script
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &s, nil
}

// Build converts every entry into a response
func (s *Script) Build() ([]*http.Response, error) {
	out := make([]*http.Response, 0, len(s.Responses))
	for i, entry := range s.Responses {
		resp, err := entry.Build()
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", i, err)
		}
		out = append(out, resp)
	}
	return out, nil
}

// Build converts the entry into a response
func (r ScriptResponse) Build() (*http.Response, error) {
	status := r.Status
	if status == 0 {
		status = 200
	}
	if r.DelayMs < 0 {
		return nil, fmt.Errorf("delay_ms must not be negative")
	}
	if r.Codec != "" && r.Data == nil {
		return nil, fmt.Errorf("codec %q given without data", r.Codec)
	}

	var (
		resp *http.Response
		err  error
	)
	switch {
	case r.Data != nil:
		var c codec.Codec
		if c, err = codec.Lookup(r.Codec); err != nil {
			return nil, err
		}
		resp, err = http.NewEncodedResponse(status, c, r.Data)
		if err != nil {
			return nil, err
		}
	case r.JSON != nil:
		resp, err = http.NewEncodedResponse(status, codec.JSON, r.JSON)
		if err != nil {
			return nil, err
		}
	case len(r.Chunks) > 0:
		parts := make([][]byte, len(r.Chunks))
		for i, c := range r.Chunks {
			parts[i] = []byte(c)
		}
		resp = http.NewStreamingResponse(status, http.Chunks(parts...))
	case r.Body != "":
		resp = http.NewStringResponse(status, r.Body)
	default:
		resp = http.NewResponse(status)
	}

	for k, v := range r.Headers.All() {
		resp = resp.WithHeader(k, v)
	}
	if r.DelayMs > 0 {
		resp = resp.WithDelay(time.Duration(r.DelayMs) * time.Millisecond)
	}

	return resp, resp.Validate()
}
