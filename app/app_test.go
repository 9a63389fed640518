package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchktools/mock-server/config"
	"github.com/searchktools/mock-server/core/codec"
	"github.com/searchktools/mock-server/core/http"
)

const testScript = `
responses:
  - status: 201
    headers:
      X-First: one
      X-Second: two
    body: created
  - json:
      ok: true
  - chunks: ["ab", "cd"]
    delay_ms: 5
  - status: 204
`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseScript_Build(t *testing.T) {
	s, err := ParseScript([]byte(testScript))
	require.NoError(t, err)
	require.Len(t, s.Responses, 4)

	responses, err := s.Build()
	require.NoError(t, err)

	first := responses[0]
	assert.Equal(t, 201, first.StatusCode)
	assert.Equal(t, []string{"Content-Length", "X-First", "X-Second"}, first.Headers.Names())

	ct, ok := responses[1].Headers.Get("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json", ct)
	assert.Equal(t, 200, responses[1].StatusCode)

	te, ok := responses[2].Headers.Get("Transfer-Encoding")
	require.True(t, ok)
	assert.Equal(t, "chunked", te)
	assert.Equal(t, 5*time.Millisecond, responses[2].Delay)

	cl, ok := responses[3].Headers.Get("Content-Length")
	require.True(t, ok)
	assert.Equal(t, "0", cl)
}

func TestParseScript_EncodedData(t *testing.T) {
	s, err := ParseScript([]byte(`
responses:
  - codec: protobuf
    data:
      user: ada
      roles: [admin]
  - data: [1, 2]
`))
	require.NoError(t, err)

	responses, err := s.Build()
	require.NoError(t, err)
	require.Len(t, responses, 2)

	ct, _ := responses[0].Headers.Get("Content-Type")
	assert.Equal(t, "application/x-protobuf", ct)

	var decoded any
	require.NoError(t, codec.Protobuf.Decode(bodyBytes(responses[0]), &decoded))
	assert.Equal(t, map[string]any{"user": "ada", "roles": []any{"admin"}}, decoded)

	ct, _ = responses[1].Headers.Get("Content-Type")
	assert.Equal(t, "application/json", ct)
	assert.JSONEq(t, `[1,2]`, string(bodyBytes(responses[1])))
}

func TestParseScript_CodecErrors(t *testing.T) {
	for _, doc := range []string{
		"responses:\n  - codec: msgpack\n    data: {a: 1}\n",
		"responses:\n  - codec: protobuf\n    body: plain\n",
	} {
		s, err := ParseScript([]byte(doc))
		require.NoError(t, err)
		_, err = s.Build()
		assert.Error(t, err, doc)
	}
}

func bodyBytes(resp *http.Response) []byte {
	var out []byte
	for part := range resp.Body {
		out = append(out, part...)
	}
	return out
}

func TestParseScript_Errors(t *testing.T) {
	_, err := ParseScript([]byte("responses: [\n"))
	assert.Error(t, err)

	_, err = ParseScript([]byte("responses:\n  - headers: [a, b]\n"))
	assert.Error(t, err)

	s, err := ParseScript([]byte("responses:\n  - delay_ms: -1\n"))
	require.NoError(t, err)
	_, err = s.Build()
	assert.Error(t, err)

	s, err = ParseScript([]byte("responses:\n  - status: 42\n"))
	require.NoError(t, err)
	_, err = s.Build()
	assert.Error(t, err)
}

func TestLoadScript_MissingFile(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func newTestConfig(t *testing.T, script string) *config.Config {
	cfg := config.LoadDefault()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.PollTimeoutMillis = 50
	if script != "" {
		cfg.Script = writeScript(t, script)
	}
	return cfg
}

func TestApp_ServesScriptAndExitsWhenDrained(t *testing.T) {
	var out bytes.Buffer
	a, err := New(newTestConfig(t, "responses:\n  - body: hello\n"), Options{
		ExitWhenDrained: true,
		Output:          &out,
	})
	require.NoError(t, err)
	a.drainPoll = 5 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", a.Server().Port()))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /greet HTTP/1.1\r\nHost: test\r\n\r\n"))
	require.NoError(t, err)

	resp, err := nethttp.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not exit after the script was drained")
	}

	report := out.String()
	assert.Contains(t, report, "mock server listening on http://127.0.0.1:")
	assert.Contains(t, report, "/greet")
	assert.Contains(t, report, "Responses written:    1")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	a, err := New(newTestConfig(t, ""), Options{Output: &out})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Contains(t, out.String(), "Recorded requests (0)")
}

func TestNew_InvalidScript(t *testing.T) {
	_, err := New(newTestConfig(t, "responses:\n  - status: 7\n"), Options{Output: &bytes.Buffer{}})
	assert.Error(t, err)
}
