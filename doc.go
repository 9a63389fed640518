/*
Package mockserver is a scriptable HTTP/1.x server for tests.

A test enqueues canned responses, points its client at the server's URL and
afterwards inspects the requests the server received. Responses are served
strictly in enqueue order and requests are recorded in arrival order,
regardless of how many connections carried them.

Quick Start

	server, err := core.New()
	if err != nil {
		t.Fatal(err)
	}
	defer server.Stop()

	server.EnqueueString(200, "hello")

	resp, err := http.Get(server.URL() + "greet")
	...

	req, err := server.TakeRequest()
	// req.Method == "GET", req.Path == "/greet"

Behavior

  - The listener binds an ephemeral port on all IPv4 interfaces. Port and
    URL report where it is reachable.
  - One connection is served at a time, with any number of requests on it.
    Request bodies may use Content-Length or chunked transfer encoding.
  - A request that arrives with no response queued aborts the connection
    and is reported through ConnectionErrors.
  - Every response carries "Connection: close". Chunked response bodies are
    flushed one chunk at a time.
  - Stop wakes the network goroutine, waits for it to exit and is safe to
    call more than once.

Modules

  - app: standalone process that serves a YAML response script
  - cmd/mockserver: command line entry point
  - config: YAML configuration
  - core: server lifecycle, response queue and request log
  - core/http: request parser and response writer
  - core/codec: JSON and protobuf body codecs
  - core/poller: bounded readiness waits with a wakeup pipe
  - core/pools: bufio reader and writer pooling
  - core/queue: FIFO used by the response queue and request log
  - core/logging: zerolog setup
*/
package mockserver
