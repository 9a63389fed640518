package http

import (
	"iter"
	"strconv"
)

var lastChunk = []byte("0\r\n\r\n")

// ChunkedBody frames every non-empty part produced by body as an HTTP chunk
// and terminates the stream with the zero-size chunk. Empty parts are
// skipped since a zero-size chunk would end the body early.
func ChunkedBody(body iter.Seq[[]byte]) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for part := range body {
			if len(part) == 0 {
				continue
			}
			frame := make([]byte, 0, len(part)+12)
			frame = strconv.AppendInt(frame, int64(len(part)), 16)
			frame = append(frame, '\r', '\n')
			frame = append(frame, part...)
			frame = append(frame, '\r', '\n')
			if !yield(frame) {
				return
			}
		}
		yield(lastChunk)
	}
}
