package http

import (
	"bufio"
	"strconv"
	"strings"
)

// WriteResponse writes resp to w using the request's protocol version.
//
// "Connection: close" is always sent in place of any Connection header the
// response carries. w is flushed after the header block and after every
// body chunk.
func WriteResponse(w *bufio.Writer, resp *Response, version string) error {
	w.WriteString(version)
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(resp.StatusCode))
	w.WriteString("\r\n")

	for k, v := range resp.Headers.All() {
		if strings.EqualFold(k, HeaderConnection) {
			continue
		}
		writeHeaderLine(w, k, v)
	}
	writeHeaderLine(w, HeaderConnection, "close")
	w.WriteString("\r\n")

	if err := w.Flush(); err != nil {
		return err
	}

	if resp.Body == nil {
		return nil
	}

	for chunk := range resp.Body {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func writeHeaderLine(w *bufio.Writer, k, v string) {
	w.WriteString(k)
	w.WriteString(": ")
	w.WriteString(v)
	w.WriteString("\r\n")
}
