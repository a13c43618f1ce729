package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingContentLength is returned for a header without a positive
// Content-Length.
var ErrMissingContentLength = errors.New("missing or zero Content-Length")

// ReadMessage reads one framed message (headers and body) and returns the
// body.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}
	if contentLength <= 0 {
		return nil, ErrMissingContentLength
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// WriteMessage writes body with its header.
func WriteMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// Frame returns body with its header, ready to be sent as one unit.
func Frame(body []byte) []byte {
	var buf bytes.Buffer
	_ = WriteMessage(&buf, body)
	return buf.Bytes()
}

// Unframe extracts the body from a single framed message.
func Unframe(frame []byte) ([]byte, error) {
	return ReadMessage(bufio.NewReader(bytes.NewReader(frame)))
}
