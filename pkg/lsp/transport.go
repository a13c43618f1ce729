package lsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/codescape/pkg/cache"
)

// Transport carries JSON-RPC message bodies to and from a server.
// Read is called from a single goroutine; Write may be called concurrently.
type Transport interface {
	Read() ([]byte, error)
	Write(body []byte) error
	Close() error
}

// streamTransport frames messages over a byte stream.
type streamTransport struct {
	r  *bufio.Reader
	w  io.WriteCloser
	mu sync.Mutex

	closeFn func() error
}

// NewStreamTransport returns a Transport reading from r and writing to w.
// Closing it closes both.
func NewStreamTransport(r io.ReadCloser, w io.WriteCloser) Transport {
	return &streamTransport{r: bufio.NewReader(r), w: w, closeFn: func() error {
		werr := w.Close()
		if err := r.Close(); err != nil {
			return err
		}
		return werr
	}}
}

func (t *streamTransport) Read() ([]byte, error) { return ReadMessage(t.r) }

func (t *streamTransport) Write(body []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return WriteMessage(t.w, body)
}

func (t *streamTransport) Close() error { return t.closeFn() }

const processExitWait = 3 * time.Second

// StartProcess launches a language server and talks to it over its stdin
// and stdout. Its stderr goes to logger at debug level. Closing the
// transport closes stdin and kills the process if it has not exited
// shortly after.
func StartProcess(ctx context.Context, dir, command string, args []string, logger *log.Logger) (Transport, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	cmd.Stderr = logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}).Writer()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	t := &streamTransport{r: bufio.NewReader(stdout), w: stdin}
	t.closeFn = func() error {
		_ = stdin.Close()
		select {
		case <-done:
		case <-time.After(processExitWait):
			_ = cmd.Process.Kill()
			<-done
		}
		return nil
	}
	return t, nil
}

// wsTransport carries one framed message per binary WebSocket message.
type wsTransport struct {
	conn   *websocket.Conn
	logger *log.Logger
	mu     sync.Mutex
}

const wsWriteWait = 10 * time.Second

// DialWebSocket connects to a language service at url. Failed dial
// attempts are retried according to retry unless the server rejects the
// handshake with a client error or ctx ends first.
func DialWebSocket(ctx context.Context, url string, retry cache.Backoff, logger *log.Logger) (Transport, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var conn *websocket.Conn
	err := retry.Retry(ctx, func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			if resp != nil && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
				return err
			}
			if ctx.Err() != nil {
				return err
			}
			return cache.Transient(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &wsTransport{conn: conn, logger: logger}, nil
}

func (t *wsTransport) Read() ([]byte, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		switch kind {
		case websocket.BinaryMessage:
			return Unframe(data)
		case websocket.TextMessage:
			t.logger.Debug("language server", "output", string(data))
		}
	}
}

func (t *wsTransport) Write(body []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.BinaryMessage, Frame(body))
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	t.mu.Unlock()
	return t.conn.Close()
}
