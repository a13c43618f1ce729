package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescape/pkg/observability"
)

// ErrClosed is returned by calls on a closed client or after the
// connection to the server broke.
var ErrClosed = errors.New("lsp: connection closed")

// Client sends requests to a language server and matches the responses.
type Client struct {
	t      Transport
	logger *log.Logger
	nextID atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan *message
	err     error // set once the read loop ends
	done    chan struct{}
}

// NewClient starts reading from t. Close the client to stop.
func NewClient(t Transport, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Client{
		t:       t,
		logger:  logger,
		pending: make(map[int64]chan *message),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Call sends a request and decodes the response's result into result,
// which may be nil to discard it.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	start := time.Now()
	observability.SymbolSource().OnRequest(ctx, method)
	err := c.call(ctx, method, params, result)
	observability.SymbolSource().OnResponse(ctx, method, time.Since(start), err)
	return err
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	id := c.nextID.Add(1)
	ch := make(chan *message, 1)

	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return c.err
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.send(request{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return c.closedErr()
	case msg := <-ch:
		if msg.Error != nil {
			return fmt.Errorf("%s: %w", method, msg.Error)
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

// Notify sends a notification.
func (c *Client) Notify(method string, params any) error {
	return c.send(request{JSONRPC: "2.0", Method: method, Params: params})
}

func (c *Client) send(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return c.t.Write(body)
}

// Initialize performs the initialize handshake for the workspace at rootURI.
func (c *Client) Initialize(ctx context.Context, rootURI string) error {
	var params initializeParams
	params.RootURI = rootURI
	params.Capabilities.TextDocument.DocumentSymbol.HierarchicalDocumentSymbolSupport = true
	if err := c.Call(ctx, "initialize", params, nil); err != nil {
		return err
	}
	return c.Notify("initialized", struct{}{})
}

// Shutdown asks the server to shut down and exit.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.Call(ctx, "shutdown", nil, nil); err != nil {
		return err
	}
	return c.Notify("exit", nil)
}

// Close closes the transport and fails all pending calls.
func (c *Client) Close() error {
	err := c.t.Close()
	<-c.done
	return err
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) readLoop() {
	var err error
	for {
		var body []byte
		body, err = c.t.Read()
		if err != nil {
			break
		}
		var msg message
		if jerr := json.Unmarshal(body, &msg); jerr != nil {
			c.logger.Warn("dropping malformed message", "err", jerr)
			continue
		}
		c.dispatch(&msg)
	}

	c.mu.Lock()
	c.err = ErrClosed
	if !errors.Is(err, io.EOF) {
		c.err = fmt.Errorf("%w: %v", ErrClosed, err)
	}
	c.mu.Unlock()
	close(c.done)
}

func (c *Client) dispatch(msg *message) {
	switch {
	case msg.Method != "" && len(msg.ID) > 0:
		// Requests from the server (progress tokens, configuration) are
		// acknowledged with a null result.
		if err := c.send(response{JSONRPC: "2.0", ID: msg.ID}); err != nil {
			c.logger.Warn("reply to server request", "method", msg.Method, "err", err)
		}
	case msg.Method != "":
		c.logger.Debug("notification", "method", msg.Method)
	default:
		id, err := strconv.ParseInt(string(msg.ID), 10, 64)
		if err != nil {
			c.logger.Warn("response with unexpected id", "id", string(msg.ID))
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[id]
		c.mu.Unlock()
		if !ok {
			return
		}
		select {
		case ch <- msg:
		default:
			c.logger.Warn("duplicate response", "id", id)
		}
	}
}
