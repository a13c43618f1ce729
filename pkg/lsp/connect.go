package lsp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/errors"
)

// ConnectOptions selects and configures the language server.
type ConnectOptions struct {
	// URL of a WebSocket language service. Takes precedence over Command.
	URL string

	// Command and Args start a language server speaking on stdio.
	Command string
	Args    []string

	// Retry governs redialing a WebSocket service that is not up yet.
	// The zero value uses cache.DefaultBackoff.
	Retry cache.Backoff

	RootDir    string
	LanguageID string
	Logger     *log.Logger
}

// Connect reaches the configured language server, initializes it for
// RootDir and returns a Source serving that codebase.
func Connect(ctx context.Context, opts ConnectOptions) (*Source, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	var (
		t   Transport
		err error
	)
	switch {
	case opts.URL != "":
		t, err = DialWebSocket(ctx, opts.URL, opts.Retry, opts.Logger)
	case opts.Command != "":
		t, err = StartProcess(ctx, opts.RootDir, opts.Command, opts.Args, opts.Logger)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no language server configured: set a command or a URL")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSymbolSource, err, "connect to language server")
	}

	client := NewClient(t, opts.Logger)
	src, err := NewSource(client, opts.RootDir, opts.LanguageID)
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", opts.RootDir)
	}
	if err := client.Initialize(ctx, src.RootURI()); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeSymbolSource, err, "initialize language server")
	}
	opts.Logger.Debug("language server ready", "root", src.RootURI())
	return src, nil
}
