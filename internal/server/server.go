// Package server exposes the calculator to agents over the Model Context
// Protocol.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/config"
)

// Server is a calculator MCP server.
type Server struct {
	mcp     *server.MCPServer
	log     *slog.Logger
	opts    []calculator.ParseOption
	timeout time.Duration

	// now and newID are replaceable for tests.
	now   func() time.Time
	newID func() string
}

// New creates a server with every tool, resource, and prompt registered.
func New(cfg *config.Config, log *slog.Logger) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			cfg.Server.Name,
			cfg.Server.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithPromptCapabilities(false),
			server.WithRecovery(),
		),
		log:     log.With("component", "server"),
		opts:    cfg.ParseOptions(),
		timeout: cfg.Limits.Timeout,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin and stdout until stdin closes.
func (s *Server) ServeStdio() error {
	s.log.Info("serving on stdio")
	errlog := slog.NewLogLogger(s.log.Handler(), slog.LevelError)
	return server.ServeStdio(s.mcp, server.WithErrorLogger(errlog))
}

// Envelope holds the fields common to every tool response.
type Envelope struct {
	// ID identifies the response.
	ID string `json:"id"`
	// Operation names what was computed.
	Operation string `json:"operation"`
	// Timestamp is the time the response was created, in RFC 3339 format.
	Timestamp string `json:"timestamp"`
}

func (s *Server) envelope(op string) Envelope {
	return Envelope{
		ID:        s.newID(),
		Operation: op,
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
	}
}

// outcome is the result of a computation run under a deadline.
type outcome struct {
	out  any
	text string
	err  error
}

// run computes f under the configured timeout and converts its outcome to a
// tool result. Errors in the input become tool errors, not protocol errors.
func (s *Server) run(ctx context.Context, tool string, f func() (any, string, error)) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	var o outcome
	if err := ctx.Err(); err != nil {
		o.err = err
	} else {
		ch := make(chan outcome, 1)
		go func() {
			out, text, err := f()
			ch <- outcome{out, text, err}
		}()
		select {
		case o = <-ch:
		case <-ctx.Done():
			o.err = ctx.Err()
		}
	}
	if o.err != nil {
		code := errorCode(o.err)
		s.log.InfoContext(ctx, "tool failed", "tool", tool, "code", code, "err", o.err, "elapsed", time.Since(start))
		return mcp.NewToolResultError(code + ": " + o.err.Error()), nil
	}
	s.log.DebugContext(ctx, "tool succeeded", "tool", tool, "elapsed", time.Since(start))
	return mcp.NewToolResultStructured(o.out, o.text), nil
}
