// Package mcp exposes the engine as a Model Context Protocol server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToursURI is the resource listing the loaded tours.
const ToursURI = "clickpath://tours"

// Engine defines the interface required by the MCP server.
type Engine interface {
	Execute(ctx context.Context, cmd domain.Command) (any, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("clickpath-mcp", clickpath.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mostly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTools(s.tools()...)
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_tours",
				mcp.WithDescription("List the tours loaded for the current page context."),
			),
			Handler: s.simple(domain.CmdGetTours),
		},
		{
			Tool: mcp.NewTool("start_tour",
				mcp.WithDescription("Start a tour at the first of its pages matching the current URL. Without tour_id, the first tour matching the page is started."),
				mcp.WithString("tour_id", mcp.Description("ID of the tour to start (optional)")),
			),
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return s.run(ctx, domain.Command{
					Type:   domain.CmdStartTour,
					TourID: request.GetString("tour_id", ""),
				})
			},
		},
		{
			Tool: mcp.NewTool("stop_tour",
				mcp.WithDescription("Tear down the live tour without recording progress."),
			),
			Handler: s.simple(domain.CmdStopTour),
		},
		{
			Tool: mcp.NewTool("next_step",
				mcp.WithDescription("Advance the live tour. On the last step this completes the tour."),
			),
			Handler: s.simple(domain.CmdNextStep),
		},
		{
			Tool: mcp.NewTool("prev_step",
				mcp.WithDescription("Go back one step in the live tour."),
			),
			Handler: s.simple(domain.CmdPrevStep),
		},
		{
			Tool: mcp.NewTool("skip_tour",
				mcp.WithDescription("Dismiss the live tour and record it as skipped."),
			),
			Handler: s.simple(domain.CmdSkipTour),
		},
		{
			Tool: mcp.NewTool("get_state",
				mcp.WithDescription("Get the cursor of the live tour, or null."),
			),
			Handler: s.simple(domain.CmdGetState),
		},
		{
			Tool: mcp.NewTool("get_theme",
				mcp.WithDescription("Get the active theme and its colors."),
			),
			Handler: s.simple(domain.CmdGetTheme),
		},
		{
			Tool: mcp.NewTool("set_theme",
				mcp.WithDescription("Select a built-in theme: corporater, light or dark."),
				mcp.WithString("name", mcp.Required(), mcp.Description("Theme name")),
			),
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				name, err := request.RequireString("name")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return s.run(ctx, domain.Command{Type: domain.CmdSetTheme, Theme: name})
			},
		},
		{
			Tool: mcp.NewTool("reset_progress",
				mcp.WithDescription("Forget that a tour was completed or skipped so it can auto-start again. Without tour_id, every tour is reset."),
				mcp.WithString("tour_id", mcp.Description("ID of the tour to reset (optional)")),
			),
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return s.run(ctx, domain.Command{
					Type:   domain.CmdResetProgress,
					TourID: request.GetString("tour_id", ""),
				})
			},
		},
	}
}

func (s *Server) simple(typ domain.CommandType) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.run(ctx, domain.Command{Type: typ})
	}
}

// run executes cmd. Engine errors become tool errors, not protocol errors.
func (s *Server) run(ctx context.Context, cmd domain.Command) (*mcp.CallToolResult, error) {
	data, err := s.engine.Execute(ctx, cmd)
	if err != nil {
		s.logger.Debug("MCP command failed", "type", cmd.Type, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ToursURI, "Loaded Tours",
		mcp.WithResourceDescription("Summaries of the tours in the current catalog"),
		mcp.WithMIMEType("application/json"),
	), s.readTours)
}

func (s *Server) readTours(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tours, err := s.engine.Execute(ctx, domain.Command{Type: domain.CmdGetTours})
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	jsonBytes, err := json.Marshal(tours)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tours: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ToursURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
