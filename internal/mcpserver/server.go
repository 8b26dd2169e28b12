// Package mcpserver publishes the tool registry to agents over MCP.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edutools/edutools/internal/config"
	"github.com/edutools/edutools/internal/toolkit"
)

const (
	serverName    = "edutools"
	serverVersion = "0.1.0"
)

// Server bridges MCP tool calls to the invoker.
type Server struct {
	invoker *toolkit.Invoker
	cfg     *config.Config
	mcp     *server.MCPServer
	tools   []string
}

// New creates the MCP server and registers every enabled operation plus the
// list_operations, describe_operations and invoke meta tools.
func New(inv *toolkit.Invoker, cfg *config.Config) *Server {
	s := &Server{
		invoker: inv,
		cfg:     cfg,
		mcp: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Tools returns the names registered with the MCP server.
func (s *Server) Tools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// ListOperations returns the names of all enabled operations.
func (s *Server) ListOperations() []string {
	var out []string
	for _, name := range s.invoker.Registry().Names() {
		if s.cfg.ToolEnabled(name) {
			out = append(out, name)
		}
	}
	return out
}

// DescribeOperations returns description and input schema per enabled operation.
func (s *Server) DescribeOperations() map[string]toolkit.OperationInfo {
	all := toolkit.Describe(s.invoker.Registry())
	for name := range all {
		if !s.cfg.ToolEnabled(name) {
			delete(all, name)
		}
	}
	return all
}

// Execute calls an enabled operation and returns its typed error.
// Disabled operations are reported as *toolkit.NotFoundError.
func (s *Server) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	if !s.cfg.ToolEnabled(name) {
		return "", &toolkit.NotFoundError{Name: name}
	}
	return s.invoker.Invoke(ctx, name, args)
}

// Invoke is Execute with failures rendered as a failure payload.
func (s *Server) Invoke(ctx context.Context, name string, args map[string]any) string {
	out, err := s.Execute(ctx, name, args)
	if err != nil {
		return toolkit.FailurePayload(err.Error())
	}
	return out
}

func (s *Server) registerTools() {
	for _, d := range s.invoker.Registry().Descriptors() {
		if !s.cfg.ToolEnabled(d.Name) {
			slog.Debug("mcp: tool disabled", "tool", d.Name)
			continue
		}
		s.add(mcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: inputSchema(toolkit.SchemaFor(d)),
		}, s.operationHandler(d.Name))
	}

	s.add(mcp.NewTool("list_operations",
		mcp.WithDescription("List the names of all available education platform operations"),
	), s.handleListOperations)

	s.add(mcp.NewTool("describe_operations",
		mcp.WithDescription("Describe every operation with its input schema"),
	), s.handleDescribeOperations)

	s.add(mcp.NewTool("invoke",
		mcp.WithDescription("Invoke an operation by name with a JSON object of arguments"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Operation name")),
		mcp.WithObject("arguments", mcp.Description("Operation arguments")),
	), s.handleInvoke)
}

func (s *Server) add(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, h)
	s.tools = append(s.tools, tool.Name)
}

func inputSchema(m map[string]any) mcp.ToolInputSchema {
	props, _ := m["properties"].(map[string]any)
	required, _ := m["required"].([]string)
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func (s *Server) operationHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.result(ctx, name, req.GetArguments()), nil
	}
}

func (s *Server) result(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	out, err := s.Execute(ctx, name, args)
	if err != nil {
		return mcp.NewToolResultError(toolkit.FailurePayload(err.Error()))
	}
	return mcp.NewToolResultText(out)
}

func (s *Server) handleListOperations(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.ListOperations())
}

func (s *Server) handleDescribeOperations(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.DescribeOperations())
}

func (s *Server) handleInvoke(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError(toolkit.FailurePayload("name is required")), nil
	}
	var callArgs map[string]any
	switch v := args["arguments"].(type) {
	case map[string]any:
		callArgs = v
	case string:
		// Some clients send the argument object as a JSON string.
		if v != "" {
			if err := json.Unmarshal([]byte(v), &callArgs); err != nil {
				return mcp.NewToolResultError(toolkit.FailurePayload(fmt.Sprintf("arguments: %v", err))), nil
			}
		}
	}
	return s.result(ctx, name, callArgs), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr, path string) error {
	httpSrv := server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(path))

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mcp: listening", "addr", addr, "path", path)
		errCh <- httpSrv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
