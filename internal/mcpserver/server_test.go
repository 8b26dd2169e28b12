package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutools/edutools/internal/config"
	"github.com/edutools/edutools/internal/schema"
	"github.com/edutools/edutools/internal/toolkit"
)

type gradebook struct{}

func (*gradebook) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{Method: "Average", Description: "Average of two grades", Params: []schema.ParamSpec{
			schema.Param("a", "first grade"),
			schema.Param("b", "second grade"),
		}},
		{Method: "Purge", Description: "Delete all grades"},
	}
}

func (*gradebook) Average(ctx context.Context, a, b float64) float64 { return (a + b) / 2 }

func (*gradebook) Purge() error { return errors.New("purge is not allowed") }

func newTestServer(t *testing.T, disabled ...string) *Server {
	t.Helper()
	reg := toolkit.NewRegistry(toolkit.TypesOf((*gradebook)(nil)))
	inv := toolkit.NewInvoker(reg, toolkit.ResolverFunc(func(reflect.Type) (any, error) {
		return &gradebook{}, nil
	}))
	cfg := config.DefaultConfig()
	cfg.Tools.Disabled = disabled
	return New(inv, &cfg)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNew_RegistersOperationsAndMetaTools(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, []string{"Average", "Purge", "list_operations", "describe_operations", "invoke"}, s.Tools())
}

func TestNew_SkipsDisabledTools(t *testing.T) {
	s := newTestServer(t, "Purge")

	assert.NotContains(t, s.Tools(), "Purge")
	assert.Equal(t, []string{"Average"}, s.ListOperations())
	assert.NotContains(t, s.DescribeOperations(), "Purge")

	msg, ok := toolkit.ParseFailure(s.Invoke(context.Background(), "Purge", nil))
	require.True(t, ok)
	assert.Equal(t, "Tool 'Purge' not found", msg)
}

func TestOperationHandler_Success(t *testing.T) {
	s := newTestServer(t)

	res, err := s.operationHandler("Average")(context.Background(), callRequest("Average", map[string]any{"a": 80, "b": "90"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "85", text(t, res))
}

func TestOperationHandler_FailureIsToolError(t *testing.T) {
	s := newTestServer(t)

	res, err := s.operationHandler("Purge")(context.Background(), callRequest("Purge", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"success":false,"message":"purge is not allowed"}`, text(t, res))
}

func TestHandleDescribeOperations(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDescribeOperations(context.Background(), callRequest("describe_operations", nil))
	require.NoError(t, err)

	var got map[string]toolkit.OperationInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	require.Contains(t, got, "Average")
	props := got["Average"].InputSchema["properties"].(map[string]any)
	assert.NotContains(t, props, "ctx")
	assert.Equal(t, "number", props["a"].(map[string]any)["type"])
}

func TestHandleListOperations(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListOperations(context.Background(), callRequest("list_operations", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["Average","Purge"]`, text(t, res))
}

func TestHandleInvoke(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleInvoke(context.Background(), callRequest("invoke", map[string]any{
		"name":      "Average",
		"arguments": map[string]any{"a": 1, "b": 2},
	}))
	require.NoError(t, err)
	assert.Equal(t, "1.5", text(t, res))

	res, err = s.handleInvoke(context.Background(), callRequest("invoke", map[string]any{
		"name":      "Average",
		"arguments": `{"a": 3, "b": 5}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, "4", text(t, res))

	res, err = s.handleInvoke(context.Background(), callRequest("invoke", map[string]any{"name": "Missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"success":false,"message":"Tool 'Missing' not found"}`, text(t, res))
}

func TestInputSchema(t *testing.T) {
	got := inputSchema(map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "integer"}},
		"required":   []string{"a"},
	})
	assert.Equal(t, "object", got.Type)
	assert.Equal(t, []string{"a"}, got.Required)
	assert.Contains(t, got.Properties, "a")
}

// notes returns caller text verbatim, including text shaped like a failure.
type notes struct{}

func (*notes) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{Method: "Echo", Params: []schema.ParamSpec{schema.Param("text", "text to return")}},
	}
}

func (*notes) Echo(text string) string { return text }

func TestExecute_TypedErrors(t *testing.T) {
	reg := toolkit.NewRegistry(toolkit.TypesOf((*notes)(nil), (*gradebook)(nil)))
	inv := toolkit.NewInvoker(reg, toolkit.ResolverFunc(func(rt reflect.Type) (any, error) {
		if rt == reflect.TypeOf((*notes)(nil)) {
			return &notes{}, nil
		}
		return &gradebook{}, nil
	}))
	cfg := config.DefaultConfig()
	cfg.Tools.Disabled = []string{"Average"}
	s := New(inv, &cfg)

	lookalike := `{"success":false,"message":"not really"}`
	out, err := s.Execute(context.Background(), "Echo", map[string]any{"text": lookalike})
	require.NoError(t, err)
	assert.Equal(t, lookalike, out)

	_, err = s.Execute(context.Background(), "Average", map[string]any{"a": 1, "b": 2})
	var nf *toolkit.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Average", nf.Name)

	_, err = s.Execute(context.Background(), "Purge", nil)
	var ie *toolkit.InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "purge is not allowed", ie.Error())
}
