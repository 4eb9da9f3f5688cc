package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/abacus"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	st := s.MCPServer().GetTool(tool)
	require.NotNil(t, st, "tool %s not registered", tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := st.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_PressKeysAndGetSession(t *testing.T) {
	s := NewServer(abacus.New())

	res := call(t, s, "press_keys", map[string]any{"session_id": "agent", "keys": "DEG sin(30)"})
	require.False(t, res.IsError, text(t, res))
	got, ok := res.StructuredContent.(SessionResponse)
	require.True(t, ok)
	assert.Equal(t, "sin(30)", got.Equation)
	assert.Equal(t, "0.5", got.Result)
	assert.Equal(t, "DEG", got.AngleMode)
	assert.Equal(t, "normal", got.Status)

	res = call(t, s, "get_session", map[string]any{"session_id": "agent"})
	require.False(t, res.IsError)
	assert.Equal(t, got, res.StructuredContent)

	res = call(t, s, "press_keys", map[string]any{"session_id": "agent", "keys": "÷0="})
	require.False(t, res.IsError)
	got = res.StructuredContent.(SessionResponse)
	assert.Equal(t, "error", got.Status)
	assert.Equal(t, "Error", got.Result)
}

func TestTools_Errors(t *testing.T) {
	s := NewServer(abacus.New(), WithMaxInputSize(16))

	res := call(t, s, "get_session", map[string]any{"session_id": "missing"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not found")

	res = call(t, s, "press_keys", map[string]any{"session_id": "x", "keys": "2 ? 2"})
	assert.True(t, res.IsError)

	res = call(t, s, "press_keys", map[string]any{"session_id": "x", "keys": strings.Repeat("1", 17)})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "input rejected")

	res = call(t, s, "evaluate", map[string]any{"expression": "(1+"})
	assert.True(t, res.IsError)

	res = call(t, s, "evaluate", map[string]any{"expression": "1", "angle_mode": "GRAD"})
	assert.True(t, res.IsError)
}

func TestTools_Evaluate(t *testing.T) {
	s := NewServer(abacus.New())

	res := call(t, s, "evaluate", map[string]any{"expression": "acos(0)", "angle_mode": "DEG"})
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, EvaluateResponse{Result: "90", Canonical: "radToDeg(acos(0)"}, res.StructuredContent)

	res = call(t, s, "evaluate", map[string]any{"expression": "2×π"})
	require.False(t, res.IsError)
	assert.Equal(t, "6.283185307", res.StructuredContent.(EvaluateResponse).Result)
}

func TestTools_ClearSession(t *testing.T) {
	calc := abacus.New()
	s := NewServer(calc)
	ctx := context.Background()

	_, err := calc.PressKeys(ctx, "c", "DEG 42")
	require.NoError(t, err)

	res := call(t, s, "clear_session", map[string]any{"session_id": "c"})
	require.False(t, res.IsError)
	cleared := res.StructuredContent.(ClearResponse)
	require.NotNil(t, cleared.State)
	assert.Equal(t, "", cleared.State.Equation)
	assert.Equal(t, "0", cleared.State.Result)
	assert.Equal(t, "RAD", cleared.State.AngleMode)

	res = call(t, s, "clear_session", map[string]any{"session_id": "c", "delete": true})
	require.False(t, res.IsError)
	assert.Equal(t, ClearResponse{Deleted: true}, res.StructuredContent)

	ids, err := calc.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResource_Keys(t *testing.T) {
	s := NewServer(abacus.New())

	msg := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"abacus://keys"}}`
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(msg))

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"uri":"abacus://keys"`)
	assert.Contains(t, string(out), `\"label\":\"RAD/DEG\"`)
	assert.NotContains(t, string(out), `"error"`)
}
