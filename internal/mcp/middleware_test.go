package mcp

import (
	"context"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestToolTimeoutMiddleware(t *testing.T) {
	var hasDeadline bool
	next := func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		_, hasDeadline = ctx.Deadline()
		return nil, nil
	}
	handler := toolTimeoutMiddleware(time.Second)(next)

	_, err := handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
	require.True(t, hasDeadline)

	_, err = handler(context.Background(), "resources/read", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, hasDeadline)
}

func TestSessionIDFromContext(t *testing.T) {
	require.Empty(t, getSessionID(context.Background()))
	ctx := context.WithValue(context.Background(), sessionIDKey, "s-1")
	require.Equal(t, "s-1", getSessionID(ctx))
}
