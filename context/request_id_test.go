package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, NewRequestID())

	ctx := WithRequestID(stdctx.Background(), id)
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(stdctx.Background()))
}

func TestToolCall(t *testing.T) {
	ctx := WithToolCall(stdctx.Background(), "get_company_news")
	assert.Equal(t, "get_company_news", ToolCallFromContext(ctx))
	assert.Empty(t, ToolCallFromContext(stdctx.Background()))
}
