// Package context provides context utilities for request and tool-call tracking
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = iota
	// ToolCallKey is the context key for the tool currently executing
	ToolCallKey
)

// NewRequestID generates a new unique request ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, RequestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithToolCall marks the context as executing the named tool
func WithToolCall(parent stdctx.Context, toolName string) stdctx.Context {
	return stdctx.WithValue(parent, ToolCallKey, toolName)
}

// ToolCallFromContext returns the name of the tool executing in ctx, if any
func ToolCallFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if name, ok := ctx.Value(ToolCallKey).(string); ok {
		return name
	}
	return ""
}
