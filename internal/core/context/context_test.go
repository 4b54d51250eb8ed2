package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceContext(t *testing.T) {
	tc := NewTraceContext("trace-1", "")
	assert.Equal(t, "trace-1", tc.TraceID)
	assert.NotEmpty(t, tc.RequestID)
	assert.Len(t, tc.SpanID, 16)

	ctx := WithTrace(context.Background(), tc)
	assert.Same(t, tc, GetTrace(ctx))
	assert.Equal(t, tc.RequestID, GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestOperation(t *testing.T) {
	assert.Empty(t, GetOperation(context.Background()))
	assert.Equal(t, "add_report", GetOperation(WithOperation(context.Background(), "add_report")))
}
