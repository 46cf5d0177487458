package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/binarytree/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, env string, mode observability.AppMode) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, "binarytree", env, mode))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

// TestTracingHandler_InjectsTraceContext verifies span identifiers are logged.
func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "test", observability.ModeLua)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "inserted")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record[observability.LogKeyTraceID])
	assert.Equal(t, "0102030405060708", record[observability.LogKeySpanID])
	assert.Equal(t, "binarytree", record[observability.LogKeyService])
	assert.Equal(t, "test", record[observability.LogKeyEnv])
	assert.Equal(t, "lua", record[observability.LogKeyMode])
}

// TestTracingHandler_NoSpan verifies records without a span carry service metadata only.
func TestTracingHandler_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	newJSONLogger(&buf, "", observability.ModeBench).InfoContext(context.Background(), "no span")

	record := decodeRecord(t, &buf)
	assert.NotContains(t, record, observability.LogKeyTraceID)
	assert.NotContains(t, record, observability.LogKeyEnv)
	assert.Equal(t, "bench", record[observability.LogKeyMode])
}

// TestTracingHandler_WithGroup verifies service metadata stays at the top level.
func TestTracingHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "", observability.ModeCLI).WithGroup("tree")
	logger.InfoContext(context.Background(), "built", slog.Int("items", 3))

	record := decodeRecord(t, &buf)
	assert.Equal(t, "binarytree", record[observability.LogKeyService])

	group, ok := record["tree"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 3, group["items"], 0)
}

// TestNewLogger verifies the text format and level from the config.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogLevel = slog.LevelWarn

	logger := observability.NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "op", "insert")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "op=insert")
	assert.Contains(t, buf.String(), "service=binarytree")
}
