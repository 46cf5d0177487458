package observability_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/binarytree/pkg/observability"
)

// TestPrometheusHandler verifies recorded tree metrics appear in the scrape output.
func TestPrometheusHandler(t *testing.T) {
	t.Parallel()

	handler, mp, err := observability.PrometheusHandler()
	require.NoError(t, err)

	tm, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tm.RecordOp(context.Background(), "insert", observability.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "binarytree_ops")
	assert.Contains(t, string(body), `op="insert"`)
}

// TestPrometheusHandler_Independent verifies each call gets its own registry.
func TestPrometheusHandler_Independent(t *testing.T) {
	t.Parallel()

	_, first, err := observability.PrometheusHandler()
	require.NoError(t, err)

	_, second, err := observability.PrometheusHandler()
	require.NoError(t, err)

	_, err = observability.NewTreeMetrics(first.Meter("test"))
	require.NoError(t, err)

	_, err = observability.NewTreeMetrics(second.Meter("test"))
	require.NoError(t, err)
}

// TestPrometheusExporter_WriteText verifies the text dump of recorded metrics.
func TestPrometheusExporter_WriteText(t *testing.T) {
	t.Parallel()

	exp, err := observability.NewPrometheusExporter()
	require.NoError(t, err)

	tm, err := observability.NewTreeMetrics(exp.MeterProvider.Meter("test"))
	require.NoError(t, err)

	tm.RecordOp(context.Background(), "remove", observability.StatusMiss, time.Millisecond)

	var buf bytes.Buffer

	require.NoError(t, exp.WriteText(&buf))
	assert.Contains(t, buf.String(), "# TYPE binarytree_ops")
	assert.Contains(t, buf.String(), `status="miss"`)
}
