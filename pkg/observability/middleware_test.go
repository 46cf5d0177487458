package observability_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/binarytree/pkg/observability"
)

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

// TestHTTPMiddleware verifies one server span and one debug log line per
// request, carrying the status and body size.
func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	logger := newJSONLogger(&logs, "", observability.ModeBench)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	handler := observability.HTTPMiddleware(tp.Tracer("test"), logger, http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/broken" {
			http.Error(rw, "broken", http.StatusInternalServerError)

			return
		}

		_, _ = rw.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /metrics", spans[0].Name())

	status, ok := attrValue(spans[0].Attributes(), "http.response.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	size, ok := attrValue(spans[0].Attributes(), "http.response.body.size")
	require.True(t, ok)
	assert.Equal(t, int64(len("ok")), size.AsInt64())

	route, ok := attrValue(spans[1].Attributes(), "http.route")
	require.True(t, ok)
	assert.Equal(t, "/broken", route.AsString())

	assert.Equal(t, codes.Error, spans[1].Status().Code)

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"path":"/metrics"`)
	assert.Contains(t, string(lines[1]), `"status":500`)
	assert.Contains(t, string(lines[1]), `"mode":"bench"`)
}
