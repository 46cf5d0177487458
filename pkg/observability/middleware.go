package observability

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const attrResponseBodySize = "http.response.body.size"

// responseRecorder remembers the first status code and counts body bytes.
type responseRecorder struct {
	http.ResponseWriter

	status int
	size   int64
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = cmp.Or(rr.status, code)
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(buf []byte) (int, error) {
	rr.status = cmp.Or(rr.status, http.StatusOK)

	n, err := rr.ResponseWriter.Write(buf)
	rr.size += int64(n)

	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

// HTTPMiddleware serves next inside a server span named "METHOD /path" and
// logs every request at debug level. Incoming W3C trace headers become the
// span's parent; 5xx responses mark it failed.
func HTTPMiddleware(tracer trace.Tracer, logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		start := time.Now()
		parent := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		ctx, span := tracer.Start(parent, req.Method+" "+req.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		rec := &responseRecorder{ResponseWriter: rw}
		next.ServeHTTP(rec, req.WithContext(ctx))

		status := cmp.Or(rec.status, http.StatusOK)

		span.SetAttributes(
			semconv.HTTPRequestMethodKey.String(req.Method),
			semconv.HTTPRoute(req.URL.Path),
			semconv.HTTPResponseStatusCode(status),
			attribute.Int64(attrResponseBodySize, rec.size),
		)

		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		logger.DebugContext(ctx, "http request",
			"method", req.Method, "path", req.URL.Path, "status", status,
			"bytes", rec.size, "elapsed", time.Since(start))
	})
}
