package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// allowedPrefixes are the span attribute key prefixes that reach the exporter.
var allowedPrefixes = []string{
	"binarytree.",
	"script.",
	"error.",
	"http.",
}

// blockedKeys may carry user data and are always stripped, even when a
// prefix would allow them.
var blockedKeys = map[string]bool{
	"script.source": true,
	"http.body":     true,
}

// attributeFilter is a SpanProcessor that forwards spans with unknown or
// blocked attributes removed.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate with the allow-list filter. When logger
// is non-nil, every dropped key is logged as a warning.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd forwards a filtered view; ReadOnlySpan attributes cannot be mutated.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	err := f.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	err := f.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) allowed(key string) bool {
	if key == "error" {
		return true
	}

	if !blockedKeys[key] {
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(key, prefix) {
				return true
			}
		}
	}

	if f.logger != nil {
		f.logger.Warn("span attribute dropped", "key", key)
	}

	return false
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

// Attributes returns the allowed attributes only.
func (s *filteredSpan) Attributes() []attribute.KeyValue {
	orig := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if s.filter.allowed(string(kv.Key)) {
			kept = append(kept, kv)
		}
	}

	return kept
}
