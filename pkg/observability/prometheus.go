package observability

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusExporter bridges OTel instruments to a private Prometheus
// registry.
type PrometheusExporter struct {
	// MeterProvider feeds the registry.
	MeterProvider metric.MeterProvider

	// Handler serves the registry in the scrape format.
	Handler http.Handler

	registry *prometheus.Registry
}

// NewPrometheusExporter creates an exporter with its own registry, so
// repeated calls do not collide.
func NewPrometheusExporter() (*PrometheusExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &PrometheusExporter{
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		registry:      registry,
	}, nil
}

// PrometheusHandler returns a /metrics scrape handler and the MeterProvider
// feeding it.
func PrometheusHandler() (http.Handler, metric.MeterProvider, error) {
	exp, err := NewPrometheusExporter()
	if err != nil {
		return nil, nil, err
	}

	return exp.Handler, exp.MeterProvider, nil
}

// WriteText writes the current metrics in the Prometheus text format.
func (e *PrometheusExporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, family := range families {
		err = enc.Encode(family)
		if err != nil {
			return fmt.Errorf("encode %s: %w", family.GetName(), err)
		}
	}

	return nil
}
