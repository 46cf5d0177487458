package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// Metric names.
const (
	MetricOpsTotal        = "binarytree.ops.total"
	MetricOpDuration      = "binarytree.op.duration.seconds"
	MetricRotationsTotal  = "binarytree.rotations.total"
	MetricRebalancesTotal = "binarytree.rebalances.total"
	MetricNodes           = "binarytree.nodes"
)

// Operation status values.
const (
	StatusOK    = "ok"
	StatusMiss  = "miss"
	StatusError = "error"
)

const (
	attrOp     = "op"
	attrStatus = "status"
)

// opBucketBoundaries covers single operations (microseconds) up to whole
// bulk builds.
var opBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.01, 0.1, 1, 10,
}

// TreeMetrics holds the OTel instruments describing tree workloads.
type TreeMetrics struct {
	opsTotal   metric.Int64Counter
	opDuration metric.Float64Histogram
	rotations  metric.Int64Counter
	rebalances metric.Int64Counter
	nodes      metric.Int64UpDownCounter
}

// NewTreeMetrics creates the instruments from mt.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	b := newMetricBuilder(mt)

	tm := &TreeMetrics{
		opsTotal:   b.counter(MetricOpsTotal, "Tree operations by kind and outcome", "{operation}"),
		opDuration: b.histogram(MetricOpDuration, "Tree operation duration in seconds", "s", opBucketBoundaries...),
		rotations:  b.counter(MetricRotationsTotal, "Single rotations performed", "{rotation}"),
		rebalances: b.counter(MetricRebalancesTotal, "Rebalancing steps performed", "{rebalance}"),
		nodes:      b.upDownCounter(MetricNodes, "Items currently stored", "{node}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return tm, nil
}

// RecordOp records one completed operation. Safe on a nil receiver.
func (tm *TreeMetrics) RecordOp(ctx context.Context, op, status string, duration time.Duration) {
	if tm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	tm.opsTotal.Add(ctx, 1, attrs)
	tm.opDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordStats adds the structural work done between two snapshots of a
// tree's statistics. Safe on a nil receiver.
func (tm *TreeMetrics) RecordStats(ctx context.Context, before, after avl.Stats) {
	if tm == nil {
		return
	}

	delta := after.Sub(before)

	tm.rotations.Add(ctx, delta.Rotations)
	tm.rebalances.Add(ctx, delta.Rebalances)
	tm.nodes.Add(ctx, delta.Inserts-delta.Removes)
}

// metricBuilder accumulates instrument creation errors so a batch of
// instruments needs a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
