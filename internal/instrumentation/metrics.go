package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrProvider = "provider"
	attrStatus   = "status"
)

// Metrics provides methods for recording availability-engine metrics.
// The zero value and a nil pointer are valid no-op recorders.
type Metrics struct {
	providerFetchesTotal  metric.Int64Counter
	providerFetchDuration metric.Float64Histogram
	busyPeriodsFetched    metric.Int64Counter
	aggregationsTotal     metric.Int64Counter
	aggregationDuration   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.providerFetchesTotal, err = meter.Int64Counter(
		"calendar_provider_fetches_total",
		metric.WithDescription("Total number of busy-period fetches per calendar provider"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_provider_fetches_total counter: %w", err)
	}

	m.providerFetchDuration, err = meter.Float64Histogram(
		"calendar_provider_fetch_duration_seconds",
		metric.WithDescription("Busy-period fetch duration per calendar provider in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_provider_fetch_duration_seconds histogram: %w", err)
	}

	m.busyPeriodsFetched, err = meter.Int64Counter(
		"calendar_busy_periods_fetched_total",
		metric.WithDescription("Total number of raw busy periods returned by providers"),
		metric.WithUnit("{period}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_busy_periods_fetched_total counter: %w", err)
	}

	m.aggregationsTotal, err = meter.Int64Counter(
		"availability_aggregations_total",
		metric.WithDescription("Total number of availability aggregation requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_aggregations_total counter: %w", err)
	}

	m.aggregationDuration, err = meter.Float64Histogram(
		"availability_aggregation_duration_seconds",
		metric.WithDescription("End-to-end availability aggregation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability_aggregation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordProviderFetch records one provider fetch attempt.
func (m *Metrics) RecordProviderFetch(ctx context.Context, provider, status string, duration time.Duration, periods int) {
	if m == nil || m.providerFetchesTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	)
	m.providerFetchesTotal.Add(ctx, 1, attrs)
	m.providerFetchDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(attrProvider, provider)))
	if periods > 0 {
		m.busyPeriodsFetched.Add(ctx, int64(periods),
			metric.WithAttributes(attribute.String(attrProvider, provider)))
	}
}

// RecordAggregation records one aggregation request outcome.
func (m *Metrics) RecordAggregation(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.aggregationsTotal == nil {
		return
	}

	m.aggregationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String(attrStatus, status)))
	m.aggregationDuration.Record(ctx, duration.Seconds())
}
