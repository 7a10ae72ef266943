package instrumentation

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider encapsulates the OpenTelemetry meter provider and the domain
// metrics recorder.
type Provider struct {
	config        Config
	meterProvider *metric.MeterProvider
	metrics       *Metrics
	enabled       bool
}

// NewProvider creates a new instrumentation provider. When the config is
// disabled it returns a provider whose Metrics recorder is a no-op.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{config: config}, nil
	}

	resourceAttrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	}
	if hostname, err := os.Hostname(); err == nil {
		resourceAttrs = append(resourceAttrs, semconv.ServiceInstanceID(hostname))
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// The Prometheus exporter registers with the default registry, which
	// the metrics server exposes via promhttp.
	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(promExporter),
	)
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp.Meter(config.ServiceName))
	if err != nil {
		if shutdownErr := mp.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("%w (meter provider shutdown also failed: %v)", err, shutdownErr)
		}
		return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	return &Provider{
		config:        config,
		meterProvider: mp,
		metrics:       metrics,
		enabled:       true,
	}, nil
}

// Enabled reports whether instrumentation is active.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Metrics returns the domain metrics recorder. It is nil when the provider
// is disabled, which is a valid no-op recorder.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
