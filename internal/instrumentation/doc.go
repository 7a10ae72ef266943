// Package instrumentation provides OpenTelemetry metrics for the
// availability engine.
//
// The Provider wires an OTel meter provider to a Prometheus exporter so the
// engine's metrics can be scraped from the dedicated metrics endpoint (see
// the server package). Metrics is the domain-level recorder: provider fetch
// counts and durations, busy periods collected, and aggregation outcomes.
//
// A nil *Metrics is a valid no-op recorder, so callers never need to guard
// their recording calls:
//
//	var m *instrumentation.Metrics // disabled
//	m.RecordProviderFetch(ctx, "google", "success", elapsed, 3)
package instrumentation
