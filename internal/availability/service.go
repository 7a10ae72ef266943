package availability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elie222/inbox-zero-sub003/internal/connections"
	"github.com/elie222/inbox-zero-sub003/internal/instrumentation"
	"github.com/elie222/inbox-zero-sub003/internal/interval"
	"github.com/elie222/inbox-zero-sub003/internal/logging"
)

// DefaultFetchTimeout bounds each per-connection provider fetch so one slow
// provider cannot stall the whole request.
const DefaultFetchTimeout = 30 * time.Second

// Config configures a Service.
type Config struct {
	// Store provides the user's calendar connections (required)
	Store connections.Store

	// Google and Microsoft are the provider adapters. A nil adapter
	// degrades connections of that provider to failures instead of
	// aborting requests.
	Google    Provider
	Microsoft Provider

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// Metrics is optional; nil disables recording
	Metrics *instrumentation.Metrics

	// FetchTimeout is the per-connection fetch budget; zero means 30s
	FetchTimeout time.Duration
}

// Service aggregates busy periods across all of a user's connected
// calendars and derives per-day availability from them.
type Service struct {
	store        connections.Store
	google       Provider
	microsoft    Provider
	logger       *slog.Logger
	metrics      *instrumentation.Metrics
	fetchTimeout time.Duration
}

// NewService creates a Service from the given configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("connection store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	return &Service{
		store:        cfg.Store,
		google:       cfg.Google,
		microsoft:    cfg.Microsoft,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		fetchTimeout: cfg.FetchTimeout,
	}, nil
}

// providerFor dispatches on the connection's provider tag. The switch is
// exhaustive over the supported backends; adding one means adding a case.
func (s *Service) providerFor(tag string) (Provider, error) {
	switch tag {
	case connections.ProviderGoogle:
		if s.google == nil {
			return nil, fmt.Errorf("%w: %s adapter not configured", ErrUnsupportedProvider, tag)
		}
		return s.google, nil
	case connections.ProviderMicrosoft:
		if s.microsoft == nil {
			return nil, fmt.Errorf("%w: %s adapter not configured", ErrUnsupportedProvider, tag)
		}
		return s.microsoft, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, tag)
	}
}

// FetchBusyPeriods aggregates busy periods for the requested date range
// across every connected calendar with at least one enabled calendar.
//
// Provider-side faults degrade to an empty contribution from that
// connection and are reported through the result's PartialFailure flag;
// only caller-input problems (unknown timezone, malformed dates) and
// connection-store failures return an error. Zero connections yield an
// empty result and a nil error.
func (s *Service) FetchBusyPeriods(ctx context.Context, req Request) (*BusyResult, error) {
	started := time.Now()
	req = req.withDefaults()

	loc, err := loadLocation(req.Timezone)
	if err != nil {
		s.metrics.RecordAggregation(ctx, "error", time.Since(started))
		return nil, err
	}
	timeMin, timeMax, err := dayWindow(req.StartDate, req.EndDate, loc)
	if err != nil {
		s.metrics.RecordAggregation(ctx, "error", time.Since(started))
		return nil, err
	}

	conns, err := s.store.ConnectionsForAccount(ctx, req.AccountID)
	if err != nil {
		s.metrics.RecordAggregation(ctx, "error", time.Since(started))
		return nil, fmt.Errorf("failed to load calendar connections: %w", err)
	}

	logger := logging.WithOperation(s.logger, "availability.fetch").With(logging.Account(req.AccountID))

	var tasks []fetchTask
	var failures []fetchFailure
	for _, conn := range conns {
		calendarIDs := conn.EnabledCalendarIDs()
		if len(calendarIDs) == 0 {
			continue
		}

		provider, err := s.providerFor(conn.Provider)
		if err != nil {
			logger.Warn("skipping connection", logging.Connection(conn.ID), logging.Err(err))
			failures = append(failures, fetchFailure{connectionID: conn.ID, err: err})
			continue
		}

		fetchReq := FetchRequest{
			ConnectionID: conn.ID,
			Credentials: Credentials{
				AccessToken:  conn.AccessToken,
				RefreshToken: conn.RefreshToken,
				Expiry:       conn.TokenExpiry,
			},
			CalendarIDs: calendarIDs,
			TimeMin:     timeMin,
			TimeMax:     timeMax,
		}
		tasks = append(tasks, s.newFetchTask(provider, fetchReq))
	}

	successes, taskFailures := runAll(ctx, s.fetchTimeout, tasks)
	failures = append(failures, taskFailures...)

	var raw []interval.Period
	for _, periods := range successes {
		for _, p := range periods {
			raw = append(raw, interval.Period{Start: p.Start, End: p.End})
		}
	}

	merged := interval.Merge(raw)
	periods := make([]BusyPeriod, len(merged))
	for i, p := range merged {
		periods[i] = BusyPeriod{Start: p.Start, End: p.End}
	}

	result := &BusyResult{
		Periods:        renderInZone(periods, loc),
		PartialFailure: len(failures) > 0,
	}
	for _, f := range failures {
		logger.Warn("connection degraded to empty busy list",
			logging.Connection(f.connectionID), logging.Err(f.err))
		result.FailedConnections = append(result.FailedConnections, f.connectionID)
	}

	s.metrics.RecordAggregation(ctx, "success", time.Since(started))
	logger.Info("aggregated busy periods",
		slog.Int("connections", len(conns)),
		slog.Int("failed", len(failures)),
		slog.Int("periods", len(result.Periods)),
		logging.Duration(time.Since(started)))
	return result, nil
}

// newFetchTask wraps one provider fetch with logging and metrics.
func (s *Service) newFetchTask(provider Provider, req FetchRequest) fetchTask {
	return fetchTask{
		connectionID: req.ConnectionID,
		run: func(ctx context.Context) ([]BusyPeriod, error) {
			started := time.Now()
			periods, err := provider.FetchBusyPeriods(ctx, req)
			if err != nil {
				s.metrics.RecordProviderFetch(ctx, provider.Name(), "error", time.Since(started), 0)
				return nil, fmt.Errorf("failed to fetch busy periods from %s: %w", provider.Name(), err)
			}
			s.metrics.RecordProviderFetch(ctx, provider.Name(), "success", time.Since(started), len(periods))
			return periods, nil
		},
	}
}

// Availability composes FetchBusyPeriods with per-day slot generation,
// producing one DayAvailability per calendar date in the requested range.
func (s *Service) Availability(ctx context.Context, req Request) ([]DayAvailability, error) {
	req = req.withDefaults()

	busy, err := s.FetchBusyPeriods(ctx, req)
	if err != nil {
		return nil, err
	}

	// The window resolved here matches the one FetchBusyPeriods used:
	// both derive from the same request fields.
	loc, err := loadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}
	timeMin, timeMax, err := dayWindow(req.StartDate, req.EndDate, loc)
	if err != nil {
		return nil, err
	}

	var days []DayAvailability
	for _, day := range datesBetween(timeMin, timeMax) {
		nextDay := day.AddDate(0, 0, 1)

		dayBusy := make([]BusyPeriod, 0)
		for _, p := range busy.Periods {
			if p.Start.Before(nextDay) && p.End.After(day) {
				dayBusy = append(dayBusy, p)
			}
		}

		slots := GenerateSlots(day, dayBusy,
			req.WorkHours.StartHour, req.WorkHours.EndHour, req.SlotDurationMinutes)

		days = append(days, DayAvailability{
			Date:        day.Format(dateLayout),
			BusyPeriods: dayBusy,
			TimeSlots:   slots,
		})
	}

	return days, nil
}
