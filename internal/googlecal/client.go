package googlecal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/elie222/inbox-zero-sub003/internal/availability"
	"github.com/elie222/inbox-zero-sub003/internal/connections"
	"github.com/elie222/inbox-zero-sub003/internal/google"
	"github.com/elie222/inbox-zero-sub003/internal/logging"
)

// Config configures the Google Calendar provider.
type Config struct {
	// OAuth defaults to google.GetOAuthConfig()
	OAuth *oauth2.Config

	// OnTokenUpdate is invoked when a request's token is refreshed, so
	// the host can persist the new token. Optional.
	OnTokenUpdate availability.TokenUpdateFunc

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// Endpoint overrides the Calendar API base URL, for tests
	Endpoint string
}

// Client is the Google Calendar availability provider. It is stateless:
// credentials arrive with each fetch request, so one Client serves all of a
// user's Google connections.
type Client struct {
	oauth         *oauth2.Config
	onTokenUpdate availability.TokenUpdateFunc
	logger        *slog.Logger
	endpoint      string
}

var _ availability.Provider = (*Client)(nil)

// New creates a Google Calendar provider.
func New(cfg Config) *Client {
	if cfg.OAuth == nil {
		cfg.OAuth = google.GetOAuthConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		oauth:         cfg.OAuth,
		onTokenUpdate: cfg.OnTokenUpdate,
		logger:        logging.WithProvider(cfg.Logger, connections.ProviderGoogle),
		endpoint:      cfg.Endpoint,
	}
}

// Name returns the provider tag.
func (c *Client) Name() string {
	return connections.ProviderGoogle
}

// FetchBusyPeriods issues one batched free/busy query covering all
// requested calendars and flattens the per-calendar busy arrays into a
// single UTC list.
func (c *Client) FetchBusyPeriods(ctx context.Context, req availability.FetchRequest) ([]availability.BusyPeriod, error) {
	svc, err := c.newService(ctx, req)
	if err != nil {
		return nil, err
	}

	items := make([]*calendar.FreeBusyRequestItem, len(req.CalendarIDs))
	for i, id := range req.CalendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: req.TimeMin.Format(time.RFC3339),
		TimeMax: req.TimeMax.Format(time.RFC3339),
		Items:   items,
	}

	result, err := svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	var periods []availability.BusyPeriod
	for calID, cal := range result.Calendars {
		for _, reason := range cal.Errors {
			c.logger.Warn("freebusy reported calendar error",
				logging.Connection(req.ConnectionID),
				logging.Calendar(calID),
				slog.String("reason", reason.Reason))
		}

		for _, busy := range cal.Busy {
			period, ok := c.toBusyPeriod(busy, req.ConnectionID, calID)
			if !ok {
				continue
			}
			periods = append(periods, period)
		}
	}

	return periods, nil
}

// newService builds a Calendar service authenticated with the request's
// credentials. Refreshed tokens are reported through the token update
// callback.
func (c *Client) newService(ctx context.Context, req availability.FetchRequest) (*calendar.Service, error) {
	tok := req.Credentials.Token()
	ts := availability.WatchedTokenSource(c.oauth.TokenSource(ctx, tok), tok, func(refreshed *oauth2.Token) {
		if c.onTokenUpdate == nil {
			return
		}
		if err := c.onTokenUpdate(ctx, req.ConnectionID, refreshed); err != nil {
			c.logger.Warn("failed to persist refreshed token",
				logging.Connection(req.ConnectionID),
				logging.Err(err))
		}
	})

	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// toBusyPeriod parses one free/busy entry. Entries missing a start or end
// are malformed and dropped.
func (c *Client) toBusyPeriod(busy *calendar.TimePeriod, connectionID, calendarID string) (availability.BusyPeriod, bool) {
	if busy.Start == "" || busy.End == "" {
		c.logger.Debug("dropping busy entry missing start or end",
			logging.Connection(connectionID),
			logging.Calendar(calendarID))
		return availability.BusyPeriod{}, false
	}

	start, err := time.Parse(time.RFC3339, busy.Start)
	if err != nil {
		c.logger.Debug("dropping busy entry with unparsable start",
			logging.Connection(connectionID),
			logging.Calendar(calendarID),
			logging.Err(err))
		return availability.BusyPeriod{}, false
	}
	end, err := time.Parse(time.RFC3339, busy.End)
	if err != nil {
		c.logger.Debug("dropping busy entry with unparsable end",
			logging.Connection(connectionID),
			logging.Calendar(calendarID),
			logging.Err(err))
		return availability.BusyPeriod{}, false
	}

	return availability.BusyPeriod{Start: start.UTC(), End: end.UTC()}, true
}
