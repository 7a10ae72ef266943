package outlook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/elie222/inbox-zero-sub003/internal/availability"
	"github.com/elie222/inbox-zero-sub003/internal/connections"
	"github.com/elie222/inbox-zero-sub003/internal/logging"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"

	// calendarViewPageSize is the $top value per page. Graph caps pages
	// anyway; pagination handles the rest.
	calendarViewPageSize = 100
)

// Config configures the Microsoft 365 provider.
type Config struct {
	// OAuth defaults to GetOAuthConfig()
	OAuth *oauth2.Config

	// OnTokenUpdate is invoked when a request's token is refreshed, so
	// the host can persist the new token. Optional.
	OnTokenUpdate availability.TokenUpdateFunc

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// BaseURL overrides the Graph API base URL, for tests
	BaseURL string
}

// Client is the Microsoft 365 availability provider. It is stateless:
// credentials arrive with each fetch request, so one Client serves all of a
// user's Microsoft connections.
type Client struct {
	oauth         *oauth2.Config
	onTokenUpdate availability.TokenUpdateFunc
	logger        *slog.Logger
	baseURL       string
}

var _ availability.Provider = (*Client)(nil)

// New creates a Microsoft 365 provider.
func New(cfg Config) *Client {
	if cfg.OAuth == nil {
		cfg.OAuth = GetOAuthConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = graphBaseURL
	}
	return &Client{
		oauth:         cfg.OAuth,
		onTokenUpdate: cfg.OnTokenUpdate,
		logger:        logging.WithProvider(cfg.Logger, connections.ProviderMicrosoft),
		baseURL:       cfg.BaseURL,
	}
}

// Name returns the provider tag.
func (c *Client) Name() string {
	return connections.ProviderMicrosoft
}

// FetchBusyPeriods queries the calendarView of each requested calendar and
// returns the busy periods in UTC. A calendar that fails is logged and
// skipped so the connection's remaining calendars still contribute.
func (c *Client) FetchBusyPeriods(ctx context.Context, req availability.FetchRequest) ([]availability.BusyPeriod, error) {
	httpClient := c.newHTTPClient(ctx, req)

	var periods []availability.BusyPeriod
	for _, calID := range req.CalendarIDs {
		calPeriods, err := c.fetchCalendar(ctx, httpClient, calID, req)
		if err != nil {
			c.logger.Warn("failed to fetch calendar view, skipping calendar",
				logging.Connection(req.ConnectionID),
				logging.Calendar(calID),
				logging.Err(err))
			continue
		}
		periods = append(periods, calPeriods...)
	}

	return periods, nil
}

// newHTTPClient builds an HTTP client whose transport injects and refreshes
// the request's OAuth token. Refreshed tokens are reported through the token
// update callback.
func (c *Client) newHTTPClient(ctx context.Context, req availability.FetchRequest) *http.Client {
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
	return oauth2.NewClient(ctx, ts)
}

// graphEvent is the subset of a Graph event used for availability.
type graphEvent struct {
	Start  graphDateTime `json:"start"`
	End    graphDateTime `json:"end"`
	ShowAs string        `json:"showAs"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type calendarViewPage struct {
	Value    []graphEvent `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

// fetchCalendar pages through one calendar's calendarView and converts its
// events to busy periods.
func (c *Client) fetchCalendar(ctx context.Context, httpClient *http.Client, calendarID string, req availability.FetchRequest) ([]availability.BusyPeriod, error) {
	params := url.Values{}
	params.Set("startDateTime", req.TimeMin.UTC().Format(time.RFC3339))
	params.Set("endDateTime", req.TimeMax.UTC().Format(time.RFC3339))
	params.Set("$select", "start,end,showAs")
	params.Set("$top", fmt.Sprintf("%d", calendarViewPageSize))

	endpoint := fmt.Sprintf("%s/me/calendars/%s/calendarView?%s", c.baseURL, url.PathEscape(calendarID), params.Encode())

	var periods []availability.BusyPeriod
	for endpoint != "" {
		page, err := c.fetchPage(ctx, httpClient, endpoint)
		if err != nil {
			return nil, err
		}

		for _, ev := range page.Value {
			period, ok := c.toBusyPeriod(ev, req.ConnectionID, calendarID)
			if !ok {
				continue
			}
			periods = append(periods, period)
		}

		endpoint = page.NextLink
	}

	return periods, nil
}

func (c *Client) fetchPage(ctx context.Context, httpClient *http.Client, endpoint string) (*calendarViewPage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Have Graph render event times in UTC. The rendered datetimes still
	// lack a Z suffix; see normalizeGraphTime.
	httpReq.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar view: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("calendar view request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page calendarViewPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &page, nil
}

// toBusyPeriod converts one Graph event. Free events do not block
// availability; events missing a start or end are malformed and dropped.
func (c *Client) toBusyPeriod(ev graphEvent, connectionID, calendarID string) (availability.BusyPeriod, bool) {
	if ev.ShowAs == "free" {
		return availability.BusyPeriod{}, false
	}
	if ev.Start.DateTime == "" || ev.End.DateTime == "" {
		c.logger.Debug("dropping event missing start or end",
			logging.Connection(connectionID),
			logging.Calendar(calendarID))
		return availability.BusyPeriod{}, false
	}

	start, err := time.Parse(time.RFC3339Nano, normalizeGraphTime(ev.Start.DateTime))
	if err != nil {
		c.logger.Debug("dropping event with unparsable start",
			logging.Connection(connectionID),
			logging.Calendar(calendarID),
			logging.Err(err))
		return availability.BusyPeriod{}, false
	}
	end, err := time.Parse(time.RFC3339Nano, normalizeGraphTime(ev.End.DateTime))
	if err != nil {
		c.logger.Debug("dropping event with unparsable end",
			logging.Connection(connectionID),
			logging.Calendar(calendarID),
			logging.Err(err))
		return availability.BusyPeriod{}, false
	}

	return availability.BusyPeriod{Start: start.UTC(), End: end.UTC()}, true
}

// normalizeGraphTime appends a Z suffix to Graph datetimes that carry no
// zone designator. Graph renders UTC times as e.g.
// "2025-11-17T18:00:00.0000000" even under the UTC timezone preference.
// Datetimes that already end in Z or an explicit offset pass through
// unchanged.
func normalizeGraphTime(s string) string {
	if strings.HasSuffix(s, "Z") || hasZoneOffset(s) {
		return s
	}
	return s + "Z"
}

// hasZoneOffset reports whether s ends with a +hh:mm or -hh:mm designator.
// The date portion also contains dashes, so only the tail after the time
// separator is inspected.
func hasZoneOffset(s string) bool {
	idx := strings.IndexByte(s, 'T')
	if idx < 0 {
		return false
	}
	tail := s[idx:]
	return strings.ContainsAny(tail, "+") || strings.LastIndexByte(tail, '-') > 0
}
