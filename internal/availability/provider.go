package availability

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrUnsupportedProvider is returned when a connection carries a provider
// tag no adapter is registered for.
var ErrUnsupportedProvider = errors.New("unsupported calendar provider")

// Provider is a calendar backend capable of reporting busy periods.
// Implementations must return periods in UTC and must drop events missing a
// start or end instead of failing the whole fetch.
type Provider interface {
	// Name returns the provider tag, e.g. "google" or "microsoft"
	Name() string

	// FetchBusyPeriods returns the busy periods for the requested
	// calendars within [TimeMin, TimeMax], in UTC.
	FetchBusyPeriods(ctx context.Context, req FetchRequest) ([]BusyPeriod, error)
}

// TokenUpdateFunc is invoked when a provider adapter refreshes an OAuth
// token mid-request, so the host application can persist the new token.
// It is an explicit capability supplied at adapter construction; adapters
// never write tokens back themselves.
type TokenUpdateFunc func(ctx context.Context, connectionID string, token *oauth2.Token) error

// WatchedTokenSource wraps base and calls onUpdate whenever the source
// yields a token whose access token differs from the previously observed
// one. The initial token is taken from initial and does not trigger a
// callback.
func WatchedTokenSource(base oauth2.TokenSource, initial *oauth2.Token, onUpdate func(*oauth2.Token)) oauth2.TokenSource {
	ws := &watchedTokenSource{base: base, onUpdate: onUpdate}
	if initial != nil {
		ws.lastAccess = initial.AccessToken
	}
	return ws
}

type watchedTokenSource struct {
	base     oauth2.TokenSource
	onUpdate func(*oauth2.Token)

	mu         sync.Mutex
	lastAccess string
}

func (s *watchedTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := tok.AccessToken != s.lastAccess
	if changed {
		s.lastAccess = tok.AccessToken
	}
	s.mu.Unlock()

	if changed && s.onUpdate != nil {
		s.onUpdate(tok)
	}
	return tok, nil
}
