package connections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Provider tags for calendar backends.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// CalendarRef identifies one calendar within a connection
type CalendarRef struct {
	// CalendarID is the provider-side calendar identifier
	CalendarID string `json:"calendarId"`

	// Enabled indicates whether the user included this calendar in
	// availability calculations
	Enabled bool `json:"isEnabled"`
}

// CalendarConnection represents one linked (account, provider) pair
type CalendarConnection struct {
	// ID identifies the connection within the host application
	ID string `json:"id"`

	// Provider is the backend tag: "google" or "microsoft"
	Provider string `json:"provider"`

	// AccessToken is the current OAuth access token
	AccessToken string `json:"accessToken"`

	// RefreshToken is the OAuth refresh token, if one was granted
	RefreshToken string `json:"refreshToken,omitempty"`

	// TokenExpiry is when the access token expires
	TokenExpiry time.Time `json:"tokenExpiry"`

	// Connected indicates whether the connection is currently usable
	Connected bool `json:"isConnected"`

	// Calendars is the ordered set of calendars under this connection
	Calendars []CalendarRef `json:"calendars"`
}

// EnabledCalendarIDs returns the IDs of all calendars toggled on for this
// connection, preserving order.
func (c *CalendarConnection) EnabledCalendarIDs() []string {
	var ids []string
	for _, ref := range c.Calendars {
		if ref.Enabled {
			ids = append(ids, ref.CalendarID)
		}
	}
	return ids
}

// Store provides read access to a user's calendar connections
type Store interface {
	// ConnectionsForAccount returns all connected CalendarConnections for
	// the given account. Accounts with no connections return an empty
	// slice, not an error.
	ConnectionsForAccount(ctx context.Context, accountID string) ([]CalendarConnection, error)
}

// FileStore reads connections from a JSON file mapping account IDs to
// connection lists. It reloads the file on every call so edits are picked up
// without restarting.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed connection store reading from path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ConnectionsForAccount implements Store.
func (s *FileStore) ConnectionsForAccount(_ context.Context, accountID string) ([]CalendarConnection, error) {
	slurp, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections file: %w", err)
	}

	var byAccount map[string][]CalendarConnection
	if err := json.Unmarshal(slurp, &byAccount); err != nil {
		return nil, fmt.Errorf("failed to parse connections file: %w", err)
	}

	conns := byAccount[accountID]
	connected := make([]CalendarConnection, 0, len(conns))
	for _, conn := range conns {
		if conn.Connected {
			connected = append(connected, conn)
		}
	}

	return connected, nil
}
