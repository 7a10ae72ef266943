package google

import (
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// Scopes requested for calendar availability queries. Free/busy data is
// readable with the readonly scope; no write scope is ever requested.
var Scopes = []string{
	calendar.CalendarReadonlyScope,
}

// GetOAuthConfig returns the OAuth2 configuration for Google Calendar
// access. Client credentials come from the environment so deployments never
// bake secrets into the binary.
func GetOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}
}
