package outlook

import (
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Scopes requested for calendar availability queries. Calendars.Read covers
// the calendarView endpoint; offline_access is required for refresh tokens.
var Scopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

// GetOAuthConfig returns the OAuth2 configuration for Microsoft Graph
// access. Client credentials come from the environment so deployments never
// bake secrets into the binary.
func GetOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("MICROSOFT_CLIENT_ID"),
		ClientSecret: os.Getenv("MICROSOFT_CLIENT_SECRET"),
		Endpoint:     microsoft.AzureADEndpoint("common"),
		Scopes:       Scopes,
	}
}
