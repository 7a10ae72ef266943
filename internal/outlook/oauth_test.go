package outlook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOAuthConfig(t *testing.T) {
	t.Setenv("MICROSOFT_CLIENT_ID", "client-id")
	t.Setenv("MICROSOFT_CLIENT_SECRET", "client-secret")

	conf := GetOAuthConfig()
	require.NotNil(t, conf)
	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, "client-secret", conf.ClientSecret)
	assert.NotEmpty(t, conf.Endpoint.TokenURL)
	assert.Contains(t, conf.Scopes, "https://graph.microsoft.com/Calendars.Read")
	assert.Contains(t, conf.Scopes, "offline_access")
}
