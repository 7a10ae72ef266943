// Package google provides the OAuth2 configuration shared by Google API
// clients.
//
// Token acquisition and storage are the host application's concern; this
// package only builds the oauth2.Config used to mint refreshable token
// sources from stored connection credentials. Client credentials are read
// from the environment:
//
//	GOOGLE_CLIENT_ID
//	GOOGLE_CLIENT_SECRET
package google
