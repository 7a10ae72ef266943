// Package connections models a user's calendar provider connections.
//
// A CalendarConnection represents one linked (account, provider) pair with its
// OAuth credentials and the set of calendars the user has toggled on. The
// availability engine only reads connections; creating and mutating them is
// the host application's concern.
//
// The Store interface abstracts where connections live. FileStore is a
// JSON-file implementation useful for the CLI and for tests; server
// deployments are expected to supply their own Store backed by the
// application database.
package connections
