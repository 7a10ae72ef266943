// Package googlecal provides the Google Calendar availability provider.
//
// The client issues a single batched free/busy query across all requested
// calendar IDs per connection, which is cheaper and simpler than querying
// events calendar by calendar. Busy periods are returned as UTC instants.
//
// An API-level failure of the free/busy call fails the whole fetch for the
// connection; the availability aggregator is responsible for degrading that
// failure to an empty contribution. Per-calendar errors reported inside a
// successful response are logged and skipped.
package googlecal
