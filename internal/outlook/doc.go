// Package outlook provides the Microsoft 365 calendar availability provider
// backed by the Microsoft Graph API.
//
// Busy periods are collected from the calendarView endpoint, one request
// chain per calendar ID, following @odata.nextLink pagination until
// exhausted. Requests carry the Prefer: outlook.timezone="UTC" header so
// Graph renders event times in UTC; Graph still omits the Z suffix from
// those datetimes, so the client normalizes them before parsing. Events with
// showAs "free" do not block availability and are skipped. A failure on one
// calendar is logged and skipped so the remaining calendars of the
// connection still contribute.
package outlook
