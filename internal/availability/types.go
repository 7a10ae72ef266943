package availability

import (
	"time"

	"golang.org/x/oauth2"
)

// Defaults applied by Request.withDefaults.
const (
	// DefaultSlotDurationMinutes is the slot size used when a request does
	// not specify one.
	DefaultSlotDurationMinutes = 30

	// DefaultWorkDayStartHour and DefaultWorkDayEndHour bound the default
	// working-hours window for slot generation.
	DefaultWorkDayStartHour = 9
	DefaultWorkDayEndHour   = 17
)

// BusyPeriod is an absolute time interval during which a calendar reports
// the owner as occupied. Timestamps produced by provider adapters are UTC;
// the aggregator re-renders them in the requested timezone without altering
// the underlying instant.
type BusyPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TimeSlot is a half-open interval [Start, End) tagged against a set of
// merged busy periods.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// WorkHours bounds slot generation to a wall-clock window within a day.
// StartHour is inclusive, EndHour exclusive, both in 24-hour format.
// EndHour may be 24 to cover the whole day.
type WorkHours struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// Request describes one availability query.
type Request struct {
	// AccountID identifies the user whose connections are aggregated
	AccountID string

	// StartDate and EndDate are calendar dates in "YYYY-MM-DD" form,
	// interpreted in Timezone (not as UTC instants)
	StartDate string
	EndDate   string

	// Timezone is an IANA identifier such as "America/Los_Angeles"
	Timezone string

	// SlotDurationMinutes is the slot size; zero means the default of 30
	SlotDurationMinutes int

	// WorkHours bounds slot generation; a zero value means 9 to 17
	WorkHours WorkHours
}

// withDefaults returns a copy of the request with zero values replaced by
// package defaults.
func (r Request) withDefaults() Request {
	if r.SlotDurationMinutes <= 0 {
		r.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	if r.WorkHours == (WorkHours{}) {
		r.WorkHours = WorkHours{
			StartHour: DefaultWorkDayStartHour,
			EndHour:   DefaultWorkDayEndHour,
		}
	}
	return r
}

// BusyResult is the merged busy-period list for a request, rendered in the
// requested timezone, plus degradation details from the best-effort fan-out.
type BusyResult struct {
	// Periods is sorted ascending, pairwise disjoint, and non-adjacent
	Periods []BusyPeriod `json:"busyPeriods"`

	// PartialFailure is true when at least one connection failed and its
	// busy time is missing from Periods
	PartialFailure bool `json:"partialFailure"`

	// FailedConnections lists the connection IDs that failed
	FailedConnections []string `json:"failedConnections,omitempty"`
}

// DayAvailability is the availability picture for one calendar day.
type DayAvailability struct {
	// Date is the calendar date in "YYYY-MM-DD" form
	Date string `json:"date"`

	// BusyPeriods are the merged periods overlapping this day, rendered
	// in the requested timezone
	BusyPeriods []BusyPeriod `json:"busyPeriods"`

	// TimeSlots discretize the working-hours window of this day
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// Credentials are the OAuth credentials of one calendar connection.
// They are read-only inputs; refreshed tokens are reported through the
// TokenUpdateFunc capability rather than written back here.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Token converts the credentials to an oauth2 token.
func (c Credentials) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
		TokenType:    "Bearer",
	}
}

// FetchRequest is the uniform input to provider adapters.
type FetchRequest struct {
	// ConnectionID identifies the connection, for logging and token
	// update callbacks
	ConnectionID string

	// Credentials authenticate against the provider
	Credentials Credentials

	// CalendarIDs are the enabled calendars to query
	CalendarIDs []string

	// TimeMin and TimeMax bound the query window
	TimeMin time.Time
	TimeMax time.Time
}
