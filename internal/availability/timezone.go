package availability

import (
	"fmt"
	"time"
)

// dateLayout is the calendar-date form used in requests and results.
const dateLayout = "2006-01-02"

// loadLocation resolves an IANA timezone identifier. An unknown identifier
// is a caller-input problem and surfaces as an error.
func loadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// dayWindow resolves the absolute query window for a date range.
// The dates are interpreted as calendar dates in loc, so a user west of UTC
// asking for "2025-11-17" gets their own midnight, not the UTC one.
// The window spans from the start of startDate to the end of endDate.
func dayWindow(startDate, endDate string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	timeMin := start
	timeMax := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return timeMin, timeMax, nil
}

// datesBetween returns the start of each calendar day from timeMin through
// timeMax in timeMin's location.
func datesBetween(timeMin, timeMax time.Time) []time.Time {
	var days []time.Time
	day := time.Date(timeMin.Year(), timeMin.Month(), timeMin.Day(), 0, 0, 0, 0, timeMin.Location())
	for !day.After(timeMax) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// renderInZone re-expresses each period's timestamps in loc without
// altering the underlying instants.
func renderInZone(periods []BusyPeriod, loc *time.Location) []BusyPeriod {
	rendered := make([]BusyPeriod, len(periods))
	for i, p := range periods {
		rendered[i] = BusyPeriod{
			Start: p.Start.In(loc),
			End:   p.End.In(loc),
		}
	}
	return rendered
}
