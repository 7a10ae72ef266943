package availability

import "time"

// GenerateSlots discretizes one calendar day into fixed-size slots and tags
// each one against the given merged busy periods.
//
// day names the target date; its wall-clock location determines where hour
// boundaries fall. The walk starts at startHour:00 and emits one slot per
// step while the slot start is before endHour:00, so the final slot may
// extend past the nominal day end when the window is not an exact multiple
// of the step.
//
// A slot is unavailable iff it overlaps any busy period under the strict
// half-open test: slotStart < busyEnd && slotEnd > busyStart. A slot whose
// boundary exactly touches a busy period remains available.
func GenerateSlots(day time.Time, busy []BusyPeriod, startHour, endHour, slotMinutes int) []TimeSlot {
	if slotMinutes <= 0 || endHour <= startHour {
		return []TimeSlot{}
	}

	loc := day.Location()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, loc)
	step := time.Duration(slotMinutes) * time.Minute

	var slots []TimeSlot
	for cur := dayStart; cur.Before(dayEnd); cur = cur.Add(step) {
		slotEnd := cur.Add(step)
		slots = append(slots, TimeSlot{
			Start:     cur,
			End:       slotEnd,
			Available: !overlapsAny(cur, slotEnd, busy),
		})
	}
	return slots
}

// overlapsAny reports whether the half-open slot [start, end) intersects
// any busy period.
func overlapsAny(start, end time.Time, busy []BusyPeriod) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}
