package availability

import (
	"fmt"
	"sort"
	"time"
)

// defaultMaxSuggestions caps SuggestSlots output when max is zero.
const defaultMaxSuggestions = 5

// Suggestion is a presentable meeting-time proposal derived from an
// available slot.
type Suggestion struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Display string    `json:"display"`
}

// SuggestSlots orders the available slots for presentation and formats
// them. Morning slots come before afternoon slots; within each group,
// earlier slots come first. max caps the result; zero means 5.
func SuggestSlots(slots []TimeSlot, max int) []Suggestion {
	if max <= 0 {
		max = defaultMaxSuggestions
	}

	var available []TimeSlot
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		mi, mj := isMorning(available[i]), isMorning(available[j])
		if mi != mj {
			return mi
		}
		return available[i].Start.Before(available[j].Start)
	})

	if len(available) > max {
		available = available[:max]
	}

	suggestions := make([]Suggestion, len(available))
	for i, s := range available {
		suggestions[i] = Suggestion{
			Start:   s.Start,
			End:     s.End,
			Display: formatSlot(s),
		}
	}
	return suggestions
}

func isMorning(s TimeSlot) bool {
	return s.Start.Hour() < 12
}

func formatSlot(s TimeSlot) string {
	return fmt.Sprintf("%s to %s",
		s.Start.Format("Mon, Jan 2 at 3:04 PM"),
		s.End.Format("3:04 PM"))
}
