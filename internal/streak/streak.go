// Package streak implements the day-resolution practice-streak rules.
// All date math is done on UTC calendar days so a completion counts for
// the same day no matter which timezone the client sits in.
package streak

import "time"

// DayFormat is the canonical day-resolution date layout.
const DayFormat = "2006-01-02"

// State is the pure streak state. LastCompletedDate is "" until the
// first completion. History holds every day with at least one
// completion, oldest first, no duplicates.
type State struct {
	Current           int
	Longest           int
	LastCompletedDate string
	History           []string
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Advance applies one completion at instant `at` and returns the next
// state plus whether the streak state changed. A second completion on
// a day that already counted is a no-op for streak purposes (the caller
// still appends the completion to its log).
//
// Rules:
//   - last == today           -> unchanged
//   - last == today - 1 day   -> current + 1
//   - anything else           -> current = 1
//
// Longest only ever grows, so Longest >= Current holds for every state
// reachable from the zero State.
func Advance(s State, at time.Time) (State, bool) {
	today := Day(at)
	if s.LastCompletedDate == today {
		return s, false
	}

	next := State{
		Longest:           s.Longest,
		LastCompletedDate: today,
	}
	if s.LastCompletedDate == Day(at.AddDate(0, 0, -1)) {
		next.Current = s.Current + 1
	} else {
		next.Current = 1
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}

	next.History = make([]string, 0, len(s.History)+1)
	next.History = append(next.History, s.History...)
	next.History = append(next.History, today)
	return next, true
}

// CompletedOn reports whether day (DayFormat) is in the history.
func (s State) CompletedOn(day string) bool {
	for _, d := range s.History {
		if d == day {
			return true
		}
	}
	return false
}

// CompletedToday reports whether the streak already counted the UTC day
// of `at`.
func (s State) CompletedToday(at time.Time) bool {
	return s.LastCompletedDate == Day(at)
}
