package streak

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return ts
}

func TestAdvanceConsecutiveDays(t *testing.T) {
	s := State{}
	start := day(t, "2025-03-01T09:00:00Z")
	for i := 0; i < 10; i++ {
		var changed bool
		s, changed = Advance(s, start.AddDate(0, 0, i))
		if !changed {
			t.Fatalf("day %d: expected state change", i)
		}
		if s.Current != i+1 {
			t.Fatalf("day %d: current=%d want %d", i, s.Current, i+1)
		}
		if s.Longest != i+1 {
			t.Fatalf("day %d: longest=%d want %d", i, s.Longest, i+1)
		}
	}
	if len(s.History) != 10 {
		t.Fatalf("history length=%d want 10", len(s.History))
	}
}

func TestAdvanceSameDayIsNoOp(t *testing.T) {
	s, _ := Advance(State{}, day(t, "2025-03-01T09:00:00Z"))
	again, changed := Advance(s, day(t, "2025-03-01T22:30:00Z"))
	if changed {
		t.Fatalf("same-day completion changed streak state")
	}
	if again.Current != 1 || again.LastCompletedDate != "2025-03-01" {
		t.Fatalf("unexpected state after same-day no-op: %+v", again)
	}
	if len(again.History) != 1 {
		t.Fatalf("history grew on same-day completion: %v", again.History)
	}
}

func TestAdvanceGapResets(t *testing.T) {
	s, _ := Advance(State{}, day(t, "2025-03-01T09:00:00Z"))
	s, _ = Advance(s, day(t, "2025-03-02T09:00:00Z"))
	if s.Current != 2 {
		t.Fatalf("current=%d want 2", s.Current)
	}

	// Skip March 3; complete on March 4.
	s, changed := Advance(s, day(t, "2025-03-04T09:00:00Z"))
	if !changed {
		t.Fatalf("expected change after gap")
	}
	if s.Current != 1 {
		t.Fatalf("current=%d want 1 after gap", s.Current)
	}
	if s.Longest != 2 {
		t.Fatalf("longest=%d want 2 after gap", s.Longest)
	}
}

func TestLongestIsMonotonic(t *testing.T) {
	s := State{}
	instants := []string{
		"2025-03-01T01:00:00Z",
		"2025-03-02T01:00:00Z",
		"2025-03-03T01:00:00Z",
		"2025-03-07T01:00:00Z",
		"2025-03-08T01:00:00Z",
		"2025-03-20T01:00:00Z",
	}
	prevLongest := 0
	for _, raw := range instants {
		s, _ = Advance(s, day(t, raw))
		if s.Longest < prevLongest {
			t.Fatalf("longest decreased: %d -> %d", prevLongest, s.Longest)
		}
		if s.Longest < s.Current {
			t.Fatalf("invariant violated: longest=%d < current=%d", s.Longest, s.Current)
		}
		prevLongest = s.Longest
	}
	if s.Longest != 3 {
		t.Fatalf("longest=%d want 3", s.Longest)
	}
}

func TestDayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+11", 11*3600)
	// 23:30 local on March 2 is 12:30 UTC on March 2.
	local := time.Date(2025, 3, 2, 23, 30, 0, 0, loc)
	if got := Day(local); got != "2025-03-02" {
		t.Fatalf("Day=%q want 2025-03-02", got)
	}
	// 09:00 local on March 2 is 22:00 UTC on March 1.
	early := time.Date(2025, 3, 2, 9, 0, 0, 0, loc)
	if got := Day(early); got != "2025-03-01" {
		t.Fatalf("Day=%q want 2025-03-01", got)
	}
}

func TestDayBoundaryAroundMidnight(t *testing.T) {
	s, _ := Advance(State{}, day(t, "2025-03-01T23:59:59Z"))
	s, changed := Advance(s, day(t, "2025-03-02T00:00:01Z"))
	if !changed || s.Current != 2 {
		t.Fatalf("completion just after midnight should continue streak, got %+v", s)
	}
}

func TestScenarioFromDashboard(t *testing.T) {
	// Day 1: "Lip Trills" then "Humming Scales"; day 2: anything;
	// skip day 3; day 4: anything.
	s := State{}
	s, _ = Advance(s, day(t, "2025-06-01T08:00:00Z"))
	if s.Current != 1 {
		t.Fatalf("after first completion current=%d want 1", s.Current)
	}
	s, changed := Advance(s, day(t, "2025-06-01T18:00:00Z"))
	if changed || s.Current != 1 {
		t.Fatalf("second completion same day: changed=%v current=%d", changed, s.Current)
	}
	s, _ = Advance(s, day(t, "2025-06-02T08:00:00Z"))
	if s.Current != 2 {
		t.Fatalf("day 2 current=%d want 2", s.Current)
	}
	s, _ = Advance(s, day(t, "2025-06-04T08:00:00Z"))
	if s.Current != 1 || s.Longest != 2 {
		t.Fatalf("day 4 current=%d longest=%d want 1/2", s.Current, s.Longest)
	}
	if !s.CompletedOn("2025-06-01") || !s.CompletedOn("2025-06-02") || !s.CompletedOn("2025-06-04") {
		t.Fatalf("history missing expected days: %v", s.History)
	}
	if s.CompletedOn("2025-06-03") {
		t.Fatalf("history contains skipped day: %v", s.History)
	}
}
