package index

import (
	"testing"
	"time"
)

func TestNamer_MonthlyLayout(t *testing.T) {
	n := NewNamer("tasks", "2006-01")
	at := time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC)

	if got := n.Name(at); got != "tasks-2026-08" {
		t.Errorf("Name = %q", got)
	}
	if got := n.KeyPrefix(at); got != "tasks-2026-08:" {
		t.Errorf("KeyPrefix = %q", got)
	}
	if got := n.Key(at, "42"); got != "tasks-2026-08:42" {
		t.Errorf("Key = %q", got)
	}
}

func TestNamer_Rollover(t *testing.T) {
	n := NewNamer("tasks", "2006-01")
	aug := time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)
	sep := time.Date(2026, time.September, 1, 0, 0, 1, 0, time.UTC)

	if n.Name(aug) == n.Name(sep) {
		t.Error("expected different names across month boundary")
	}
}

func TestNamer_SingleIndex(t *testing.T) {
	n := NewNamer("tasks", "")
	at := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	if got := n.Name(at); got != "tasks" {
		t.Errorf("Name = %q", got)
	}
	if got := n.KeyPrefix(at); got != "tasks:" {
		t.Errorf("KeyPrefix = %q", got)
	}
}

func TestNamer_UTC(t *testing.T) {
	n := NewNamer("tasks", "2006-01")
	// local time zones must not shift the period
	loc := time.FixedZone("UTC+14", 14*3600)
	at := time.Date(2026, time.September, 1, 2, 0, 0, 0, loc) // Aug 31 in UTC

	if got := n.Name(at); got != "tasks-2026-08" {
		t.Errorf("Name = %q, want tasks-2026-08", got)
	}
}
