package scheduler

import (
	"testing"
	"time"
)

func TestDueJobs(t *testing.T) {
	s := &Scheduler{
		cfg: Config{
			FullWeekday:     time.Sunday,
			FullHour:        2,
			IncrementalHour: 6,
			MaintenanceDay:  1,
			MaintenanceHour: 3,
		},
		lastFired: make(map[JobKind]time.Time),
	}

	// Sunday 2026-03-01 is also the 1st of the month.
	sunday2am := time.Date(2026, 3, 1, 2, 15, 0, 0, time.UTC)
	due := s.dueJobs(sunday2am)
	if len(due) != 1 || due[0] != JobFull {
		t.Fatalf("sunday 02:15: got %v, want [full]", due)
	}

	// Same window must not fire twice.
	due = s.dueJobs(sunday2am.Add(time.Minute))
	if len(due) != 0 {
		t.Fatalf("repeat poll in same window fired %v", due)
	}

	due = s.dueJobs(time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC))
	if len(due) != 1 || due[0] != JobMaintenance {
		t.Fatalf("1st 03:00: got %v, want [maintenance]", due)
	}

	due = s.dueJobs(time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC))
	if len(due) != 1 || due[0] != JobIncremental {
		t.Fatalf("06:30: got %v, want [incremental]", due)
	}

	// Next day, incremental fires again.
	due = s.dueJobs(time.Date(2026, 3, 2, 6, 5, 0, 0, time.UTC))
	if len(due) != 1 || due[0] != JobIncremental {
		t.Fatalf("next day 06:05: got %v, want [incremental]", due)
	}

	// Monday 02:00 is not the full window.
	due = s.dueJobs(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC))
	if len(due) != 0 {
		t.Fatalf("monday 02:00 fired %v", due)
	}
}

func TestFiredToday(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)

	if firedToday(time.Time{}, now) {
		t.Error("zero time counted as fired")
	}
	if !firedToday(now.Add(-20*time.Minute), now) {
		t.Error("same day not detected")
	}
	if firedToday(now.AddDate(0, 0, -1), now) {
		t.Error("previous day counted as today")
	}
}
