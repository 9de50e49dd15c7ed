package delivery

import (
	"fmt"
	"time"
	_ "time/tzdata" // reference zone must resolve in minimal containers
)

// DefaultLocationName is the reference zone quiet hours are evaluated in.
const DefaultLocationName = "Europe/Rome"

// QuietHours is a local-time window in which follow-ups must not be
// delivered. Messages landing inside it are moved to ResumeHour.
// Start == End disables the window; Start > End wraps around midnight.
type QuietHours struct {
	Location   *time.Location
	StartHour  int
	EndHour    int
	ResumeHour int
}

func DefaultQuietHours() QuietHours {
	return QuietHours{
		Location:   LoadLocation(DefaultLocationName),
		StartHour:  0,
		EndHour:    8,
		ResumeHour: 10,
	}
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (q QuietHours) Validate() error {
	for _, h := range []int{q.StartHour, q.EndHour, q.ResumeHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("quiet hours must be between 0 and 23, got %d", h)
		}
	}
	if q.containsHour(q.ResumeHour) {
		return fmt.Errorf("resume hour %d falls inside the quiet window [%d, %d)", q.ResumeHour, q.StartHour, q.EndHour)
	}
	return nil
}

// Contains reports whether t falls inside the window in the reference zone.
func (q QuietHours) Contains(t time.Time) bool {
	return q.containsHour(t.In(q.location()).Hour())
}

func (q QuietHours) containsHour(h int) bool {
	switch {
	case q.StartHour == q.EndHour:
		return false
	case q.StartHour < q.EndHour:
		return h >= q.StartHour && h < q.EndHour
	default:
		return h >= q.StartHour || h < q.EndHour
	}
}

// Shift returns t unchanged outside the window, otherwise the first
// ResumeHour:00 local at or after t.
func (q QuietHours) Shift(t time.Time) time.Time {
	if !q.Contains(t) {
		return t
	}

	loc := q.location()
	local := t.In(loc)
	resume := time.Date(local.Year(), local.Month(), local.Day(), q.ResumeHour, 0, 0, 0, loc)
	if resume.Before(local) {
		resume = time.Date(local.Year(), local.Month(), local.Day()+1, q.ResumeHour, 0, 0, 0, loc)
	}
	return resume
}

func (q QuietHours) location() *time.Location {
	if q.Location == nil {
		return time.UTC
	}
	return q.Location
}
