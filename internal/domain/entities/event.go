package entities

import "time"

// Phase is the temporal state of an event relative to an instant.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseOngoing  Phase = "ongoing"
	PhasePast     Phase = "past"
)

// ClassifyPhase places an event starting at start and lasting durationMinutes
// into exactly one phase at now. The interval [start, end] is closed on both
// ends, so a zero-duration event is ongoing only at its start instant.
func ClassifyPhase(start time.Time, durationMinutes int, now time.Time) Phase {
	end := EndOf(start, durationMinutes)
	switch {
	case !now.Before(start) && !now.After(end):
		return PhaseOngoing
	case start.After(now):
		return PhaseUpcoming
	default:
		return PhasePast
	}
}

// EndOf returns start plus durationMinutes. Negative durations count as zero.
func EndOf(start time.Time, durationMinutes int) time.Time {
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

func (e *Event) EndsAt() time.Time {
	return EndOf(e.Date, e.DurationMinutes)
}

func (e *Event) PhaseAt(now time.Time) Phase {
	return ClassifyPhase(e.Date, e.DurationMinutes, now)
}

type Event struct {
	ID               string
	OrganizationID   string
	OrganizationName string
	Title            string
	Description      string
	Date             time.Time
	Location         string
	DurationMinutes  int
	Capacity         int
	Price            float64
	Category         string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// RegistrationCount is filled by listing queries; it counts confirmed rows.
	RegistrationCount int
}

// EventFilter narrows catalogue listings.
type EventFilter struct {
	Category string
	Search   string
	From     time.Time
}
