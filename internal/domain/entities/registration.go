package entities

import (
	"time"

	"community/internal/domain"
)

// Registration represents a participant's seat at an event.
type Registration struct {
	ID        string
	UserID    string
	EventID   string
	Status    string
	CreatedAt time.Time

	// Event is attached by queries that join the event row.
	Event *Event
}

func (r *Registration) IsConfirmed() bool {
	return r != nil && r.Status == domain.StatusConfirmed
}

// AdmissionState is what storage observes about an event while holding its
// lock during admission.
type AdmissionState struct {
	Event             Event
	ConfirmedCount    int
	AlreadyRegistered bool
}

// CheckAdmission decides whether one more confirmed registration fits.
// Capacity is checked before the duplicate check.
func CheckAdmission(s AdmissionState) error {
	if s.ConfirmedCount >= s.Event.Capacity {
		return domain.ErrCapacityExceeded
	}
	if s.AlreadyRegistered {
		return domain.ErrAlreadyRegistered
	}
	return nil
}
