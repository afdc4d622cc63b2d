package output

import (
	"context"

	"community/internal/domain/entities"
)

// AdmissionDecider inspects the locked state of an event and returns a
// non-nil error to refuse the registration.
type AdmissionDecider func(state entities.AdmissionState) error

type RegistrationRepository interface {
	// Admit evaluates decide and inserts a confirmed registration as one
	// atomic step: concurrent calls for the same event are serialized, so
	// the decision always sees the current row count.
	Admit(ctx context.Context, eventID, userID string, decide AdmissionDecider) (*entities.Registration, error)
	FindByID(ctx context.Context, id string) (*entities.Registration, error)
	FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.Registration, error)
	// FindByUserID returns the user's registrations with Event attached.
	FindByUserID(ctx context.Context, userID string) ([]entities.Registration, error)
}
