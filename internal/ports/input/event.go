package input

import (
	"context"

	"community/internal/domain/entities"
)

// CreateEventInput is the payload of an organization publishing an event.
type CreateEventInput struct {
	Title       string   `json:"title" validate:"min=2"`
	Description string   `json:"description" validate:"min=10"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location    string   `json:"location" validate:"min=2"`
	Capacity    int      `json:"capacity" validate:"min=1"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Category    string   `json:"category"`
	Duration    int      `json:"duration" validate:"min=0"`
}

type EventUseCase interface {
	CreateEvent(ctx context.Context, p *entities.Principal, in CreateEventInput) (*entities.Event, error)
	ListUpcoming(ctx context.Context, category, search string) ([]entities.Event, error)
	GetEventDetail(ctx context.Context, p *entities.Principal, eventID string) (*entities.EventDetail, error)
	ListOrganizationEvents(ctx context.Context, p *entities.Principal) ([]entities.EventSummary, error)
	ListOrganizationReviews(ctx context.Context, p *entities.Principal, eventID string) ([]entities.Appraisal, error)
}
