package output

import (
	"context"

	"community/internal/domain/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	List(ctx context.Context, filter entities.EventFilter) ([]entities.Event, error)
	FindByOrganizationID(ctx context.Context, organizationID string) ([]entities.Event, error)
}
