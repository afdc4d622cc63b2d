package input

import (
	"context"

	"community/internal/domain/entities"
)

type RegistrationUseCase interface {
	Register(ctx context.Context, p *entities.Principal, eventID string) (*entities.Registration, error)
	ListMine(ctx context.Context, p *entities.Principal) ([]entities.RegisteredEvent, error)
	Ticket(ctx context.Context, p *entities.Principal, registrationID string) ([]byte, error)
	Notifications(ctx context.Context, p *entities.Principal) ([]entities.Notification, error)
}
