package output

import (
	"context"

	"community/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	// CreateWithOrganization inserts the organization and its owning user together.
	CreateWithOrganization(ctx context.Context, user *entities.User, org *entities.Organization) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}
