package input

import (
	"context"

	"community/internal/domain/entities"
)

type ParticipantSignup struct {
	Name      string   `json:"name" validate:"min=2"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"min=6,max=72"`
	Interests []string `json:"interests" validate:"min=1"`
}

type OrganizationSignup struct {
	Name             string  `json:"name" validate:"min=2"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"min=6,max=72"`
	OrganizationName string  `json:"organizationName" validate:"min=2"`
	Website          *string `json:"website" validate:"omitempty,url"`
	Description      *string `json:"description"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,max=72"`
}

type AccountUseCase interface {
	RegisterParticipant(ctx context.Context, in ParticipantSignup) (*entities.User, error)
	RegisterOrganization(ctx context.Context, in OrganizationSignup) (*entities.User, *entities.Organization, error)
	Authenticate(ctx context.Context, in Credentials) (*entities.User, error)
}
