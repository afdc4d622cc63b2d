package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/input"
	"community/internal/ports/output"
	"community/internal/validation"
)

var _ input.AccountUseCase = (*AccountService)(nil)

// DefaultHashCost is the bcrypt cost used for stored passwords.
const DefaultHashCost = 12

type AccountService struct {
	userRepo output.UserRepository
	hashCost int
}

// NewAccountService creates the account service. A hashCost of 0 selects
// DefaultHashCost.
func NewAccountService(userRepo output.UserRepository, hashCost int) *AccountService {
	if hashCost == 0 {
		hashCost = DefaultHashCost
	}
	return &AccountService{userRepo: userRepo, hashCost: hashCost}
}

func (s *AccountService) RegisterParticipant(ctx context.Context, in input.ParticipantSignup) (*entities.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleParticipant,
		Interests:    in.Interests,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) RegisterOrganization(ctx context.Context, in input.OrganizationSignup) (*entities.User, *entities.Organization, error) {
	if err := validation.Struct(in); err != nil {
		return nil, nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, nil, err
	}
	org := &entities.Organization{Name: strings.TrimSpace(in.OrganizationName)}
	if in.Website != nil {
		org.Website = *in.Website
	}
	if in.Description != nil {
		org.Description = *in.Description
	}
	user := &entities.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleOrganization,
	}
	if err := s.userRepo.CreateWithOrganization(ctx, user, org); err != nil {
		return nil, nil, err
	}
	return user, org, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, in input.Credentials) (*entities.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
