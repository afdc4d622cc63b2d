package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"community/internal/domain"
	"community/internal/ports/input"
)

func newAccountFixture() (*AccountService, *memDB) {
	db := newMemDB()
	return NewAccountService(memUsers{db}, bcrypt.MinCost), db
}

func TestRegisterParticipant(t *testing.T) {
	svc, _ := newAccountFixture()
	ctx := context.Background()

	user, err := svc.RegisterParticipant(ctx, input.ParticipantSignup{
		Name: "Ana", Email: " Ana@Example.com ", Password: "secret1", Interests: []string{"music"},
	})
	if err != nil {
		t.Fatalf("RegisterParticipant() unexpected error: %v", err)
	}
	if user.Role != domain.RoleParticipant || user.Email != "ana@example.com" {
		t.Errorf("user = %+v", user)
	}
	if user.PasswordHash == "secret1" {
		t.Error("password stored in clear text")
	}

	_, err = svc.RegisterParticipant(ctx, input.ParticipantSignup{
		Name: "Ana Two", Email: "ana@example.com", Password: "secret2", Interests: []string{"art"},
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate email error = %v, want %v", err, domain.ErrEmailTaken)
	}
}

func TestRegisterParticipant_PasswordTooLong(t *testing.T) {
	svc, _ := newAccountFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
	}{
		{"over 72 characters", strings.Repeat("p", 80)},
		// 40 two-byte runes pass the character limit but exceed 72 bytes.
		{"over 72 bytes", strings.Repeat("é", 40)},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterParticipant(ctx, input.ParticipantSignup{
				Name: "Ana", Email: fmt.Sprintf("ana%d@example.com", i), Password: tt.password, Interests: []string{"music"},
			})
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != "password" {
				t.Fatalf("RegisterParticipant() error = %v, want password validation error", err)
			}
			if domain.Code(err) != "validation" {
				t.Errorf("Code() = %q, want validation", domain.Code(err))
			}
		})
	}

	_, _, err := svc.RegisterOrganization(ctx, input.OrganizationSignup{
		Name: "Org", Email: "org@example.com", Password: strings.Repeat("p", 80), OrganizationName: "Org",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("RegisterOrganization() error = %v, want validation error", err)
	}
}

func TestRegisterOrganization(t *testing.T) {
	svc, db := newAccountFixture()
	site := "https://green.example.org"

	user, org, err := svc.RegisterOrganization(context.Background(), input.OrganizationSignup{
		Name: "Lee", Email: "lee@example.org", Password: "secret1",
		OrganizationName: "Green Club", Website: &site,
	})
	if err != nil {
		t.Fatalf("RegisterOrganization() unexpected error: %v", err)
	}
	if user.Role != domain.RoleOrganization || user.OrganizationID != org.ID {
		t.Errorf("user = %+v, org = %+v", user, org)
	}
	if db.orgs[org.ID].Website != site {
		t.Errorf("stored website = %q", db.orgs[org.ID].Website)
	}
}

func TestRegisterOrganization_InvalidWebsite(t *testing.T) {
	svc, _ := newAccountFixture()
	site := "not a url"
	_, _, err := svc.RegisterOrganization(context.Background(), input.OrganizationSignup{
		Name: "Lee", Email: "lee@example.org", Password: "secret1",
		OrganizationName: "Green Club", Website: &site,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "website" {
		t.Fatalf("error = %v, want website validation error", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAccountFixture()
	ctx := context.Background()
	if _, err := svc.RegisterParticipant(ctx, input.ParticipantSignup{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", Interests: []string{"music"},
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		creds   input.Credentials
		wantErr error
	}{
		{"valid", input.Credentials{Email: "ANA@example.com", Password: "secret1"}, nil},
		{"wrong password", input.Credentials{Email: "ana@example.com", Password: "secret2"}, domain.ErrInvalidCredentials},
		{"unknown email", input.Credentials{Email: "bob@example.com", Password: "secret1"}, domain.ErrInvalidCredentials},
		{"malformed", input.Credentials{Email: "ana", Password: "x"}, domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.creds)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.Name != "Ana" {
				t.Errorf("user = %+v", user)
			}
		})
	}
}
