//go:build integration

package database

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"community/internal/domain"
	"community/internal/domain/entities"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startPostgres runs a throwaway Postgres, applies migrations and returns a pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "community",
				"POSTGRES_PASSWORD": "community",
				"POSTGRES_DB":       "community",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}
	dsn := fmt.Sprintf("postgres://community:community@%s:%s/community?sslmode=disable", host, port.Port())

	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPool() error: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

type fixture struct {
	users         *UserRepository
	events        *EventRepository
	registrations *RegistrationRepository
	appraisals    *AppraisalRepository
	org           *entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pool := startPostgres(t)
	f := &fixture{
		users:         NewUserRepository(pool),
		events:        NewEventRepository(pool),
		registrations: NewRegistrationRepository(pool),
		appraisals:    NewAppraisalRepository(pool),
	}
	f.org = &entities.User{Name: "Org", Email: "org@example.org", PasswordHash: "x", Role: domain.RoleOrganization}
	if err := f.users.CreateWithOrganization(context.Background(), f.org, &entities.Organization{Name: "Green Club"}); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) participant(t *testing.T, email string) *entities.User {
	t.Helper()
	u := &entities.User{Name: email, Email: email, PasswordHash: "x", Role: domain.RoleParticipant, Interests: []string{"music"}}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func (f *fixture) event(t *testing.T, capacity int, start time.Time) *entities.Event {
	t.Helper()
	e := &entities.Event{
		OrganizationID: f.org.OrganizationID, Title: "Cleanup", Description: "Bring gloves",
		Date: start, Location: "Beach", Capacity: capacity, Category: "environment", DurationMinutes: 60,
	}
	if err := f.events.Create(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRepositories_Postgres(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		f.participant(t, "dup@example.com")
		err := f.users.Create(ctx, &entities.User{Name: "x", Email: "dup@example.com", PasswordHash: "x", Role: domain.RoleParticipant})
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("Create() error = %v, want %v", err, domain.ErrEmailTaken)
		}
	})

	t.Run("organization user lookup", func(t *testing.T) {
		u, err := f.users.FindByEmail(ctx, "org@example.org")
		if err != nil {
			t.Fatal(err)
		}
		if u.OrganizationID != f.org.OrganizationID {
			t.Errorf("OrganizationID = %q, want %q", u.OrganizationID, f.org.OrganizationID)
		}
	})

	t.Run("create returns organization name", func(t *testing.T) {
		e := f.event(t, 5, time.Now().Add(time.Hour))
		if e.OrganizationName != "Green Club" {
			t.Errorf("OrganizationName = %q, want %q", e.OrganizationName, "Green Club")
		}
		if e.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("concurrent admission respects capacity", func(t *testing.T) {
		e := f.event(t, 1, time.Now().Add(time.Hour))
		users := []*entities.User{f.participant(t, "a@example.com"), f.participant(t, "b@example.com"), f.participant(t, "c@example.com")}

		var wg sync.WaitGroup
		errs := make([]error, len(users))
		for i, u := range users {
			wg.Add(1)
			go func(i int, userID string) {
				defer wg.Done()
				_, errs[i] = f.registrations.Admit(ctx, e.ID, userID, entities.CheckAdmission)
			}(i, u.ID)
		}
		wg.Wait()

		admitted := 0
		for _, err := range errs {
			if err == nil {
				admitted++
			} else if !errors.Is(err, domain.ErrCapacityExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		}
		got, err := f.events.FindByID(ctx, e.ID)
		if err != nil {
			t.Fatal(err)
		}
		if admitted != 1 || got.RegistrationCount != 1 {
			t.Errorf("admitted = %d, count = %d, want 1/1", admitted, got.RegistrationCount)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		e := f.event(t, 5, time.Now().Add(time.Hour))
		u := f.participant(t, "twice@example.com")
		if _, err := f.registrations.Admit(ctx, e.ID, u.ID, entities.CheckAdmission); err != nil {
			t.Fatal(err)
		}
		_, err := f.registrations.Admit(ctx, e.ID, u.ID, entities.CheckAdmission)
		if !errors.Is(err, domain.ErrAlreadyRegistered) {
			t.Fatalf("second Admit() error = %v, want %v", err, domain.ErrAlreadyRegistered)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.registrations.Admit(ctx, "nope", "nobody", entities.CheckAdmission)
		if !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("Admit() error = %v, want %v", err, domain.ErrEventNotFound)
		}
	})

	t.Run("review upsert and feedback reject", func(t *testing.T) {
		e := f.event(t, 5, time.Now().Add(-3*time.Hour))
		u := f.participant(t, "reviewer@example.com")

		first := &entities.Appraisal{Kind: entities.KindReview, UserID: u.ID, EventID: e.ID, Rating: 2, Comment: "slow start"}
		if err := f.appraisals.Save(ctx, first, entities.PolicyOverwrite); err != nil {
			t.Fatal(err)
		}
		if !first.CreatedAt.Equal(first.UpdatedAt) {
			t.Error("new review should have equal created and updated times")
		}
		second := &entities.Appraisal{Kind: entities.KindReview, UserID: u.ID, EventID: e.ID, Rating: 5}
		if err := f.appraisals.Save(ctx, second, entities.PolicyOverwrite); err != nil {
			t.Fatal(err)
		}
		if second.ID != first.ID {
			t.Errorf("upsert changed id: %s -> %s", first.ID, second.ID)
		}

		reviews, err := f.appraisals.FindByEventID(ctx, entities.KindReview, e.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(reviews) != 1 || reviews[0].Rating != 5 || reviews[0].Comment != "" || reviews[0].UserName != u.Name {
			t.Errorf("reviews = %+v, want one row with the latest values", reviews)
		}

		fb := &entities.Appraisal{Kind: entities.KindFeedback, UserID: u.ID, EventID: e.ID, Rating: 4}
		if err := f.appraisals.Save(ctx, fb, entities.PolicyReject); err != nil {
			t.Fatal(err)
		}
		again := &entities.Appraisal{Kind: entities.KindFeedback, UserID: u.ID, EventID: e.ID, Rating: 1}
		if err := f.appraisals.Save(ctx, again, entities.PolicyReject); !errors.Is(err, domain.ErrDuplicateAppraisal) {
			t.Fatalf("second feedback error = %v, want %v", err, domain.ErrDuplicateAppraisal)
		}
	})

	t.Run("list filters", func(t *testing.T) {
		f.event(t, 5, time.Now().Add(-time.Hour))
		upcoming := f.event(t, 5, time.Now().Add(24*time.Hour))

		events, err := f.events.List(ctx, entities.EventFilter{Category: "environment", Search: "GLOVES", From: time.Now()})
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, e := range events {
			if e.Date.Before(time.Now()) {
				t.Errorf("past event %s listed", e.ID)
			}
			if e.ID == upcoming.ID {
				found = true
				if e.OrganizationName != "Green Club" {
					t.Errorf("OrganizationName = %q", e.OrganizationName)
				}
			}
		}
		if !found {
			t.Error("upcoming event missing from list")
		}

		none, err := f.events.List(ctx, entities.EventFilter{Search: "100%_match", From: time.Now()})
		if err != nil {
			t.Fatal(err)
		}
		if len(none) != 0 {
			t.Errorf("wildcards in search should be literal, got %d events", len(none))
		}
	})
}
