package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `
	e.id, e.organization_id, o.name, e.title, e.description, e.date, e.location,
	e.duration_minutes, e.capacity, e.price, e.category, e.created_at, e.updated_at`

const eventSelect = `
SELECT ` + eventColumns + `,
	(SELECT count(*) FROM registrations r WHERE r.event_id = e.id AND r.status = 'confirmed')
FROM events e
JOIN organizations o ON o.id = e.organization_id`

func scanEvent(row pgx.Row, e *entities.Event, extra ...any) error {
	dest := []any{
		&e.ID, &e.OrganizationID, &e.OrganizationName, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.DurationMinutes, &e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Event, error) {
		var e entities.Event
		err := scanEvent(row, &e, &e.RegistrationCount)
		return e, err
	})
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO events (id, organization_id, title, description, date, location,
				duration_minutes, capacity, price, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING organization_id, created_at, updated_at
		)
		SELECT o.name, i.created_at, i.updated_at
		FROM inserted i JOIN organizations o ON o.id = i.organization_id`,
		event.ID, event.OrganizationID, event.Title, event.Description, event.Date, event.Location,
		event.DurationMinutes, event.Capacity, event.Price, event.Category,
	).Scan(&event.OrganizationName, &event.CreatedAt, &event.UpdatedAt)
	if pgCode(err) == foreignKeyViolation {
		return domain.ErrOrganizationMissing
	}
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	var e entities.Event
	err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id), &e, &e.RegistrationCount)
	if isNoRows(err) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

// List returns events starting at or after filter.From, earliest first.
func (r *EventRepository) List(ctx context.Context, filter entities.EventFilter) ([]entities.Event, error) {
	from := filter.From
	if from.IsZero() {
		from = time.Now()
	}
	var search string
	if filter.Search != "" {
		search = containsPattern(filter.Search)
	}
	rows, err := r.pool.Query(ctx, eventSelect+`
		WHERE e.date >= $1
		  AND ($2 = '' OR e.category = $2)
		  AND ($3 = '' OR e.title ILIKE $3 OR e.description ILIKE $3)
		ORDER BY e.date ASC, e.id`,
		from, filter.Category, search,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// FindByOrganizationID returns the organization's events, latest first.
func (r *EventRepository) FindByOrganizationID(ctx context.Context, organizationID string) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, eventSelect+`
		WHERE e.organization_id = $1
		ORDER BY e.date DESC, e.id`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list organization events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}
