package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/output"
)

var _ output.RegistrationRepository = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// Admit locks the event row, lets decide inspect the current admission state
// and inserts a confirmed registration in the same transaction. The unique
// (user_id, event_id) constraint backs the duplicate check.
func (r *RegistrationRepository) Admit(ctx context.Context, eventID, userID string, decide output.AdmissionDecider) (*entities.Registration, error) {
	reg := &entities.Registration{
		ID:      uuid.NewString(),
		UserID:  userID,
		EventID: eventID,
		Status:  domain.StatusConfirmed,
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var state entities.AdmissionState
		err := scanEvent(tx.QueryRow(ctx, `
			SELECT `+eventColumns+`
			FROM events e
			JOIN organizations o ON o.id = e.organization_id
			WHERE e.id = $1
			FOR UPDATE OF e`, eventID), &state.Event)
		if isNoRows(err) {
			return domain.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}

		err = tx.QueryRow(ctx, `
			SELECT count(*) FILTER (WHERE status = 'confirmed'),
			       COALESCE(bool_or(user_id = $2), false)
			FROM registrations
			WHERE event_id = $1`, eventID, userID,
		).Scan(&state.ConfirmedCount, &state.AlreadyRegistered)
		if err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		state.Event.RegistrationCount = state.ConfirmedCount

		if err := decide(state); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO registrations (id, user_id, event_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			reg.ID, reg.UserID, reg.EventID, reg.Status,
		).Scan(&reg.CreatedAt)
		switch pgCode(err) {
		case uniqueViolation:
			return domain.ErrAlreadyRegistered
		case foreignKeyViolation:
			return domain.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

const registrationColumns = `g.id, g.user_id, g.event_id, g.status, g.created_at`

func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*entities.Registration, error) {
	return r.findOne(ctx, `SELECT `+registrationColumns+` FROM registrations g WHERE g.id = $1`, id)
}

func (r *RegistrationRepository) FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.Registration, error) {
	return r.findOne(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations g
		WHERE g.event_id = $1 AND g.user_id = $2`, eventID, userID)
}

func (r *RegistrationRepository) findOne(ctx context.Context, query string, args ...any) (*entities.Registration, error) {
	var reg entities.Registration
	err := r.pool.QueryRow(ctx, query, args...).Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt)
	if isNoRows(err) {
		return nil, domain.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

// FindByUserID returns the user's registrations with their events, soonest
// event first.
func (r *RegistrationRepository) FindByUserID(ctx context.Context, userID string) ([]entities.Registration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+registrationColumns+`, `+eventColumns+`,
			(SELECT count(*) FROM registrations r WHERE r.event_id = e.id AND r.status = 'confirmed')
		FROM registrations g
		JOIN events e ON e.id = g.event_id
		JOIN organizations o ON o.id = e.organization_id
		WHERE g.user_id = $1
		ORDER BY e.date ASC, g.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	regs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Registration, error) {
		var reg entities.Registration
		e := &entities.Event{}
		err := row.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt,
			&e.ID, &e.OrganizationID, &e.OrganizationName, &e.Title, &e.Description, &e.Date, &e.Location,
			&e.DurationMinutes, &e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
			&e.RegistrationCount,
		)
		reg.Event = e
		return reg, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan registrations: %w", err)
	}
	return regs, nil
}
