package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/output"
)

var _ output.AppraisalRepository = (*AppraisalRepository)(nil)

// AppraisalRepository stores reviews and feedback. Both kinds share one
// column layout in separate tables.
type AppraisalRepository struct {
	pool *pgxpool.Pool
}

func NewAppraisalRepository(pool *pgxpool.Pool) *AppraisalRepository {
	return &AppraisalRepository{pool: pool}
}

var appraisalTables = map[entities.AppraisalKind]string{
	entities.KindReview:   "reviews",
	entities.KindFeedback: "feedback",
}

func tableFor(kind entities.AppraisalKind) (string, error) {
	table, ok := appraisalTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown appraisal kind %q", kind)
	}
	return table, nil
}

func (r *AppraisalRepository) Save(ctx context.Context, a *entities.Appraisal, policy entities.DuplicatePolicy) error {
	table, err := tableFor(a.Kind)
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `INSERT INTO ` + table + ` (id, user_id, event_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)`
	if policy == entities.PolicyOverwrite {
		query += `
		ON CONFLICT (user_id, event_id) DO UPDATE
		SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = now()`
	}
	query += `
		RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query, a.ID, a.UserID, a.EventID, a.Rating, nullableText(a.Comment)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	switch pgCode(err) {
	case uniqueViolation:
		return domain.ErrDuplicateAppraisal
	case foreignKeyViolation:
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", a.Kind, err)
	}
	return nil
}

func (r *AppraisalRepository) FindByEventID(ctx context.Context, kind entities.AppraisalKind, eventID string) ([]entities.Appraisal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, u.name, a.event_id, a.rating, a.comment, a.created_at, a.updated_at
		FROM `+table+` a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at DESC, a.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Appraisal, error) {
		a := entities.Appraisal{Kind: kind}
		var comment pgtype.Text
		err := row.Scan(&a.ID, &a.UserID, &a.UserName, &a.EventID, &a.Rating, &comment, &a.CreatedAt, &a.UpdatedAt)
		a.Comment = textValue(comment)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	return out, nil
}
