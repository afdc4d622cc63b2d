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

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// queryRower is satisfied by both the pool and a transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertUser(ctx context.Context, q queryRower, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	interests := user.Interests
	if interests == nil {
		interests = []string{}
	}
	err := q.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, interests)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, interests,
	).Scan(&user.CreatedAt)
	if pgCode(err) == uniqueViolation {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	return insertUser(ctx, r.pool, user)
}

func (r *UserRepository) CreateWithOrganization(ctx context.Context, user *entities.User, org *entities.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO organizations (id, user_id, name, website, description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
			org.ID, user.ID, org.Name, nullableText(org.Website), nullableText(org.Description),
		).Scan(&org.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert organization: %w", err)
		}
		user.OrganizationID = org.ID
		return nil
	})
}

const userSelect = `
SELECT u.id, u.name, u.email, u.password_hash, u.role, o.id, u.interests, u.created_at
FROM users u
LEFT JOIN organizations o ON o.user_id = u.id`

func (r *UserRepository) findOne(ctx context.Context, where string, arg string) (*entities.User, error) {
	var u entities.User
	var orgID pgtype.Text
	err := r.pool.QueryRow(ctx, userSelect+` WHERE `+where, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &orgID, &u.Interests, &u.CreatedAt,
	)
	if isNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.OrganizationID = textValue(orgID)
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, `u.id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, `u.email = $1`, email)
}
