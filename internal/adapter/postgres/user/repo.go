// Package user implements the read-only User profile repository using PostgreSQL.
// Profiles are written by the external auth service.
package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Repo provides user profile lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		u         domain.User
		createdAt pgtype.Timestamptz
	)
	err := q.QueryRow(ctx,
		`SELECT id, email, display_name, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &createdAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	u.CreatedAt = createdAt.Time

	return &u, nil
}
