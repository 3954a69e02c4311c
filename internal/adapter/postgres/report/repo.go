// Package report implements the credit report repository using PostgreSQL.
package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Repo provides credit report persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new report repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a report.
func (r *Repo) Create(ctx context.Context, rep *domain.Report) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`INSERT INTO credit_reports (id, user_id, file_name, bureau, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rep.ID, rep.UserID, rep.FileName, bureauValue(rep.Bureau), rep.UploadedAt,
	)
	if err != nil {
		return postgres.MapError(err, "credit_report", rep.ID)
	}
	return nil
}

// GetByID returns a report owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Report, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		rep    domain.Report
		bureau *string
	)
	err := q.QueryRow(ctx,
		`SELECT id, user_id, file_name, bureau, uploaded_at FROM credit_reports WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&rep.ID, &rep.UserID, &rep.FileName, &bureau, &rep.UploadedAt)
	if err != nil {
		return nil, postgres.MapError(err, "credit_report", id)
	}
	if bureau != nil {
		b := domain.Bureau(*bureau)
		rep.Bureau = &b
	}
	return &rep, nil
}

// CountByUser returns how many reports the user has uploaded.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM credit_reports WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "credit_report", userID)
	}
	return n, nil
}

// Delete removes a report. Items still pointing at it get report_id cleared
// by the foreign key.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM credit_reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return postgres.MapError(err, "credit_report", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "credit_report", id)
	}
	return nil
}

func bureauValue(b *domain.Bureau) *string {
	if b == nil {
		return nil
	}
	s := string(*b)
	return &s
}
