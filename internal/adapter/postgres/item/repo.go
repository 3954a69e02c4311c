// Package item implements the NegativeItem repository using PostgreSQL.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

const selectColumns = `id, user_id, report_id, creditor_name, original_creditor, account_type,
	balance::text, date_opened, account_status, months_until_fall_off,
	on_equifax, on_experian, on_transunion, created_at`

// Repo provides negative item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new negative item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns an item owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.NegativeItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	it, err := scanItem(q.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM negative_items WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		return nil, postgres.MapError(err, "negative_item", id)
	}
	return it, nil
}

// GetByIDs returns the user's items among ids. Missing or foreign ids are
// silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.NegativeItem, error) {
	if len(ids) == 0 {
		return []*domain.NegativeItem{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+selectColumns+` FROM negative_items WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
	if err != nil {
		return nil, postgres.MapError(err, "negative_item", userID)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, postgres.MapError(err, "negative_item", userID)
	}
	return items, nil
}

// ListByUser returns all items of the user, oldest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NegativeItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+selectColumns+` FROM negative_items WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "negative_item", userID)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, postgres.MapError(err, "negative_item", userID)
	}
	return items, nil
}

// CreateBatch inserts items with pgx.Batch.
func (r *Repo) CreateBatch(ctx context.Context, items []*domain.NegativeItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO negative_items (id, user_id, report_id, creditor_name, original_creditor, account_type,
			                             balance, date_opened, account_status, months_until_fall_off,
			                             on_equifax, on_experian, on_transunion, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7::text::numeric, $8, $9, $10, $11, $12, $13, $14)`,
			it.ID, it.UserID, it.ReportID, it.CreditorName, it.OriginalCreditor, string(it.AccountType),
			decimalText(it.Balance), dateValue(it.DateOpened), it.AccountStatus, it.MonthsUntilFallOff,
			it.OnEquifax, it.OnExperian, it.OnTransunion, it.CreatedAt,
		)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for _, it := range items {
		if _, err := br.Exec(); err != nil {
			return postgres.MapError(err, "negative_item", it.ID)
		}
	}
	return nil
}

// DetachReport removes the items of a report that no dispute references and
// clears report_id on the remaining ones. Returns both counts.
func (r *Repo) DetachReport(ctx context.Context, userID, reportID uuid.UUID) (deleted, retained int, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`DELETE FROM negative_items ni
		 WHERE ni.report_id = $1 AND ni.user_id = $2
		   AND NOT EXISTS (SELECT 1 FROM disputes d WHERE d.negative_item_id = ni.id)`,
		reportID, userID,
	)
	if err != nil {
		return 0, 0, postgres.MapError(err, "credit_report", reportID)
	}
	deleted = int(tag.RowsAffected())

	tag, err = q.Exec(ctx,
		`UPDATE negative_items SET report_id = NULL WHERE report_id = $1 AND user_id = $2`,
		reportID, userID,
	)
	if err != nil {
		return 0, 0, postgres.MapError(err, "credit_report", reportID)
	}
	retained = int(tag.RowsAffected())

	return deleted, retained, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func collect(rows pgx.Rows) ([]*domain.NegativeItem, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.NegativeItem, error) {
		return scanItem(row)
	})
}

func scanItem(row pgx.Row) (*domain.NegativeItem, error) {
	var (
		it          domain.NegativeItem
		accountType string
		balance     *string
		dateOpened  pgtype.Date
		fallOff     *int32
	)

	err := row.Scan(
		&it.ID, &it.UserID, &it.ReportID, &it.CreditorName, &it.OriginalCreditor, &accountType,
		&balance, &dateOpened, &it.AccountStatus, &fallOff,
		&it.OnEquifax, &it.OnExperian, &it.OnTransunion, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.AccountType = domain.AccountType(accountType)
	if balance != nil {
		b, err := decimal.NewFromString(*balance)
		if err != nil {
			return nil, fmt.Errorf("parse balance %q: %w", *balance, err)
		}
		it.Balance = &b
	}
	if dateOpened.Valid {
		t := dateOpened.Time
		it.DateOpened = &t
	}
	if fallOff != nil {
		m := int(*fallOff)
		it.MonthsUntilFallOff = &m
	}

	return &it, nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func dateValue(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
