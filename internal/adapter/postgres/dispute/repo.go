// Package dispute implements the Dispute repository using PostgreSQL.
// Every transition is a single conditional UPDATE guarded by the expected
// statuses and the row version, so concurrent writers cannot both succeed.
package dispute

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "user_id", "negative_item_id", "target", "letter_type", "letter_content", "status",
	"mailed_at", "tracking_number", "response_due_date", "response_received_at",
	"response_type", "response_notes", "outcome", "outcome_at", "debt_eliminated::text",
	"version", "created_at", "updated_at",
}

var returning = strings.Join(columns, ", ")

// openStatuses are the persisted non-terminal statuses.
var openStatuses = []string{
	string(domain.DisputeStatusDraft),
	string(domain.DisputeStatusMailed),
	string(domain.DisputeStatusResponseReceived),
}

// Repo provides dispute persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dispute repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a dispute owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+returning+` FROM disputes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	d, err := scanDispute(row)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", id)
	}
	return d, nil
}

// List returns the disputes matching filter and the total match count.
// A non-positive Limit returns every match.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error) {
	where := sq.And{sq.Expr("user_id = ?", userID)}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, sq.Eq{"status": statuses})
	}
	if filter.Target != nil {
		where = append(where, sq.Eq{"target": string(*filter.Target)})
	}
	if filter.LetterType != nil {
		where = append(where, sq.Eq{"letter_type": string(*filter.LetterType)})
	}
	if filter.NegativeItemID != nil {
		where = append(where, sq.Expr("negative_item_id = ?", *filter.NegativeItemID))
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("count(*)").From("disputes").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "dispute", uuid.Nil)
	}

	query := psql.Select(columns...).From("disputes").Where(where).
		OrderBy(orderBy(filter.SortBy, filter.SortOrder), "id")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	listSQL, listArgs, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, postgres.MapError(err, "dispute", uuid.Nil)
	}
	disputes, err := collect(rows)
	if err != nil {
		return nil, 0, postgres.MapError(err, "dispute", uuid.Nil)
	}
	return disputes, total, nil
}

// ListByUser returns every dispute of the user, oldest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dispute, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+returning+` FROM disputes WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", userID)
	}
	disputes, err := collect(rows)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", userID)
	}
	return disputes, nil
}

// ListInFlight returns mailed, unanswered disputes of every user whose
// response is due on or before dueBy, soonest first.
func (r *Repo) ListInFlight(ctx context.Context, dueBy time.Time) ([]*domain.Dispute, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+returning+` FROM disputes
		 WHERE status = 'MAILED' AND response_due_date <= $1
		 ORDER BY response_due_date, user_id, id`,
		dueBy,
	)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", uuid.Nil)
	}
	disputes, err := collect(rows)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", uuid.Nil)
	}
	return disputes, nil
}

// OpenKeys returns the (item, target, letter type) tuples that already have
// an open dispute among the given items.
func (r *Repo) OpenKeys(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[domain.DisputeKey]bool, error) {
	keys := make(map[domain.DisputeKey]bool)
	if len(itemIDs) == 0 {
		return keys, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT negative_item_id, target, letter_type FROM disputes
		 WHERE user_id = $1 AND negative_item_id = ANY($2) AND status = ANY($3)`,
		userID, itemIDs, openStatuses,
	)
	if err != nil {
		return nil, postgres.MapError(err, "dispute", userID)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			k      domain.DisputeKey
			target string
			letter string
		)
		if err := rows.Scan(&k.NegativeItemID, &target, &letter); err != nil {
			return nil, postgres.MapError(err, "dispute", userID)
		}
		k.Target = domain.Target(target)
		k.LetterType = domain.LetterType(letter)
		keys[k] = true
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "dispute", userID)
	}
	return keys, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// CreateBatch inserts draft disputes with pgx.Batch. A row whose tuple
// already has an open dispute is skipped; only inserted rows are returned.
func (r *Repo) CreateBatch(ctx context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error) {
	if len(disputes) == 0 {
		return []*domain.Dispute{}, nil
	}

	batch := &pgx.Batch{}
	for _, d := range disputes {
		batch.Queue(
			`INSERT INTO disputes (id, user_id, negative_item_id, target, letter_type, letter_content,
			                       status, debt_eliminated, version, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, 'DRAFT', 0, 1, $7, $7)
			 ON CONFLICT (negative_item_id, target, letter_type)
			     WHERE status IN ('DRAFT', 'MAILED', 'RESPONSE_RECEIVED') DO NOTHING
			 RETURNING `+returning,
			d.ID, d.UserID, d.NegativeItemID, string(d.Target), string(d.LetterType), d.LetterContent, d.CreatedAt,
		)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	br := q.SendBatch(ctx, batch)
	defer br.Close()

	created := make([]*domain.Dispute, 0, len(disputes))
	for _, d := range disputes {
		row, err := scanDispute(br.QueryRow())
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, postgres.MapError(err, "dispute", d.ID)
		}
		created = append(created, row)
	}
	return created, nil
}

// MarkMailed applies the mark-mailed transition.
func (r *Repo) MarkMailed(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error) {
	return r.update(ctx, userID, id, guard,
		`status = 'MAILED', mailed_at = $5, tracking_number = $6, response_due_date = $7`,
		upd.MailedAt, upd.TrackingNumber, upd.ResponseDueDate,
	)
}

// LogResponse applies the log-response transition.
func (r *Repo) LogResponse(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error) {
	return r.update(ctx, userID, id, guard,
		`status = 'RESPONSE_RECEIVED', response_received_at = $5, response_type = $6, response_notes = $7`,
		upd.ReceivedAt, string(upd.ResponseType), upd.Notes,
	)
}

// RecordOutcome applies the record-outcome transition.
func (r *Repo) RecordOutcome(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error) {
	return r.update(ctx, userID, id, guard,
		`status = $5, outcome = $5, debt_eliminated = $6::text::numeric, outcome_at = $7`,
		string(upd.Outcome), upd.DebtEliminated.String(), upd.RecordedAt,
	)
}

// UpdateLetter replaces the letter content without changing status.
func (r *Repo) UpdateLetter(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error) {
	return r.update(ctx, userID, id, guard, `letter_content = $5`, content)
}

// Delete hard-deletes the dispute if the guard still holds.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`DELETE FROM disputes WHERE id = $1 AND user_id = $2 AND status = ANY($3) AND version = $4`,
		id, userID, statusStrings(guard.From), guard.Version,
	)
	if err != nil {
		return postgres.MapError(err, "dispute", id)
	}
	if tag.RowsAffected() == 0 {
		return r.conflict(ctx, userID, id, guard)
	}
	return nil
}

// update runs a conditional UPDATE. set uses placeholders starting at $5.
func (r *Repo) update(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, set string, args ...any) (*domain.Dispute, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := `UPDATE disputes SET ` + set + `, version = version + 1, updated_at = now()
	          WHERE id = $1 AND user_id = $2 AND status = ANY($3) AND version = $4
	          RETURNING ` + returning

	params := append([]any{id, userID, statusStrings(guard.From), guard.Version}, args...)

	d, err := scanDispute(q.QueryRow(ctx, query, params...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflict(ctx, userID, id, guard)
	}
	if err != nil {
		return nil, postgres.MapError(err, "dispute", id)
	}
	return d, nil
}

// conflict explains a guarded write that matched no row. Another writer
// either moved the dispute first or deleted it; a dispute owned by someone
// else is not found.
func (r *Repo) conflict(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		status string
		owner  uuid.UUID
	)
	err := q.QueryRow(ctx, `SELECT status, user_id FROM disputes WHERE id = $1`, id).Scan(&status, &owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewDeletedTransitionError(id, guard.Action)
	}
	if err != nil {
		return postgres.MapError(err, "dispute", id)
	}
	if owner != userID {
		return fmt.Errorf("dispute %s: %w", id, domain.ErrNotFound)
	}
	return domain.NewTransitionError(id, domain.DisputeStatus(status), guard.Action)
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func collect(rows pgx.Rows) ([]*domain.Dispute, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Dispute, error) {
		return scanDispute(row)
	})
}

func scanDispute(row pgx.Row) (*domain.Dispute, error) {
	var (
		d            domain.Dispute
		target       string
		letterType   string
		status       string
		responseType *string
		outcome      *string
		debt         string
	)

	err := row.Scan(
		&d.ID, &d.UserID, &d.NegativeItemID, &target, &letterType, &d.LetterContent, &status,
		&d.MailedAt, &d.TrackingNumber, &d.ResponseDueDate, &d.ResponseReceivedAt,
		&responseType, &d.ResponseNotes, &outcome, &d.OutcomeAt, &debt,
		&d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Target = domain.Target(target)
	d.LetterType = domain.LetterType(letterType)
	d.Status = domain.DisputeStatus(status)
	if responseType != nil {
		rt := domain.ResponseType(*responseType)
		d.ResponseType = &rt
	}
	if outcome != nil {
		o := domain.Outcome(*outcome)
		d.Outcome = &o
	}
	if d.DebtEliminated, err = decimal.NewFromString(debt); err != nil {
		return nil, fmt.Errorf("parse debt_eliminated %q: %w", debt, err)
	}
	if d.ResponseDueDate != nil {
		due := d.ResponseDueDate.UTC()
		d.ResponseDueDate = &due
	}

	return &d, nil
}

func statusStrings(statuses []domain.DisputeStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func orderBy(sortBy, order string) string {
	if order != domain.SortOrderASC {
		order = domain.SortOrderDESC
	}
	switch sortBy {
	case domain.DisputeSortUpdatedAt:
		return "updated_at " + order
	case domain.DisputeSortDueDate:
		return "response_due_date " + order + " NULLS LAST"
	default:
		return "created_at " + order
	}
}
