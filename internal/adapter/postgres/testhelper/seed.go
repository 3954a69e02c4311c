package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user profile row.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:          uuid.New(),
		Email:       "testuser-" + suffix + "@example.com",
		DisplayName: "Test User " + suffix,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, display_name, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.DisplayName, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedReport creates a credit report for the user.
func SeedReport(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Report {
	t.Helper()

	rep := domain.Report{
		ID:         uuid.New(),
		UserID:     userID,
		FileName:   "report-" + uniqueSuffix() + ".pdf",
		UploadedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO credit_reports (id, user_id, file_name, uploaded_at) VALUES ($1, $2, $3, $4)`,
		rep.ID, rep.UserID, rep.FileName, rep.UploadedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReport: %v", err)
	}

	return rep
}

// ItemOption customises a seeded negative item.
type ItemOption func(*domain.NegativeItem)

// WithReport attaches the item to a report.
func WithReport(reportID uuid.UUID) ItemOption {
	return func(it *domain.NegativeItem) { it.ReportID = &reportID }
}

// WithBureaus sets the bureau presence flags.
func WithBureaus(equifax, experian, transunion bool) ItemOption {
	return func(it *domain.NegativeItem) {
		it.OnEquifax, it.OnExperian, it.OnTransunion = equifax, experian, transunion
	}
}

// WithAccountType sets the account type.
func WithAccountType(at domain.AccountType) ItemOption {
	return func(it *domain.NegativeItem) { it.AccountType = at }
}

// SeedItem creates a collection item reported by all three bureaus unless
// options say otherwise.
func SeedItem(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, opts ...ItemOption) domain.NegativeItem {
	t.Helper()

	balance := decimal.RequireFromString("1250.00")
	it := domain.NegativeItem{
		ID:            uuid.New(),
		UserID:        userID,
		CreditorName:  "Creditor " + uniqueSuffix(),
		AccountType:   domain.AccountTypeCollection,
		Balance:       &balance,
		AccountStatus: "Open collection",
		OnEquifax:     true,
		OnExperian:    true,
		OnTransunion:  true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, opt := range opts {
		opt(&it)
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO negative_items (id, user_id, report_id, creditor_name, account_type, balance,
		                             account_status, on_equifax, on_experian, on_transunion, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7, $8, $9, $10, $11)`,
		it.ID, it.UserID, it.ReportID, it.CreditorName, string(it.AccountType), it.Balance.String(),
		it.AccountStatus, it.OnEquifax, it.OnExperian, it.OnTransunion, it.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedItem: %v", err)
	}

	return it
}

// SeedDraft creates a DRAFT dispute for the item.
func SeedDraft(t *testing.T, pool *pgxpool.Pool, item domain.NegativeItem, target domain.Target, letterType domain.LetterType) domain.Dispute {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	d := domain.Dispute{
		ID:             uuid.New(),
		UserID:         item.UserID,
		NegativeItemID: item.ID,
		Target:         target,
		LetterType:     letterType,
		LetterContent:  "Dear " + string(target),
		Status:         domain.DisputeStatusDraft,
		DebtEliminated: decimal.Zero,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO disputes (id, user_id, negative_item_id, target, letter_type, letter_content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		d.ID, d.UserID, d.NegativeItemID, string(d.Target), string(d.LetterType), d.LetterContent, d.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDraft: %v", err)
	}

	return d
}
