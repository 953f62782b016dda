package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account type for DB storage.
type AccountType string

// Account represents an account row as stored in the database.
// ParentAccountID uses string for the nullable self-referencing foreign key;
// repositories handle NULL conversion when scanning.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	OpeningBalance  decimal.Decimal `db:"opening_balance"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Nullable soft-delete marker
}
