package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a posting row as stored in the database.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	Description     string          `db:"description"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	Notes           string          `db:"notes"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
