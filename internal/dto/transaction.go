package dto

import (
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for transaction dates.
const DateLayout = "2006-01-02"

// CreateTransactionRequest defines the data needed to post a transaction.
// Exactly one of Debit/Credit must be strictly positive; the cross-field
// check lives in the core validator, not in binding tags.
type CreateTransactionRequest struct {
	AccountID       string          `json:"accountID" binding:"required,uuid"`
	TransactionDate string          `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Description     string          `json:"description" binding:"required,max=500"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Notes           string          `json:"notes" binding:"max=1000"`
}

// UpdateTransactionRequest defines the data allowed for updating a posting.
type UpdateTransactionRequest struct {
	AccountID       *string          `json:"accountID" binding:"omitempty,uuid"`
	TransactionDate *string          `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
	Description     *string          `json:"description" binding:"omitempty,max=500"`
	Debit           *decimal.Decimal `json:"debit"`
	Credit          *decimal.Decimal `json:"credit"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
}

// TransactionResponse defines the data returned for a posting.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	TransactionDate string                 `json:"transactionDate"`
	Description     string                 `json:"description"`
	Debit           decimal.Decimal        `json:"debit"`
	Credit          decimal.Decimal        `json:"credit"`
	Amount          decimal.Decimal        `json:"amount"`
	TransactionType domain.TransactionType `json:"transactionType"`
	Notes           string                 `json:"notes"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		TransactionDate: txn.TransactionDate.Format(DateLayout),
		Description:     txn.Description,
		Debit:           txn.Debit,
		Credit:          txn.Credit,
		Amount:          txn.Amount(),
		TransactionType: txn.Type(),
		Notes:           txn.Notes,
		CreatedAt:       txn.CreatedAt,
		LastUpdatedAt:   txn.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of postings to response DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing postings.
type ListTransactionsParams struct {
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Type      string `form:"type" binding:"omitempty,oneof=debit credit"`
	Search    string `form:"search"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset    int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListTransactionsResponse wraps the list of postings.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// TransactionReportFilters echoes the filter values a report was built from.
type TransactionReportFilters struct {
	AccountID string `json:"accountID,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Type      string `json:"type,omitempty"`
	Search    string `json:"search,omitempty"`
}

// TransactionReportResponse combines the filtered postings, their aggregate
// stats and the filters that produced them into a single payload.
type TransactionReportResponse struct {
	Transactions []TransactionResponse    `json:"transactions"`
	Stats        domain.TransactionStats  `json:"stats"`
	Filters      TransactionReportFilters `json:"filters"`
	GeneratedAt  time.Time                `json:"generatedAt"`
}

// ToTransactionReportResponse converts a domain report and the request
// parameters it answered into the response DTO.
func ToTransactionReportResponse(report *domain.TransactionReport, params ListTransactionsParams) TransactionReportResponse {
	return TransactionReportResponse{
		Transactions: ToListTransactionResponse(report.Transactions),
		Stats:        report.Stats,
		Filters: TransactionReportFilters{
			AccountID: params.AccountID,
			StartDate: params.StartDate,
			EndDate:   params.EndDate,
			Type:      params.Type,
			Search:    params.Search,
		},
		GeneratedAt: report.GeneratedAt,
	}
}
