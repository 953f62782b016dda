package dto

import (
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// The account code is always system-assigned and cannot be supplied.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,accounttype"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	Description     string             `json:"description" binding:"max=1000"`
	IsActive        *bool              `json:"isActive"` // Defaults to true
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// ParentAccountID pointing at an empty string detaches the account to a root.
type UpdateAccountRequest struct {
	Name            *string             `json:"name" binding:"omitempty,max=255"`
	AccountType     *domain.AccountType `json:"accountType" binding:"omitempty,accounttype"`
	ParentAccountID *string             `json:"parentAccountID"`
	OpeningBalance  *decimal.Decimal    `json:"openingBalance"`
	Description     *string             `json:"description" binding:"omitempty,max=1000"`
	IsActive        *bool               `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	FullName        string             `json:"fullName"`
	AccountType     domain.AccountType `json:"accountType"`
	TypeLabel       string             `json:"typeLabel"`
	ParentAccountID string             `json:"parentAccountID"` // Empty string if root
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	Description     string             `json:"description"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		FullName:        acc.FullName(),
		AccountType:     acc.AccountType,
		TypeLabel:       acc.AccountType.Label(),
		ParentAccountID: acc.ParentAccountID,
		OpeningBalance:  acc.OpeningBalance,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
// ParentID accepts an account id, or "null"/"" to select root accounts only.
type ListAccountsParams struct {
	Type     string  `form:"type" binding:"omitempty,accounttype"`
	IsActive *bool   `form:"is_active"`
	ParentID *string `form:"parent_id"`
	Search   string  `form:"search"`
	Limit    int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset   int     `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
