package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountNode is one node of the reconstructed account tree.
// Level is the depth from the nearest root (root = 0). Derived flags are
// computed from Children in the same pass that builds the tree, so they are
// always consistent with the structural invariants.
type AccountNode struct {
	AccountID               string          `json:"accountID"`
	Code                    string          `json:"code"`
	Name                    string          `json:"name"`
	AccountType             AccountType     `json:"accountType"`
	TypeLabel               string          `json:"typeLabel"`
	ParentAccountID         string          `json:"parentAccountID"`
	OpeningBalance          decimal.Decimal `json:"openingBalance"`
	Description             string          `json:"description"`
	IsActive                bool            `json:"isActive"`
	Level                   int             `json:"level"`
	IsLeafAccount           bool            `json:"isLeafAccount"`
	IsParentAccount         bool            `json:"isParentAccount"`
	CanBeUsedInTransactions bool            `json:"canBeUsedInTransactions"`
	HasChildren             bool            `json:"hasChildren"`
	ChildrenCount           int             `json:"childrenCount"`
	Children                []AccountNode   `json:"children"`
	CreatedAt               time.Time       `json:"createdAt"`
	LastUpdatedAt           time.Time       `json:"lastUpdatedAt"`
}
