package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeSaving     TransactionType = "saving"
	TransactionTypeInvestment TransactionType = "investment"
)

// Inflow reports whether the type adds money to an account.
// Income is the only inflow; saving and investment move money out of
// the account just like an expense does.
func (t TransactionType) Inflow() bool {
	return t == TransactionTypeIncome
}

// Valid reports whether the type is one of the supported values.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeSaving, TransactionTypeInvestment:
		return true
	}
	return false
}

// Transaction represents a financial transaction. It is the single source
// of truth for every derived figure in the system: account balances are
// the signed sum of their transactions, and period summaries and budget
// spent figures are recomputed from transactions on every read.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	PeriodID    string          `gorm:"type:uuid;not null;index" json:"period_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Period   Period    `gorm:"foreignKey:PeriodID" json:"period"`
}

// OwnerID implements Owned.
func (t Transaction) OwnerID() string { return t.UserID }

// SignedAmount is the transaction's effect on its account balance:
// positive for inflows, negative for outflows. Amount itself is always
// stored positive.
func (t Transaction) SignedAmount() int64 {
	if t.Type.Inflow() {
		return t.Amount
	}
	return -t.Amount
}
