package models

// AccountKind represents the kind of account
type AccountKind string

const (
	AccountKindBank          AccountKind = "bank"
	AccountKindDigitalWallet AccountKind = "digital_wallet"
	AccountKindCash          AccountKind = "cash"
	AccountKindCreditCard    AccountKind = "credit_card"
)

// Account represents a financial account in the system.
//
// Balance is maintained exclusively by the ledger: it is set once at
// creation and thereafter only moved by relative increments inside the
// same database transaction as the transaction row that justifies them.
// No other code path writes this column.
type Account struct {
	Base
	UserID      string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	Kind        AccountKind `gorm:"not null" json:"kind"`
	Description string      `json:"description"`
	Balance     int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency    string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// OwnerID implements Owned.
func (a Account) OwnerID() string { return a.UserID }
