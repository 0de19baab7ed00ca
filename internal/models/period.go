package models

// Period is the (user, year, month) bucket under which transactions and
// budgets for a calendar month are grouped. It is a grouping key only:
// it holds no totals, so there is nothing on it that can drift out of
// sync with the transactions it groups. Rows are created lazily by the
// first transaction or budget touching the month.
//
// The composite unique index backs the find-or-create upsert; concurrent
// resolution of the same month lands on the same row.
type Period struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_periods_user_year_month" json:"user_id"`
	Year   int    `gorm:"not null;uniqueIndex:idx_periods_user_year_month" json:"year"`
	Month  int    `gorm:"not null;uniqueIndex:idx_periods_user_year_month" json:"month"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:PeriodID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:PeriodID" json:"budgets,omitempty"`
}

// OwnerID implements Owned.
func (p Period) OwnerID() string { return p.UserID }
