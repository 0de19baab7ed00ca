package models

// Budget represents a spending target for a category within one period.
// The amount actually spent is never stored here; it is recomputed from
// transactions at read time.
type Budget struct {
	Base
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null" json:"category_id"`
	PeriodID   string `gorm:"type:uuid;not null;index" json:"period_id"`
	Name       string `gorm:"not null" json:"name"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
	Period   Period   `gorm:"foreignKey:PeriodID" json:"period"`
}

// OwnerID implements Owned.
func (b Budget) OwnerID() string { return b.UserID }
