package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// periodService resolves calendar dates to monthly period buckets.
type periodService struct {
	db *gorm.DB
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB) PeriodServicer {
	return &periodService{db: db}
}

// ResolvePeriod finds or creates the (user, year, month) bucket for the
// given date. The insert is a single ON CONFLICT DO NOTHING upsert against
// the unique (user_id, year, month) index, so concurrent callers resolving
// the same month converge on one row instead of racing a check-then-insert.
// It runs on the caller's tx and participates in the caller's atomic unit.
func (s *periodService) ResolvePeriod(tx *gorm.DB, userID string, date time.Time) (*models.Period, error) {
	year, month := date.Year(), int(date.Month())

	insert := &models.Period{UserID: userID, Year: year, Month: month}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoNothing: true,
	}).Create(insert).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// When the insert was skipped the generated ID on insert is not the
	// winning row's; fetch the bucket either way.
	var period models.Period
	if err := tx.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// FindPeriod returns the existing bucket for (user, year, month), or
// ErrPeriodNotFound when no transaction or budget has touched that month.
func (s *periodService) FindPeriod(userID string, year, month int) (*models.Period, error) {
	var period models.Period
	if err := s.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}
