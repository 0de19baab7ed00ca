package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// summaryService computes read-side period projections. It never writes:
// totals and per-category spent figures are recomputed from the source
// transactions on each call, so there is no stored aggregate that could
// drift out of sync with them.
type summaryService struct {
	db            *gorm.DB
	periodService PeriodServicer
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, periodService PeriodServicer) SummaryServicer {
	return &summaryService{db: db, periodService: periodService}
}

// SummarizePeriod aggregates one calendar month for a user: headline
// income/expense totals plus budgeted vs spent vs remaining for every
// category. A month with no transactions and no budgets yields zeros and
// an empty category entry, not an error.
func (s *summaryService) SummarizePeriod(userID string, year, month int) (*PeriodSummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// Headline totals by transaction type.
	type typeTotal struct {
		Type  models.TransactionType
		Total int64
	}
	var totals []typeTotal
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Group("type").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &PeriodSummary{
		Year:       year,
		Month:      month,
		Categories: []CategorySummary{},
	}
	for _, t := range totals {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += t.Total
		case models.TransactionTypeExpense:
			summary.TotalExpenses += t.Total
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpenses

	// Spent per category (expense transactions only).
	type categoryTotal struct {
		CategoryID string
		Total      int64
	}
	var spentRows []categoryTotal
	if err := s.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND category_id IS NOT NULL AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, from, to).
		Group("category_id").
		Scan(&spentRows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	spentByCategory := make(map[string]int64, len(spentRows))
	for _, row := range spentRows {
		spentByCategory[row.CategoryID] = row.Total
	}

	// Budgets for the month's bucket, when one exists.
	budgetedByCategory := make(map[string]int64)
	period, err := s.periodService.FindPeriod(userID, year, month)
	if err != nil && !errors.Is(err, apperrors.ErrPeriodNotFound) {
		return nil, err
	}
	if period != nil {
		var budgets []models.Budget
		if err := s.db.Where("user_id = ? AND period_id = ?", userID, period.ID).
			Find(&budgets).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, b := range budgets {
			budgetedByCategory[b.CategoryID] += b.Amount
		}
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, cat := range categories {
		budgeted := budgetedByCategory[cat.ID]
		spent := spentByCategory[cat.ID]
		summary.Categories = append(summary.Categories, CategorySummary{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Kind:       cat.Kind,
			Budgeted:   budgeted,
			Spent:      spent,
			Remaining:  budgeted - spent,
		})
	}

	return summary, nil
}
