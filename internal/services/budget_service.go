package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db            *gorm.DB
	periodService PeriodServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, periodService PeriodServicer) BudgetServicer {
	return &budgetService{db: db, periodService: periodService}
}

// CreateBudget creates a new budget for a category in the given month.
// Budget names are unique within one (user, period); the in-transaction
// count is backed by a unique index for concurrent creators.
func (s *budgetService) CreateBudget(
	userID, categoryID, name string,
	amount int64,
	year, month int,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var budget *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := firstOwned[models.Category](tx, userID, categoryID, apperrors.ErrCategoryNotFound); err != nil {
			return err
		}

		period, err := s.periodService.ResolvePeriod(tx, userID,
			time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND period_id = ? AND name = ?", userID, period.ID, name).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateBudget
		}

		budget = &models.Budget{
			UserID:     userID,
			CategoryID: categoryID,
			PeriodID:   period.ID,
			Name:       name,
			Amount:     amount,
		}
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets for the user,
// optionally narrowed to one (year, month).
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	year, month *int,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if year != nil && month != nil {
		period, err := s.periodService.FindPeriod(userID, *year, *month)
		if err != nil {
			if errors.Is(err, apperrors.ErrPeriodNotFound) {
				// Nothing has touched that month yet: empty page, not an error.
				result := pagination.NewPageResponse([]models.Budget{}, page.Page, page.PageSize, 0)
				return &result, nil
			}
			return nil, err
		}
		base = base.Where("period_id = ?", period.ID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Preload("Period").
		Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Preload("Period").
		Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's name or target amount.
// The budget's category and period are fixed at creation.
func (s *budgetService) UpdateBudget(userID, budgetID, name string, amount *int64) (*models.Budget, error) {
	if amount != nil && *amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" && name != budget.Name {
		var count int64
		if err := s.db.Model(&models.Budget{}).
			Where("user_id = ? AND period_id = ? AND name = ? AND id <> ?", userID, budget.PeriodID, name, budget.ID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateBudget
		}
		updates["name"] = name
	}
	if amount != nil {
		updates["amount"] = *amount
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget. Transactions are untouched: a budget
// is a target, not a book of record.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress calculates spending vs budget for the budget's period.
// Spent is recomputed from expense transactions on every call; there is no
// stored counter to drift.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var spent int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND period_id = ? AND type = ?",
			userID, budget.CategoryID, budget.PeriodID, models.TransactionTypeExpense).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	remaining := budget.Amount - spent
	var percentage float64
	if budget.Amount > 0 {
		percentage = float64(spent) / float64(budget.Amount) * 100
	}

	return &BudgetProgress{
		BudgetID:   budget.ID,
		Budgeted:   budget.Amount,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: percentage,
	}, nil
}
