package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// transactionService orchestrates the transaction lifecycle. Each of
// Create, Update, and Delete is a single database transaction: the row
// write, the balance increments, and the period bucket resolution commit
// together or not at all.
type transactionService struct {
	db            *gorm.DB
	periodService PeriodServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, periodService PeriodServicer) TransactionServicer {
	return &transactionService{
		db:            db,
		periodService: periodService,
	}
}

// CreateTransaction creates a new transaction for a user's account and
// applies its effect to the account balance.
func (s *transactionService) CreateTransaction(
	userID string,
	accountID string,
	categoryID *string,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !transactionType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	// Default date to now if not provided
	if date.IsZero() {
		date = time.Now()
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := firstOwned[models.Account](tx, userID, accountID, apperrors.ErrAccountNotFound); err != nil {
			return err
		}
		if categoryID != nil {
			if _, err := firstOwned[models.Category](tx, userID, *categoryID, apperrors.ErrCategoryNotFound); err != nil {
				return err
			}
		}

		period, err := s.periodService.ResolvePeriod(tx, userID, date)
		if err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:      userID,
			AccountID:   accountID,
			CategoryID:  categoryID,
			PeriodID:    period.ID,
			Type:        transactionType,
			Amount:      amount,
			Description: description,
			Date:        date,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := applyBalanceDelta(tx, accountID, transaction.SignedAmount()); err != nil {
			return err
		}

		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTransaction applies a partial update to a transaction.
//
// The balance work is reverse-then-reapply: first negate the original
// transaction's effect on its original account, then merge the new fields
// and apply the merged transaction's effect to its (possibly different)
// account. One code path handles every combination of changed amount,
// flipped type, and moved account, at the cost of two increments instead
// of one. Both increments run in the same database transaction, so no
// intermediate state is ever visible.
func (s *transactionService) UpdateTransaction(
	userID string,
	transactionID string,
	fields TransactionUpdateFields,
) (*models.Transaction, error) {
	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != nil && !fields.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := firstOwned[models.Transaction](tx, userID, transactionID, apperrors.ErrTransactionNotFound)
		if err != nil {
			return err
		}

		// Reverse the original effect on the original account.
		if err := reverseBalanceDelta(tx, transaction.AccountID, transaction.SignedAmount()); err != nil {
			return err
		}

		// Merge the new fields over the old.
		if fields.AccountID != nil && *fields.AccountID != transaction.AccountID {
			if _, err := firstOwned[models.Account](tx, userID, *fields.AccountID, apperrors.ErrAccountNotFound); err != nil {
				return err
			}
			transaction.AccountID = *fields.AccountID
		}
		if fields.CategoryID != nil {
			if *fields.CategoryID == nil {
				transaction.CategoryID = nil
			} else {
				if _, err := firstOwned[models.Category](tx, userID, **fields.CategoryID, apperrors.ErrCategoryNotFound); err != nil {
					return err
				}
				transaction.CategoryID = *fields.CategoryID
			}
		}
		if fields.Type != nil {
			transaction.Type = *fields.Type
		}
		if fields.Amount != nil {
			transaction.Amount = *fields.Amount
		}
		if fields.Description != nil {
			transaction.Description = *fields.Description
		}
		if fields.Date != nil {
			oldYear, oldMonth := transaction.Date.Year(), transaction.Date.Month()
			transaction.Date = *fields.Date
			// Re-bucket only when the calendar month actually changed.
			if transaction.Date.Year() != oldYear || transaction.Date.Month() != oldMonth {
				period, err := s.periodService.ResolvePeriod(tx, userID, transaction.Date)
				if err != nil {
					return err
				}
				transaction.PeriodID = period.ID
			}
		}

		// Apply the merged effect to the resulting account.
		if err := applyBalanceDelta(tx, transaction.AccountID, transaction.SignedAmount()); err != nil {
			return err
		}

		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTransaction deletes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := firstOwned[models.Transaction](tx, userID, transactionID, apperrors.ErrTransactionNotFound)
		if err != nil {
			return err
		}

		if err := reverseBalanceDelta(tx, transaction.AccountID, transaction.SignedAmount()); err != nil {
			return err
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return firstOwned[models.Transaction](s.db, userID, transactionID, apperrors.ErrTransactionNotFound)
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions for one account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := firstOwned[models.Account](s.db, userID, accountID, apperrors.ErrAccountNotFound); err != nil {
		return nil, err
	}

	acctID := accountID
	filter.AccountID = &acctID
	return s.GetUserTransactions(userID, page, filter)
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}
