package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db            *gorm.DB
	periodService PeriodServicer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, periodService PeriodServicer) AccountServicer {
	return &accountService{db: db, periodService: periodService}
}

// CreateAccount creates a new account for a user. A non-zero initial
// balance is recorded as a seed transaction in the same database
// transaction, so the balance invariant holds from the first row: the
// stored balance is always the signed sum of the account's transactions.
func (s *accountService) CreateAccount(
	userID, name string,
	kind models.AccountKind,
	description, currency string,
	initialBalance int64,
) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	switch kind {
	case models.AccountKindBank, models.AccountKindDigitalWallet, models.AccountKindCash, models.AccountKindCreditCard:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported account kind")
	}
	if currency == "" {
		currency = "USD" // Default currency
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Kind:        kind,
		Description: description,
		Balance:     initialBalance,
		Currency:    currency,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialBalance != 0 {
			now := time.Now()
			period, err := s.periodService.ResolvePeriod(tx, userID, now)
			if err != nil {
				return err
			}

			seed := &models.Transaction{
				UserID:      userID,
				AccountID:   account.ID,
				PeriodID:    period.ID,
				Type:        models.TransactionTypeIncome,
				Amount:      initialBalance,
				Description: "Initial balance",
				Date:        now,
			}
			if initialBalance < 0 {
				// Opening debt, e.g. a carried credit card balance.
				seed.Type = models.TransactionTypeExpense
				seed.Amount = -initialBalance
			}
			if err := tx.Create(seed).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ? AND is_active = ?", userID, true)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	return firstOwned[models.Account](s.db, userID, accountID, apperrors.ErrAccountNotFound)
}

// UpdateAccount updates an existing account's descriptive fields.
// The balance is not updatable here: it moves only through the ledger.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount soft-deletes an account together with its transactions.
// Both go in one database transaction; a summary read either sees the
// account with all its transactions or neither.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := firstOwned[models.Account](tx, userID, accountID, apperrors.ErrAccountNotFound)
		if err != nil {
			return err
		}

		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
