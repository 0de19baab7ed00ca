package services

import (
	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// The ledger is the only code in the repository that writes the
// accounts.balance column. The invariant it maintains:
//
//	balance == SUM(signed amount) over the account's live transactions
//
// Increments are expressed as relative SQL updates (balance = balance + ?)
// rather than read-modify-write, so concurrent increments against the same
// account serialize at the row and cannot lose updates. Both functions run
// inside the caller's database transaction and never commit on their own;
// any later failure in the enclosing unit rolls the increment back.

// applyBalanceDelta moves an account's balance by the given signed amount.
// Returns ErrAccountNotFound when no live account row matches.
func applyBalanceDelta(tx *gorm.DB, accountID string, delta int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// reverseBalanceDelta undoes a previously applied signed amount.
func reverseBalanceDelta(tx *gorm.DB, accountID string, delta int64) error {
	return applyBalanceDelta(tx, accountID, -delta)
}
