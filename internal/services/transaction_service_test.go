package services

import (
	"testing"
	"time"

	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
	"budgeteer/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected generated transaction ID")
		}
		if tx.Amount != 5000 {
			t.Errorf("expected amount 5000, got %d", tx.Amount)
		}
		if tx.PeriodID == "" {
			t.Error("expected transaction to be assigned a period")
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", updated.Balance)
		}
	})

	t.Run("saving_and_investment_are_outflows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeSaving, 2000, "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeInvestment, 3000, "", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 0, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, -100, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionType("transfer"), 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("missing_account_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := txSvc.CreateTransaction(user.ID, "", nil, models.TransactionTypeIncome, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := txSvc.CreateTransaction(user.ID, "00000000-0000-0000-0000-000000000000", nil, models.TransactionTypeIncome, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)

		_, err := txSvc.CreateTransaction(user2.ID, account.ID, nil, models.TransactionTypeIncome, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		// The failed attempt must not have moved the owner's balance.
		owned, err := acctSvc.GetAccountByID(user1.ID, account.ID)
		testutil.AssertNoError(t, err)
		if owned.Balance != 10000 {
			t.Errorf("expected untouched balance 10000, got %d", owned.Balance)
		}
	})

	t.Run("with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1500, "Groceries", time.Now())
		testutil.AssertNoError(t, err)
		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Error("expected transaction to carry the category")
		}
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user2.ID)
		category := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryKindExpense)

		_, err := txSvc.CreateTransaction(user2.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1500, "", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("assigns_calendar_month_bucket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		date := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "", date)
		testutil.AssertNoError(t, err)

		period, err := periodSvc.FindPeriod(user.ID, 2025, 3)
		testutil.AssertNoError(t, err)
		if tx.PeriodID != period.ID {
			t.Errorf("expected transaction in period %s, got %s", period.ID, tx.PeriodID)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_change_adjusts_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(5000)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("type_flip_reverses_sign", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "", time.Now())
		testutil.AssertNoError(t, err)

		income := models.TransactionTypeIncome
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Type: &income})
		testutil.AssertNoError(t, err)

		// 10000 - 3000, reversed, then + 3000.
		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 13000 {
			t.Errorf("expected balance 13000, got %d", updated.Balance)
		}
	})

	t.Run("account_move_shifts_both_balances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		source := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		target := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, source.ID, nil, models.TransactionTypeExpense, 4000, "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{AccountID: &target.ID})
		testutil.AssertNoError(t, err)

		sourceAfter, err := acctSvc.GetAccountByID(user.ID, source.ID)
		testutil.AssertNoError(t, err)
		if sourceAfter.Balance != 10000 {
			t.Errorf("expected source restored to 10000, got %d", sourceAfter.Balance)
		}
		targetAfter, err := acctSvc.GetAccountByID(user.ID, target.ID)
		testutil.AssertNoError(t, err)
		if targetAfter.Balance != 6000 {
			t.Errorf("expected target at 6000, got %d", targetAfter.Balance)
		}
	})

	t.Run("month_move_rebuckets_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "", march)
		testutil.AssertNoError(t, err)
		originalPeriod := tx.PeriodID

		april := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Date: &april})
		testutil.AssertNoError(t, err)

		if updated.PeriodID == originalPeriod {
			t.Error("expected transaction to move to the April bucket")
		}
		aprilPeriod, err := periodSvc.FindPeriod(user.ID, 2025, 4)
		testutil.AssertNoError(t, err)
		if updated.PeriodID != aprilPeriod.ID {
			t.Errorf("expected period %s, got %s", aprilPeriod.ID, updated.PeriodID)
		}
	})

	t.Run("same_month_date_change_keeps_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "",
			time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		later := time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Date: &later})
		testutil.AssertNoError(t, err)
		if updated.PeriodID != tx.PeriodID {
			t.Error("expected period to stay the same within one month")
		}
	})

	t.Run("clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1000, "", time.Now())
		testutil.AssertNoError(t, err)

		var cleared *string
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{CategoryID: &cleared})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Error("expected category to be cleared")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)

		amount := int64(100)
		_, err := txSvc.UpdateTransaction(user.ID, "00000000-0000-0000-0000-000000000000", TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		tx, err := txSvc.CreateTransaction(user1.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "", time.Now())
		testutil.AssertNoError(t, err)

		amount := int64(2000)
		_, err = txSvc.UpdateTransaction(user2.ID, tx.ID, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "", time.Now())
		testutil.AssertNoError(t, err)

		zero := int64(0)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &zero})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("restores_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 10000 {
			t.Errorf("expected balance restored to 10000, got %d", updated.Balance)
		}

		_, err = txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)

		err := txSvc.DeleteTransaction(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		periodSvc := NewPeriodService(db)
		acctSvc := NewAccountService(db, periodSvc)
		txSvc := NewTransactionService(db, periodSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)

		tx, err := txSvc.CreateTransaction(user1.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "", time.Now())
		testutil.AssertNoError(t, err)

		err = txSvc.DeleteTransaction(user2.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		// Balance stays at the post-create value.
		owned, err := acctSvc.GetAccountByID(user1.ID, account.ID)
		testutil.AssertNoError(t, err)
		if owned.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", owned.Balance)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type_and_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 5000, "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1000, "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 4000, "", time.Now())
		testutil.AssertNoError(t, err)

		expense := models.TransactionTypeExpense
		minAmount := int64(2000)
		result, err := txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{
			Type:      &expense,
			MinAmount: &minAmount,
		})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 matching transaction, got %d", result.TotalItems)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account1 := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := txSvc.CreateTransaction(user1.ID, account1.ID, nil, models.TransactionTypeIncome, 5000, "", time.Now())
		testutil.AssertNoError(t, err)

		result, err := txSvc.GetUserTransactions(user2.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no transactions for other user, got %d", result.TotalItems)
		}
	})

	t.Run("account_listing_checks_ownership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewPeriodService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := txSvc.GetAccountTransactions(user2.ID, account.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
