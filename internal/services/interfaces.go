package services

import (
	"time"

	"gorm.io/gorm"

	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountUpdateFields holds optional fields for updating an account.
// Balance is deliberately absent: it is caller-settable only at creation
// and moved only by the ledger afterwards.
type AccountUpdateFields struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, kind models.AccountKind, description, currency string, initialBalance int64) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, kind models.CategoryKind, description, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByKind(userID string, kind models.CategoryKind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name string, kind *models.CategoryKind, description, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// PeriodServicer resolves dates to monthly period buckets.
type PeriodServicer interface {
	ResolvePeriod(tx *gorm.DB, userID string, date time.Time) (*models.Period, error)
	FindPeriod(userID string, year, month int) (*models.Period, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	MinAmount  *int64
	MaxAmount  *int64
}

// TransactionUpdateFields holds the optional fields of a transaction update.
// A nil field is left unchanged. CategoryID is a double pointer: nil means
// keep, pointer-to-nil clears the category, pointer-to-pointer sets it.
type TransactionUpdateFields struct {
	AccountID   *string
	CategoryID  **string
	Type        *models.TransactionType
	Amount      *int64
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for the transaction lifecycle.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// BudgetProgress contains spending vs budget data for a budget's period.
type BudgetProgress struct {
	BudgetID   string  `json:"budget_id"`
	Budgeted   int64   `json:"budgeted"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID, name string, amount int64, year, month int) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, year, month *int) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name string, amount *int64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// CategorySummary is one per-category line of a period summary.
type CategorySummary struct {
	CategoryID string              `json:"category_id"`
	Name       string              `json:"name"`
	Kind       models.CategoryKind `json:"kind"`
	Budgeted   int64               `json:"budgeted"`
	Spent      int64               `json:"spent"`
	Remaining  int64               `json:"remaining"`
}

// PeriodSummary is the read-side projection of one calendar month.
type PeriodSummary struct {
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	TotalIncome   int64             `json:"total_income"`
	TotalExpenses int64             `json:"total_expenses"`
	Balance       int64             `json:"balance"`
	Categories    []CategorySummary `json:"categories"`
}

// SummaryServicer computes period summaries from source transactions.
type SummaryServicer interface {
	SummarizePeriod(userID string, year, month int) (*PeriodSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
