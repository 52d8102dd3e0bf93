package services

import (
	"time"

	"github.com/shopspring/decimal"

	"finaide/internal/models"
	"finaide/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// BudgetUpdate holds optional fields for a partial budget update.
// Nil fields are left unchanged.
type BudgetUpdate struct {
	Name        *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Interval    *models.TimeInterval
	Income      *decimal.Decimal
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, name string, description *string, startTime, endTime time.Time, interval models.TimeInterval, income decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// CategoryServicer defines the contract for budget category reference data.
type CategoryServicer interface {
	ListCategories(search string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error)
	GetCategoryByID(categoryID uint) (*models.BudgetCategory, error)
}

// AllocationInput describes one desired allocation in a bulk replace. A nil
// ID marks a new allocation; a non-nil ID updates the existing row in place.
type AllocationInput struct {
	ID           *uint
	CategoryID   uint
	Amount       decimal.Decimal
	IsPercentage bool
}

// AllocationServicer defines the contract for budget category allocations.
type AllocationServicer interface {
	CreateAllocation(userID, budgetID, categoryID uint, amount decimal.Decimal, isPercentage bool) (*models.BudgetCategoryAllocation, error)
	GetUserAllocations(userID uint, budgetID, categoryID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategoryAllocation], error)
	GetAllocationByID(userID, allocationID uint) (*models.BudgetCategoryAllocation, error)
	UpdateAllocation(userID, allocationID uint, categoryID *uint, amount *decimal.Decimal, isPercentage *bool) (*models.BudgetCategoryAllocation, error)
	DeleteAllocation(userID, allocationID uint) error
	BulkReplaceAllocations(userID, budgetID uint, inputs []AllocationInput) ([]models.BudgetCategoryAllocation, error)
}

// ExpenseFilter holds optional filter parameters for expense queries.
// Search matches name or description case-insensitively.
type ExpenseFilter struct {
	From        *time.Time
	To          *time.Time
	CategoryIDs []uint
	Search      string
}

// ExpenseUpdate holds optional fields for a partial expense update.
// Nil fields are left unchanged.
type ExpenseUpdate struct {
	Name        *string
	Timestamp   *time.Time
	Description *string
	CategoryID  *uint
	Amount      *decimal.Decimal
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID uint, name *string, timestamp time.Time, description *string, categoryID *uint, amount decimal.Decimal) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
}

// CategorySpending is one row of the by-category spending ranking.
type CategorySpending struct {
	CategoryID  uint            `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ReportServicer defines the contract for spending reports and CSV exports.
type ReportServicer interface {
	SpendingByCategory(userID uint, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[CategorySpending], error)
	PlannedVsActualCSV(userID, budgetID uint) ([]byte, error)
	ExpensesCSV(userID uint, filter ExpenseFilter) ([]byte, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
