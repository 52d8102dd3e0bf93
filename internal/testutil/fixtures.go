package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finaide/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a monthly budget spanning 30 days with a 3000.00
// income, so its interval multiplier is exactly 1.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint) *models.Budget {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return CreateTestBudgetWithSpan(t, db, userID, start, start.AddDate(0, 0, 30),
		models.TimeIntervalMonthly, decimal.NewFromInt(3000))
}

// CreateTestBudgetWithSpan creates a budget with the given span, interval, and income.
func CreateTestBudgetWithSpan(
	t *testing.T,
	db *gorm.DB,
	userID uint,
	start, end time.Time,
	interval models.TimeInterval,
	income decimal.Decimal,
) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		StartTime: start,
		EndTime:   end,
		Interval:  interval,
		Income:    income,
		UserID:    userID,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a budget category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.BudgetCategory {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a budget category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestAllocation creates a fixed-amount allocation linking the budget and category.
func CreateTestAllocation(t *testing.T, db *gorm.DB, budgetID, categoryID uint, amount decimal.Decimal) *models.BudgetCategoryAllocation {
	t.Helper()

	allocation := &models.BudgetCategoryAllocation{
		BudgetID:     budgetID,
		CategoryID:   categoryID,
		Amount:       amount,
		IsPercentage: false,
	}
	if err := db.Create(allocation).Error; err != nil {
		t.Fatalf("failed to create test allocation: %v", err)
	}
	return allocation
}

// CreateTestExpense creates an expense with the given category and amount.
// Pass a nil categoryID for an uncategorized expense.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount decimal.Decimal) *models.Expense {
	t.Helper()

	name := fmt.Sprintf("Test Expense %d", nextID())
	expense := &models.Expense{
		Name:       &name,
		Timestamp:  time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
