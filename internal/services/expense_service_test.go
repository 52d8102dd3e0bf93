package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finaide/internal/pagination"
	"finaide/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	timestamp := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db)

		name := "Coffee"
		expense, err := svc.CreateExpense(user.ID, &name, timestamp, nil, &category.ID, decimal.NewFromFloat(4.50))
		testutil.AssertNoError(t, err)

		if expense.ID == 0 {
			t.Fatal("expected non-zero expense ID")
		}
		if expense.CategoryID == nil || *expense.CategoryID != category.ID {
			t.Errorf("expected category %d, got %v", category.ID, expense.CategoryID)
		}
	})

	t.Run("uncategorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, nil, timestamp, nil, nil, decimal.NewFromInt(10))
		testutil.AssertNoError(t, err)
		if expense.CategoryID != nil {
			t.Errorf("expected nil category, got %v", expense.CategoryID)
		}
	})

	t.Run("zero_timestamp", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, nil, time.Time{}, nil, nil, decimal.NewFromInt(10))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, nil, timestamp, nil, nil, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		bogus := uint(99999)
		_, err := svc.CreateExpense(user.ID, nil, timestamp, nil, &bogus, decimal.NewFromInt(10))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserExpenses(t *testing.T) {
	page := pagination.PageRequest{Page: 1, PageSize: 20}

	t.Run("ordered_most_recent_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		older := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))
		db.Model(older).Update("timestamp", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		newer := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(20))

		result, err := svc.GetUserExpenses(user.ID, page, ExpenseFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 expenses, got %d", result.TotalItems)
		}
		if result.Data[0].ID != newer.ID || result.Data[1].ID != older.ID {
			t.Errorf("expected most recent first, got %d then %d",
				result.Data[0].ID, result.Data[1].ID)
		}
	})

	t.Run("timestamp_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		// Fixture expenses land on 2024-01-15.
		inRange := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))
		outOfRange := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(20))
		db.Model(outOfRange).Update("timestamp", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		result, err := svc.GetUserExpenses(user.ID, page, ExpenseFilter{From: &from, To: &to})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 || result.Data[0].ID != inRange.ID {
			t.Errorf("expected only the in-range expense, got %d items", result.TotalItems)
		}
	})

	t.Run("category_in_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		catA := testutil.CreateTestCategory(t, db)
		catB := testutil.CreateTestCategory(t, db)
		catC := testutil.CreateTestCategory(t, db)

		testutil.CreateTestExpense(t, db, user.ID, &catA.ID, decimal.NewFromInt(10))
		testutil.CreateTestExpense(t, db, user.ID, &catB.ID, decimal.NewFromInt(20))
		testutil.CreateTestExpense(t, db, user.ID, &catC.ID, decimal.NewFromInt(30))
		testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(40))

		result, err := svc.GetUserExpenses(user.ID, page, ExpenseFilter{CategoryIDs: []uint{catA.ID, catC.ID}})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses in the category list, got %d", result.TotalItems)
		}
	})

	t.Run("search_name_and_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		name := "Grocery run"
		byName := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))
		db.Model(byName).Update("name", name)

		description := "weekly GROCERIES"
		byDescription := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(20))
		db.Model(byDescription).Update("description", description)

		testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(30))

		result, err := svc.GetUserExpenses(user.ID, page, ExpenseFilter{Search: "grocer"})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 matching expenses, got %d", result.TotalItems)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))
		testutil.CreateTestExpense(t, db, other.ID, nil, decimal.NewFromInt(20))

		result, err := svc.GetUserExpenses(user.ID, page, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected only the user's own expense, got %d", result.TotalItems)
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))

		amount := decimal.NewFromFloat(12.34)
		updated, err := svc.UpdateExpense(user.ID, expense.ID, ExpenseUpdate{
			Amount:     &amount,
			CategoryID: &category.ID,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, amount, updated.Amount)
		if updated.CategoryID == nil || *updated.CategoryID != category.ID {
			t.Errorf("expected category %d, got %v", category.ID, updated.CategoryID)
		}
	})

	t.Run("not_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, owner.ID, nil, decimal.NewFromInt(10))

		amount := decimal.NewFromInt(99)
		_, err := svc.UpdateExpense(intruder.ID, expense.ID, ExpenseUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10))

	testutil.AssertNoError(t, svc.DeleteExpense(user.ID, expense.ID))

	_, err := svc.GetExpenseByID(user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}
