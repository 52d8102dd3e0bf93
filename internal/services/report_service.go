package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finaide/internal/errors"
	"finaide/internal/models"
	"finaide/internal/pagination"
)

// reportService assembles spending reports and CSV exports from budgets,
// allocations, and expenses.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// AggregateSpending computes the total spent per category over the given
// expenses. Every category appears exactly once, with zero for categories no
// expense matches; uncategorized expenses are ignored. Rows are ordered by
// total descending, ties broken by category ID ascending.
func AggregateSpending(expenses []models.Expense, categories []models.BudgetCategory) []CategorySpending {
	totals := make(map[uint]decimal.Decimal, len(categories))
	for _, category := range categories {
		totals[category.ID] = decimal.Zero
	}

	for _, expense := range expenses {
		if expense.CategoryID == nil {
			continue
		}
		total, known := totals[*expense.CategoryID]
		if !known {
			continue
		}
		totals[*expense.CategoryID] = total.Add(expense.Amount)
	}

	rows := make([]CategorySpending, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, CategorySpending{
			CategoryID:  category.ID,
			TotalAmount: totals[category.ID],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		cmp := rows[i].TotalAmount.Cmp(rows[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	return rows
}

// SpendingByCategory returns the paginated spending ranking over every known
// category for the user's expenses matching the filter.
func (s *reportService) SpendingByCategory(
	userID uint,
	filter ExpenseFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[CategorySpending], error) {
	page.Defaults()

	categories, expenses, err := s.fetchSpendingInputs(userID, filter)
	if err != nil {
		return nil, err
	}

	rows := AggregateSpending(expenses, categories)
	result := pagination.PageSlice(rows, page)
	return &result, nil
}

// PlannedVsActualCSV renders the planned-vs-actual comparison for one budget
// as CSV. One row per allocation (not per global category), ordered by
// category name descending; the actual column sums the owner's full expense
// history regardless of the budget's time span.
func (s *reportService) PlannedVsActualCSV(userID, budgetID uint) ([]byte, error) {
	var budget models.Budget
	err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var allocations []models.BudgetCategoryAllocation
	err = s.db.Preload("Category").
		Joins("JOIN budget_categories ON budget_categories.id = budget_category_allocations.category_id").
		Where("budget_category_allocations.budget_id = ?", budgetID).
		Order("budget_categories.name DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	categories, expenses, err := s.fetchSpendingInputs(userID, ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	actualByCategory := make(map[uint]decimal.Decimal, len(categories))
	for _, row := range AggregateSpending(expenses, categories) {
		actualByCategory[row.CategoryID] = row.TotalAmount
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Category", "Planned ($)", "Actual ($)"}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, allocation := range allocations {
		row := []string{
			allocation.Category.Name,
			allocation.PlannedAmount(&budget).StringFixed(2),
			actualByCategory[allocation.CategoryID].StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// ExpensesCSV renders the user's expenses matching the filter as CSV, most
// recent first. Absent names, descriptions, and categories render as "-".
func (s *reportService) ExpensesCSV(userID uint, filter ExpenseFilter) ([]byte, error) {
	base := applyExpenseFilters(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)

	var expenses []models.Expense
	if err := base.Preload("Category").Order("timestamp DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Name", "Date", "Time", "Description", "Category", "Amount", "ID"}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, expense := range expenses {
		categoryName := "-"
		if expense.Category != nil {
			categoryName = expense.Category.Name
		}
		row := []string{
			orDash(expense.Name),
			expense.Timestamp.Format("01/02/2006"),
			expense.Timestamp.Format("03:04 PM"),
			orDash(expense.Description),
			categoryName,
			expense.Amount.StringFixed(2),
			strconv.FormatUint(uint64(expense.ID), 10),
		}
		if err := writer.Write(row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// fetchSpendingInputs loads every category plus the user's expenses matching
// the filter, the raw inputs for AggregateSpending.
func (s *reportService) fetchSpendingInputs(userID uint, filter ExpenseFilter) ([]models.BudgetCategory, []models.Expense, error) {
	var categories []models.BudgetCategory
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := applyExpenseFilters(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)
	var expenses []models.Expense
	if err := base.Find(&expenses).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return categories, expenses, nil
}

// orDash returns the string value or "-" when absent or empty.
func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
