package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finaide/internal/errors"
	"finaide/internal/models"
	"finaide/internal/pagination"
)

// allocationService handles budget category allocations.
type allocationService struct {
	db *gorm.DB
}

// NewAllocationService creates a new AllocationServicer.
func NewAllocationService(db *gorm.DB) AllocationServicer {
	return &allocationService{db: db}
}

// CreateAllocation creates a single allocation under one of the user's
// budgets. A budget can hold at most one allocation per category; amounts
// and percentages are deliberately not range-checked.
func (s *allocationService) CreateAllocation(
	userID, budgetID, categoryID uint,
	amount decimal.Decimal,
	isPercentage bool,
) (*models.BudgetCategoryAllocation, error) {
	if err := s.verifyBudgetOwner(s.db, userID, budgetID); err != nil {
		return nil, err
	}

	var category models.BudgetCategory
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.BudgetCategoryAllocation{}).
		Where("budget_id = ? AND category_id = ?", budgetID, categoryID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAllocation
	}

	allocation := &models.BudgetCategoryAllocation{
		BudgetID:     budgetID,
		CategoryID:   categoryID,
		Amount:       amount,
		IsPercentage: isPercentage,
	}

	if err := s.db.Create(allocation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetAllocationByID(userID, allocation.ID)
}

// GetUserAllocations returns a paginated list of allocations across the
// user's budgets, optionally filtered to one budget or one category.
// Ordering matches the allocation default: most recent budget first, then
// category name descending.
func (s *allocationService) GetUserAllocations(
	userID uint,
	budgetID, categoryID *uint,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.BudgetCategoryAllocation], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetCategoryAllocation{}).
		Joins("JOIN budgets ON budgets.id = budget_category_allocations.budget_id").
		Joins("JOIN budget_categories ON budget_categories.id = budget_category_allocations.category_id").
		Where("budgets.user_id = ?", userID)
	if budgetID != nil {
		base = base.Where("budget_category_allocations.budget_id = ?", *budgetID)
	}
	if categoryID != nil {
		base = base.Where("budget_category_allocations.category_id = ?", *categoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var allocations []models.BudgetCategoryAllocation
	err := base.Preload("Budget").Preload("Category").
		Order("budgets.start_time DESC, budget_categories.name DESC").
		Scopes(pagination.Paginate(page)).
		Find(&allocations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(allocations, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllocationByID returns an allocation by ID if its budget belongs to the user.
func (s *allocationService) GetAllocationByID(userID, allocationID uint) (*models.BudgetCategoryAllocation, error) {
	var allocation models.BudgetCategoryAllocation
	err := s.db.Preload("Budget").Preload("Category").
		Joins("JOIN budgets ON budgets.id = budget_category_allocations.budget_id").
		Where("budget_category_allocations.id = ? AND budgets.user_id = ?", allocationID, userID).
		First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAllocationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &allocation, nil
}

// UpdateAllocation applies a partial update to an existing allocation.
func (s *allocationService) UpdateAllocation(
	userID, allocationID uint,
	categoryID *uint,
	amount *decimal.Decimal,
	isPercentage *bool,
) (*models.BudgetCategoryAllocation, error) {
	allocation, err := s.GetAllocationByID(userID, allocationID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if categoryID != nil && *categoryID != allocation.CategoryID {
		var category models.BudgetCategory
		if err := s.db.First(&category, *categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var count int64
		if err := s.db.Model(&models.BudgetCategoryAllocation{}).
			Where("budget_id = ? AND category_id = ?", allocation.BudgetID, *categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateAllocation
		}
		updates["category_id"] = *categoryID
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if isPercentage != nil {
		updates["is_percentage"] = *isPercentage
	}

	if len(updates) > 0 {
		if err := s.db.Model(allocation).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetAllocationByID(userID, allocationID)
}

// DeleteAllocation removes an allocation.
func (s *allocationService) DeleteAllocation(userID, allocationID uint) error {
	allocation, err := s.GetAllocationByID(userID, allocationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.BudgetCategoryAllocation{}, allocation.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BulkReplaceAllocations replaces a budget's allocation set with exactly the
// given list. Inputs carrying an ID update the existing row in place; inputs
// without one create new rows; any existing allocation not referenced is
// deleted. The whole operation runs in one transaction, so a bad category or
// allocation reference leaves the stored set untouched.
func (s *allocationService) BulkReplaceAllocations(
	userID, budgetID uint,
	inputs []AllocationInput,
) ([]models.BudgetCategoryAllocation, error) {
	if err := s.verifyBudgetOwner(s.db, userID, budgetID); err != nil {
		return nil, err
	}

	// Reject duplicate categories up front rather than surfacing a raw
	// unique-constraint failure from the store.
	seen := make(map[uint]bool, len(inputs))
	for _, input := range inputs {
		if seen[input.CategoryID] {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"duplicate category in allocation list")
		}
		seen[input.CategoryID] = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// All referenced categories must exist; one unknown fails the batch.
		categoryIDs := make([]uint, 0, len(inputs))
		for _, input := range inputs {
			categoryIDs = append(categoryIDs, input.CategoryID)
		}
		if len(categoryIDs) > 0 {
			var count int64
			if err := tx.Model(&models.BudgetCategory{}).
				Where("id IN ?", categoryIDs).
				Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count != int64(len(categoryIDs)) {
				return apperrors.ErrCategoryNotFound
			}
		}

		// Updates may only reference allocations already under this budget.
		var existingIDs []uint
		if err := tx.Model(&models.BudgetCategoryAllocation{}).
			Where("budget_id = ?", budgetID).
			Pluck("id", &existingIDs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		existing := make(map[uint]bool, len(existingIDs))
		for _, id := range existingIDs {
			existing[id] = true
		}

		var keepIDs []uint
		var toUpdate []AllocationInput
		var toCreate []models.BudgetCategoryAllocation
		for _, input := range inputs {
			if input.ID != nil {
				if !existing[*input.ID] {
					return apperrors.ErrAllocationNotFound
				}
				keepIDs = append(keepIDs, *input.ID)
				toUpdate = append(toUpdate, input)
			} else {
				toCreate = append(toCreate, models.BudgetCategoryAllocation{
					BudgetID:     budgetID,
					CategoryID:   input.CategoryID,
					Amount:       input.Amount,
					IsPercentage: input.IsPercentage,
				})
			}
		}

		// Delete every allocation the request no longer mentions.
		del := tx.Where("budget_id = ?", budgetID)
		if len(keepIDs) > 0 {
			del = del.Where("id NOT IN ?", keepIDs)
		}
		if err := del.Delete(&models.BudgetCategoryAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		for _, input := range toUpdate {
			err := tx.Model(&models.BudgetCategoryAllocation{}).
				Where("id = ? AND budget_id = ?", *input.ID, budgetID).
				Updates(map[string]interface{}{
					"category_id":   input.CategoryID,
					"amount":        input.Amount,
					"is_percentage": input.IsPercentage,
				}).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
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
	return allocations, nil
}

// verifyBudgetOwner checks that the budget exists and belongs to the user.
func (s *allocationService) verifyBudgetOwner(db *gorm.DB, userID, budgetID uint) error {
	var count int64
	if err := db.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", budgetID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
