package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finaide/internal/errors"
	"finaide/internal/models"
	"finaide/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for the user. The end time is not
// required to follow the start time; a backwards span simply yields a
// non-positive interval multiplier.
func (s *budgetService) CreateBudget(
	userID uint,
	name string,
	description *string,
	startTime, endTime time.Time,
	interval models.TimeInterval,
	income decimal.Decimal,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if startTime.IsZero() || endTime.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_time and end_time are required")
	}
	if interval.Days() == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interval must be yearly, monthly, or weekly")
	}
	if income.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not be negative")
	}

	budget := &models.Budget{
		Name:        name,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
		Interval:    interval,
		Income:      income,
		UserID:      userID,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, most
// recently ending first.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("end_time DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user, with its
// allocations and their categories preloaded.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Allocations.Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies a partial update to an existing budget.
func (s *budgetService) UpdateBudget(userID, budgetID uint, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.StartTime != nil {
		updates["start_time"] = *update.StartTime
	}
	if update.EndTime != nil {
		updates["end_time"] = *update.EndTime
	}
	if update.Interval != nil {
		if update.Interval.Days() == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interval must be yearly, monthly, or weekly")
		}
		updates["interval"] = *update.Interval
	}
	if update.Income != nil {
		if update.Income.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not be negative")
		}
		updates["income"] = *update.Income
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes a budget along with its category allocations.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budget.ID).
			Delete(&models.BudgetCategoryAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Budget{}, budget.ID).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
