package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finaide/internal/errors"
	"finaide/internal/models"
	"finaide/internal/pagination"
)

// categoryService handles budget category reference data. Categories are
// global and read-only through the API; they are maintained via migrations.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns a paginated, alphabetical list of categories,
// optionally narrowed by a case-insensitive name search.
func (s *categoryService) ListCategories(search string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetCategory{})
	if search != "" {
		base = base.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.BudgetCategory
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category by ID.
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
