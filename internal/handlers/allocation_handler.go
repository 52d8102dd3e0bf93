package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finaide/internal/errors"
	"finaide/internal/pagination"
	"finaide/internal/services"
)

// AllocationHandler handles budget category allocation requests.
type AllocationHandler struct {
	allocationService services.AllocationServicer
	auditService      services.AuditServicer
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocationService services.AllocationServicer, auditService services.AuditServicer) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService, auditService: auditService}
}

// CreateAllocationRequest represents the request payload for creating an allocation.
type CreateAllocationRequest struct {
	BudgetID     uint            `json:"budget_id" binding:"required"`
	CategoryID   uint            `json:"category_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	IsPercentage *bool           `json:"is_percentage" binding:"required"`
}

// UpdateAllocationRequest represents the request payload for updating an allocation.
type UpdateAllocationRequest struct {
	CategoryID   *uint            `json:"category_id"`
	Amount       *decimal.Decimal `json:"amount"`
	IsPercentage *bool            `json:"is_percentage"`
}

// CreateAllocation handles creating a single category allocation.
// @Summary     Create an allocation
// @Description Allocate a fixed amount or income percentage of a budget to a category
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAllocationRequest true "Allocation details"
// @Success     201 {object} models.BudgetCategoryAllocation "Allocation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     409 {object} ErrorResponse "Allocation for this category already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget_category_relations [post]
func (h *AllocationHandler) CreateAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocation, err := h.allocationService.CreateAllocation(
		userID, req.BudgetID, req.CategoryID, req.Amount, *req.IsPercentage,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ALLOCATION", "allocation", allocation.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": req.BudgetID, "category_id": req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"category_relation": allocation})
}

// GetAllocations handles listing the user's allocations.
// @Summary     Get allocations
// @Description Get a paginated list of the user's category allocations, optionally filtered by budget or category
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget_id   query int false "Filter by budget"
// @Param       category_id query int false "Filter by category"
// @Param       page        query int false "Page number (default 1)"
// @Param       page_size   query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetCategoryAllocation] "Paginated allocations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget_category_relations [get]
func (h *AllocationHandler) GetAllocations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budgetID, err := parseOptionalQueryID(c, "budget_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parseOptionalQueryID(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.allocationService.GetUserAllocations(userID, budgetID, categoryID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAllocation handles retrieving a specific allocation.
// @Summary     Get allocation by ID
// @Description Get a specific category allocation by ID
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Allocation ID"
// @Success     200 {object} models.BudgetCategoryAllocation "Allocation details"
// @Failure     400 {object} ErrorResponse "Invalid allocation ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allocation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget_category_relations/{id} [get]
func (h *AllocationHandler) GetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, err := h.allocationService.GetAllocationByID(userID, allocationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category_relation": allocation})
}

// UpdateAllocation handles updating an existing allocation.
// @Summary     Update allocation
// @Description Apply a partial update to an existing category allocation
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Allocation ID"
// @Param       request body UpdateAllocationRequest true "Updated allocation details"
// @Success     200 {object} models.BudgetCategoryAllocation "Updated allocation"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allocation or category not found"
// @Failure     409 {object} ErrorResponse "Allocation for this category already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget_category_relations/{id} [patch]
func (h *AllocationHandler) UpdateAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocation, err := h.allocationService.UpdateAllocation(
		userID, allocationID, req.CategoryID, req.Amount, req.IsPercentage,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ALLOCATION", "allocation", allocationID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"category_relation": allocation})
}

// DeleteAllocation handles deleting an allocation.
// @Summary     Delete allocation
// @Description Delete a category allocation by ID
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Allocation ID"
// @Success     200 {object} MessageResponse "Allocation deleted"
// @Failure     400 {object} ErrorResponse "Invalid allocation ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allocation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget_category_relations/{id} [delete]
func (h *AllocationHandler) DeleteAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.allocationService.DeleteAllocation(userID, allocationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ALLOCATION", "allocation", allocationID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category relation deleted successfully"})
}
