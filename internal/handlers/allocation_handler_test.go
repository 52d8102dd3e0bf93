package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finaide/internal/errors"
	"finaide/internal/models"
	"finaide/internal/pagination"
)

func setupAllocationRouter(handler *AllocationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/budget_category_relations", handler.CreateAllocation)
	auth.GET("/budget_category_relations", handler.GetAllocations)
	auth.GET("/budget_category_relations/:id", handler.GetAllocation)
	auth.PATCH("/budget_category_relations/:id", handler.UpdateAllocation)
	auth.DELETE("/budget_category_relations/:id", handler.DeleteAllocation)
	return r
}

func TestAllocationHandler_CreateAllocation(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockAllocationService{
			createAllocationFn: func(_, budgetID, categoryID uint, amount decimal.Decimal, isPercentage bool) (*models.BudgetCategoryAllocation, error) {
				return &models.BudgetCategoryAllocation{
					Base:         models.Base{ID: 1},
					BudgetID:     budgetID,
					CategoryID:   categoryID,
					Amount:       amount,
					IsPercentage: isPercentage,
				}, nil
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "POST", "/budget_category_relations",
			`{"budget_id":1,"category_id":3,"amount":"17.6","is_percentage":true}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		relation := result["category_relation"].(map[string]interface{})
		if relation["is_percentage"] != true {
			t.Errorf("expected percentage allocation, got %v", relation["is_percentage"])
		}
	})

	t.Run("returns 400 when is_percentage missing", func(t *testing.T) {
		handler := NewAllocationHandler(&mockAllocationService{}, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "POST", "/budget_category_relations",
			`{"budget_id":1,"category_id":3,"amount":"17.6"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate category", func(t *testing.T) {
		svc := &mockAllocationService{
			createAllocationFn: func(_, _, _ uint, _ decimal.Decimal, _ bool) (*models.BudgetCategoryAllocation, error) {
				return nil, apperrors.ErrDuplicateAllocation
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "POST", "/budget_category_relations",
			`{"budget_id":1,"category_id":3,"amount":"100","is_percentage":false}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_ALLOCATION")
	})
}

func TestAllocationHandler_GetAllocations(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotBudgetID, gotCategoryID *uint
		svc := &mockAllocationService{
			getUserAllocationsFn: func(_ uint, budgetID, categoryID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategoryAllocation], error) {
				gotBudgetID, gotCategoryID = budgetID, categoryID
				resp := pagination.NewPageResponse([]models.BudgetCategoryAllocation{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "GET", "/budget_category_relations?budget_id=5&category_id=9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotBudgetID == nil || *gotBudgetID != 5 {
			t.Errorf("expected budget filter 5, got %v", gotBudgetID)
		}
		if gotCategoryID == nil || *gotCategoryID != 9 {
			t.Errorf("expected category filter 9, got %v", gotCategoryID)
		}
	})

	t.Run("returns 400 on bad budget_id", func(t *testing.T) {
		handler := NewAllocationHandler(&mockAllocationService{}, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "GET", "/budget_category_relations?budget_id=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAllocationHandler_UpdateAllocation(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockAllocationService{
			updateAllocationFn: func(_, allocationID uint, _ *uint, amount *decimal.Decimal, _ *bool) (*models.BudgetCategoryAllocation, error) {
				a := &models.BudgetCategoryAllocation{Base: models.Base{ID: allocationID}}
				if amount != nil {
					a.Amount = *amount
				}
				return a, nil
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "PATCH", "/budget_category_relations/7", `{"amount":"250"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockAllocationService{
			updateAllocationFn: func(_, _ uint, _ *uint, _ *decimal.Decimal, _ *bool) (*models.BudgetCategoryAllocation, error) {
				return nil, apperrors.ErrAllocationNotFound
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "PATCH", "/budget_category_relations/7", `{"amount":"250"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALLOCATION_NOT_FOUND")
	})
}

func TestAllocationHandler_DeleteAllocation(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewAllocationHandler(&mockAllocationService{}, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "DELETE", "/budget_category_relations/7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockAllocationService{
			deleteAllocationFn: func(_, _ uint) error {
				return apperrors.ErrAllocationNotFound
			},
		}
		handler := NewAllocationHandler(svc, &mockAuditService{})
		r := setupAllocationRouter(handler)

		rec := doRequest(r, "DELETE", "/budget_category_relations/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
