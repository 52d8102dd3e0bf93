package models

import "github.com/shopspring/decimal"

// BudgetCategoryAllocation assigns a planned amount to one category within
// one budget. Amount is either a flat figure per interval period or, when
// IsPercentage is set, a percentage of the budget's income per period.
// A budget can hold at most one allocation per category.
type BudgetCategoryAllocation struct {
	Base
	BudgetID     uint            `gorm:"not null;uniqueIndex:idx_budget_category" json:"budget_id"`
	CategoryID   uint            `gorm:"not null;uniqueIndex:idx_budget_category" json:"category_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	IsPercentage bool            `gorm:"not null" json:"is_percentage"`

	// Relationships
	Budget   Budget         `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"budget,omitempty"`
	Category BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// PlannedAmount resolves the total planned amount for this allocation across
// the full span of the given budget: the budget's interval multiplier times
// the per-period amount. Percentage values are not range-checked, so an
// allocation above 100% legitimately plans more than the income.
func (a *BudgetCategoryAllocation) PlannedAmount(budget *Budget) decimal.Decimal {
	raw := a.Amount
	if a.IsPercentage {
		raw = a.Amount.Mul(budget.Income).Div(decimal.NewFromInt(100))
	}
	return budget.IntervalMultiplier().Mul(raw)
}
