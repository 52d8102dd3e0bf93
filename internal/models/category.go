package models

import "github.com/shopspring/decimal"

// BudgetCategory is a shared label for grouping allocations and expenses.
// Categories are global reference data, not owned by any user.
type BudgetCategory struct {
	Base
	Name                 string           `gorm:"size:256;not null" json:"name"`
	TypicalPercentage    *decimal.Decimal `gorm:"type:numeric(4,2)" json:"typical_percentage"`
	TypicalMonthlyAmount *decimal.Decimal `gorm:"type:numeric(12,2)" json:"typical_monthly_amount"`
}
