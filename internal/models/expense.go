package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an actual recorded transaction by a user. The category is
// optional and survives category deletion as NULL, so an expense can
// outlive the category it was filed under.
type Expense struct {
	Base
	Name        *string         `gorm:"size:256" json:"name"`
	Timestamp   time.Time       `gorm:"not null;index" json:"timestamp"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Description *string         `gorm:"size:2048" json:"description"`
	CategoryID  *uint           `json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	// Relationships
	Category *BudgetCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
