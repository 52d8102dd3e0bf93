package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeInterval represents the recurrence interval a budget's income is
// declared over.
type TimeInterval string

const (
	TimeIntervalYearly  TimeInterval = "yearly"
	TimeIntervalMonthly TimeInterval = "monthly"
	TimeIntervalWeekly  TimeInterval = "weekly"
)

// Days returns the nominal number of days in one interval period.
// Returns 0 for an unknown interval.
func (i TimeInterval) Days() int64 {
	switch i {
	case TimeIntervalYearly:
		return 365
	case TimeIntervalMonthly:
		return 30
	case TimeIntervalWeekly:
		return 7
	}
	return 0
}

// Budget represents a user's income and planned spending over a time span.
// Income is the amount earned per interval period, not over the whole span.
type Budget struct {
	Base
	Name        string          `gorm:"size:256;not null" json:"name"`
	Description *string         `gorm:"size:2048" json:"description"`
	StartTime   time.Time       `gorm:"not null" json:"start_time"`
	EndTime     time.Time       `gorm:"not null" json:"end_time"`
	Interval    TimeInterval    `gorm:"size:16;not null" json:"interval"`
	Income      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"income"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`

	// Relationships
	Allocations []BudgetCategoryAllocation `gorm:"foreignKey:BudgetID" json:"allocations,omitempty"`
}

// DurationDays returns the number of whole days between the budget's start
// and end times, truncated toward zero. A budget ending before it starts
// yields a negative count; this is intentionally not guarded.
func (b *Budget) DurationDays() int64 {
	return int64(b.EndTime.Sub(b.StartTime) / (24 * time.Hour))
}

// IntervalMultiplier returns how many interval periods the budget spans,
// as DurationDays divided by the days in one period. The result may be
// fractional, zero, or negative.
func (b *Budget) IntervalMultiplier() decimal.Decimal {
	days := b.Interval.Days()
	if days == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(b.DurationDays()).Div(decimal.NewFromInt(days))
}
