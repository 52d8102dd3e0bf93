package models

// User represents the user model in the database
type User struct {
	Base
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	RefreshTokenHash string    `gorm:"size:64" json:"-"`
	Budgets          []Budget  `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Expenses         []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
