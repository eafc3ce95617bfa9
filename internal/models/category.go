package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a transaction category. A nil UserID marks a system
// default that every user can read but nobody can modify.
type Category struct {
	Base
	UserID      *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	Type        CategoryType `gorm:"size:20;not null" json:"type"`
	Description string       `json:"description"`
	Icon        string       `gorm:"size:50" json:"icon,omitempty"`
	Color       string       `gorm:"size:7" json:"color,omitempty"`
	IsDefault   bool         `gorm:"not null;default:false" json:"is_default"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
}

// AccessibleBy reports whether userID may read the category.
func (c *Category) AccessibleBy(userID string) bool {
	return c.UserID == nil || *c.UserID == userID
}
