package models

// User owns every other record. Authentication and profile management live
// outside this service; the row exists so ownership can be enforced.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	Accounts   []Account  `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Budgets    []Budget   `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Categories []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Goals      []Goal     `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
