package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a category owned by the user.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category type")
	}

	db := s.db.WithContext(ctx)

	// Check if a category with the same name already exists for this user
	var count int64
	if err := db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND is_active = ?", userID, input.Name, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	owner := userID
	category := &models.Category{
		UserID:      &owner,
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		IsActive:    true,
	}

	if err := db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories lists the user's own categories followed by the system defaults.
func (s *categoryService) GetUserCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error) {
	q := s.db.WithContext(ctx).
		Where("(user_id = ? OR user_id IS NULL) AND is_active = ?", userID, true)
	if categoryType != nil {
		q = q.Where("type = ?", *categoryType)
	}

	categories := []models.Category{}
	if err := q.Order("is_default ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category the user may read: their own or a system default.
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	return findCategory(s.db.WithContext(ctx), userID, categoryID)
}

func findCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.AccessibleBy(userID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "access denied to this category")
	}
	return &category, nil
}

// DeleteCategory deactivates a category owned by the user. Existing
// transactions keep their reference for historical records.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	db := s.db.WithContext(ctx)

	category, err := findCategory(db, userID, categoryID)
	if err != nil {
		return err
	}
	if category.UserID == nil || category.IsDefault {
		return apperrors.WithMessage(apperrors.ErrForbidden, "default categories cannot be deleted")
	}

	if err := db.Model(category).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SeedDefaults inserts the system default categories unless they already exist.
func (s *categoryService) SeedDefaults(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Category{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		logger.Get().Debugw("Default categories already present", "count", count)
		return nil
	}

	categories := make([]models.Category, 0, len(defaultCategories))
	for _, c := range defaultCategories {
		c.IsDefault = true
		c.IsActive = true
		categories = append(categories, c)
	}

	if err := db.Create(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Get().Infow("Seeded default categories", "count", len(categories))
	return nil
}

var defaultCategories = []models.Category{
	{Name: "Food & Dining", Type: models.CategoryTypeExpense, Icon: "utensils", Color: "#FF6B6B", Description: "Restaurants, groceries, and food delivery"},
	{Name: "Transportation", Type: models.CategoryTypeExpense, Icon: "car", Color: "#4ECDC4", Description: "Gas, public transport, car maintenance"},
	{Name: "Shopping", Type: models.CategoryTypeExpense, Icon: "shopping-bag", Color: "#45B7D1", Description: "Clothing, electronics, and general shopping"},
	{Name: "Entertainment", Type: models.CategoryTypeExpense, Icon: "film", Color: "#96CEB4", Description: "Movies, games, subscriptions, and fun activities"},
	{Name: "Bills & Utilities", Type: models.CategoryTypeExpense, Icon: "bolt", Color: "#FFEAA7", Description: "Electricity, water, internet, phone bills"},
	{Name: "Healthcare", Type: models.CategoryTypeExpense, Icon: "heart-pulse", Color: "#DDA0DD", Description: "Medical expenses, insurance, pharmacy"},
	{Name: "Education", Type: models.CategoryTypeExpense, Icon: "book", Color: "#98D8C8", Description: "Tuition, books, courses, and learning materials"},
	{Name: "Travel", Type: models.CategoryTypeExpense, Icon: "plane", Color: "#F7DC6F", Description: "Flights, hotels, vacation expenses"},
	{Name: "Home & Garden", Type: models.CategoryTypeExpense, Icon: "home", Color: "#BB8FCE", Description: "Rent, mortgage, home improvement, gardening"},
	{Name: "Personal Care", Type: models.CategoryTypeExpense, Icon: "sparkles", Color: "#F8C471", Description: "Haircuts, cosmetics, spa, personal hygiene"},
	{Name: "Insurance", Type: models.CategoryTypeExpense, Icon: "shield", Color: "#85C1E9", Description: "Life, health, auto, home insurance"},
	{Name: "Taxes", Type: models.CategoryTypeExpense, Icon: "receipt", Color: "#F1948A", Description: "Income tax, property tax, other taxes"},
	{Name: "Gifts & Donations", Type: models.CategoryTypeExpense, Icon: "gift", Color: "#82E0AA", Description: "Gifts for others, charitable donations"},
	{Name: "Salary", Type: models.CategoryTypeIncome, Icon: "briefcase", Color: "#2ECC71", Description: "Regular employment income"},
	{Name: "Freelance", Type: models.CategoryTypeIncome, Icon: "laptop", Color: "#27AE60", Description: "Contract and freelance work"},
	{Name: "Investments", Type: models.CategoryTypeIncome, Icon: "chart-line", Color: "#16A085", Description: "Dividends, interest, capital gains"},
	{Name: "Gifts Received", Type: models.CategoryTypeIncome, Icon: "hand-holding-heart", Color: "#1ABC9C", Description: "Money received as gifts"},
	{Name: "Other Income", Type: models.CategoryTypeIncome, Icon: "plus-circle", Color: "#58D68D", Description: "Refunds, rebates, and miscellaneous income"},
}
