package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return models.TruncateDate(time.Now())
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active account of the given type whose balance
// and initial balance are both set to balance (in cents).
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType, balance money.Amount) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Account %d", nextID()),
		Type:              accountType,
		Balance:           balance,
		InitialBalance:    balance,
		Currency:          "USD",
		IsActive:          true,
		IncludeInNetWorth: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCheckingAccount creates a checking account with the given balance (in cents).
func CreateTestCheckingAccount(t *testing.T, db *gorm.DB, userID string, balance money.Amount) *models.Account {
	t.Helper()
	return CreateTestAccount(t, db, userID, models.AccountTypeChecking, balance)
}

// CreateTestCategory creates a category of the given type owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	owner := userID
	category := &models.Category{
		UserID:   &owner,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates an ownerless system category.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      fmt.Sprintf("Default Category %d", nextID()),
		Type:      categoryType,
		IsDefault: true,
		IsActive:  true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create default category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction row without applying any balance
// effect. Use it to seed history for read-side tests.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID, categoryID string, txType models.TransactionType, amount money.Amount, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       models.TruncateDate(date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget of the given amount covering the
// current month. Spent starts at zero.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, amount money.Amount) *models.Budget {
	t.Helper()

	start, end := models.MonthBounds(time.Now())
	budget := &models.Budget{
		UserID:         userID,
		CategoryID:     categoryID,
		Name:           fmt.Sprintf("Test Budget %d", nextID()),
		Amount:         amount,
		Remaining:      amount,
		Period:         models.BudgetPeriodMonthly,
		StartDate:      start,
		EndDate:        end,
		IsActive:       true,
		AlertThreshold: 80,
		AlertEnabled:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates an active savings goal with the given target and current amounts.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, current money.Amount) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		Type:          models.GoalTypeSavings,
		TargetAmount:  target,
		CurrentAmount: current,
		Status:        models.GoalStatusActive,
		StartDate:     Today(),
		TargetDate:    Today().AddDate(1, 0, 0),
		IsActive:      true,
	}
	goal.RecomputeProgress()
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
