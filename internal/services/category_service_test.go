package services

import (
	"context"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(ctx, user.ID, CreateCategoryInput{
			Name:        "Groceries",
			Type:        models.CategoryTypeExpense,
			Description: "Food shopping",
			Icon:        "cart",
			Color:       "#FF0000",
		})
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.UserID == nil || *cat.UserID != user.ID {
			t.Error("expected category to be owned by the user")
		}
		if cat.IsDefault || !cat.IsActive {
			t.Errorf("expected active non-default category, got default=%v active=%v", cat.IsDefault, cat.IsActive)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		in := CreateCategoryInput{Name: "Rent", Type: models.CategoryTypeExpense}
		_, err := svc.CreateCategory(ctx, user.ID, in)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(ctx, user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		other := testutil.CreateTestUser(t, db)
		_, err = svc.CreateCategory(ctx, other.ID, in)
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, CreateCategoryInput{Name: "Odd", Type: "transfer"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("own_and_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		own := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)
		def := testutil.CreateTestDefaultCategory(t, db, models.CategoryTypeIncome)

		cats, err := svc.GetUserCategories(ctx, user.ID, nil)
		testutil.AssertNoError(t, err)

		if len(cats) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(cats))
		}
		if cats[0].ID != own.ID || cats[1].ID != def.ID {
			t.Error("expected the user's own categories before defaults")
		}
	})

	t.Run("filter_by_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		catType := models.CategoryTypeIncome
		cats, err := svc.GetUserCategories(ctx, user.ID, &catType)
		testutil.AssertNoError(t, err)
		if len(cats) != 1 || cats[0].ID != income.ID {
			t.Errorf("expected only the income category, got %d results", len(cats))
		}
	})
}

func TestGetCategoryByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user1 := testutil.CreateTestUser(t, db)
	user2 := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)
	def := testutil.CreateTestDefaultCategory(t, db, models.CategoryTypeExpense)

	t.Run("owner", func(t *testing.T) {
		found, err := svc.GetCategoryByID(ctx, user1.ID, cat.ID)
		testutil.AssertNoError(t, err)
		if found.Name != cat.Name {
			t.Errorf("expected %s, got %s", cat.Name, found.Name)
		}
	})

	t.Run("default_visible_to_all", func(t *testing.T) {
		_, err := svc.GetCategoryByID(ctx, user2.ID, def.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("other_user_forbidden", func(t *testing.T) {
		_, err := svc.GetCategoryByID(ctx, user2.ID, cat.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.GetCategoryByID(ctx, user1.ID, "0190a8c4-3f2b-7c1d-8e9f-0123456789ab")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates_and_keeps_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestCheckingAccount(t, db, user.ID, 0)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, cat.ID, models.TransactionTypeExpense, 500, testutil.Today())

		testutil.AssertNoError(t, svc.DeleteCategory(ctx, user.ID, cat.ID))

		cats, err := svc.GetUserCategories(ctx, user.ID, nil)
		testutil.AssertNoError(t, err)
		if len(cats) != 0 {
			t.Errorf("expected deactivated category to be hidden, got %d", len(cats))
		}

		var stored models.Transaction
		testutil.AssertNoError(t, db.First(&stored, "id = ?", tx.ID).Error)
		if stored.CategoryID != cat.ID {
			t.Error("expected transaction to keep its category reference")
		}
	})

	t.Run("default_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, models.CategoryTypeExpense)

		err := svc.DeleteCategory(ctx, user.ID, def.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("other_user_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)

		err := svc.DeleteCategory(ctx, user2.ID, cat.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	testutil.AssertNoError(t, svc.SeedDefaults(ctx))
	testutil.AssertNoError(t, svc.SeedDefaults(ctx))

	var count int64
	db.Model(&models.Category{}).Where("is_default = ? AND user_id IS NULL", true).Count(&count)
	if count != int64(len(defaultCategories)) {
		t.Errorf("expected %d default categories after two seeds, got %d", len(defaultCategories), count)
	}

	user := testutil.CreateTestUser(t, db)
	expense := models.CategoryTypeExpense
	cats, err := svc.GetUserCategories(ctx, user.ID, &expense)
	testutil.AssertNoError(t, err)
	if len(cats) == 0 {
		t.Error("expected seeded expense categories to be visible")
	}
}
