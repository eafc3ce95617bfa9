package services

import (
	"context"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/testutil"
)

func goalInput(target, current money.Amount) CreateGoalInput {
	return CreateGoalInput{
		Name:          "Rainy day",
		Type:          models.GoalTypeEmergencyFund,
		TargetAmount:  target,
		CurrentAmount: current,
		StartDate:     testutil.Today(),
		TargetDate:    testutil.Today().AddDate(1, 0, 0),
	}
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(ctx, user.ID, goalInput(100000, 25000))
		testutil.AssertNoError(t, err)

		if goal.ID == "" {
			t.Fatal("expected goal ID")
		}
		if goal.ProgressPercentage != 25 {
			t.Errorf("expected progress 25, got %.2f", goal.ProgressPercentage)
		}
		if goal.Status != models.GoalStatusActive {
			t.Errorf("expected status active, got %s", goal.Status)
		}
	})

	t.Run("already_reached", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(ctx, user.ID, goalInput(1000, 1500))
		testutil.AssertNoError(t, err)
		if goal.Status != models.GoalStatusCompleted || goal.ProgressPercentage != 150 {
			t.Errorf("expected completed at 150%%, got %s at %.2f", goal.Status, goal.ProgressPercentage)
		}
	})

	t.Run("linked_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		own := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeSavings, 0)
		foreign := testutil.CreateTestAccount(t, db, other.ID, models.AccountTypeSavings, 0)

		in := goalInput(1000, 0)
		in.LinkedAccountID = &own.ID
		goal, err := svc.CreateGoal(ctx, user.ID, in)
		testutil.AssertNoError(t, err)
		if goal.LinkedAccountID == nil || *goal.LinkedAccountID != own.ID {
			t.Error("expected goal to be linked to the account")
		}

		in.LinkedAccountID = &foreign.ID
		_, err = svc.CreateGoal(ctx, user.ID, in)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(ctx, user.ID, goalInput(0, 0))
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		bad := goalInput(1000, 0)
		bad.Type = "lottery"
		_, err = svc.CreateGoal(ctx, user.ID, bad)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		negative := goalInput(1000, -1)
		_, err = svc.CreateGoal(ctx, user.ID, negative)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateGoalProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("reaching_target_completes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000, 0)

		updated, err := svc.UpdateProgress(ctx, user.ID, goal.ID, 40000)
		testutil.AssertNoError(t, err)
		if updated.ProgressPercentage != 40 || updated.Status != models.GoalStatusActive {
			t.Errorf("expected 40%% active, got %.2f %s", updated.ProgressPercentage, updated.Status)
		}

		updated, err = svc.UpdateProgress(ctx, user.ID, goal.ID, 100000)
		testutil.AssertNoError(t, err)
		if updated.ProgressPercentage != 100 || updated.Status != models.GoalStatusCompleted {
			t.Errorf("expected 100%% completed, got %.2f %s", updated.ProgressPercentage, updated.Status)
		}

		stored, err := svc.GetGoalByID(ctx, user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if stored.CurrentAmount != 100000 || stored.Status != models.GoalStatusCompleted {
			t.Errorf("expected stored completion, got %d %s", stored.CurrentAmount, stored.Status)
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 0)

		_, err := svc.UpdateProgress(ctx, user.ID, goal.ID, -5)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user1.ID, 1000, 0)

		_, err := svc.UpdateProgress(ctx, user2.ID, goal.ID, 500)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("new_target_recomputes_progress", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000, 50000)

		target := money.Amount(200000)
		name := "House deposit"
		updated, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdateFields{TargetAmount: &target, Name: &name})
		testutil.AssertNoError(t, err)
		if updated.ProgressPercentage != 25 || updated.Name != name {
			t.Errorf("expected 25%% and renamed goal, got %.2f %s", updated.ProgressPercentage, updated.Name)
		}
	})

	t.Run("unlink_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeSavings, 0)

		in := goalInput(1000, 0)
		in.LinkedAccountID = &account.ID
		goal, err := svc.CreateGoal(ctx, user.ID, in)
		testutil.AssertNoError(t, err)

		empty := ""
		updated, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdateFields{LinkedAccountID: &empty})
		testutil.AssertNoError(t, err)
		if updated.LinkedAccountID != nil {
			t.Error("expected linked account to be cleared")
		}
	})

	t.Run("invalid_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, NewAccountService(db))
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 0)

		status := models.GoalStatus("abandoned")
		_, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdateFields{Status: &status})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteGoalAndSummary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db, NewAccountService(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestGoal(t, db, user.ID, 1000, 250)
	testutil.CreateTestGoal(t, db, user.ID, 2000, 2000)
	removed := testutil.CreateTestGoal(t, db, user.ID, 5000, 0)

	testutil.AssertNoError(t, svc.DeleteGoal(ctx, user.ID, removed.ID))
	testutil.AssertAppError(t, svc.DeleteGoal(ctx, user.ID, "0190a8c4-3f2b-7c1d-8e9f-0123456789ab"), "GOAL_NOT_FOUND")

	summary, err := svc.GetGoalSummary(ctx, user.ID)
	testutil.AssertNoError(t, err)

	if summary.TotalGoals != 2 || summary.ActiveGoals != 1 || summary.CompletedGoals != 1 {
		t.Errorf("unexpected goal counts: %+v", summary)
	}
	if summary.TotalTargetAmount != 3000 || summary.TotalCurrentAmount != 2250 {
		t.Errorf("unexpected goal totals: %+v", summary)
	}
	if summary.AverageProgress != 62.5 {
		t.Errorf("expected average progress 62.5, got %.2f", summary.AverageProgress)
	}
}
