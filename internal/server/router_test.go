package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/testutil"
	"fintrack/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "flow-test-secret",
		JWTExpirationDur: time.Hour,
	})
}

// testApp holds the full application stack backed by an in-memory SQLite database.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return &testApp{DB: db, Router: NewRouter(NewServices(db), nil)}
}

// newUser creates an active user and returns its id and a bearer token.
func (app *testApp) newUser(t *testing.T) (string, string) {
	t.Helper()
	user := testutil.CreateTestUser(t, app.DB)
	token, err := middleware.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)
	return user.ID, token
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

// createAccount posts an account and returns its id.
func (app *testApp) createAccount(t *testing.T, token, name, balance string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/accounts",
		fmt.Sprintf(`{"name":%q,"type":"checking","initial_balance":%s}`, name, balance), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return parseJSON(t, rec)["account"].(map[string]interface{})["id"].(string)
}

func (app *testApp) balanceOf(t *testing.T, token, accountID string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return parseJSON(t, rec)["account"].(map[string]interface{})["balance"].(float64)
}

func today() string {
	return testutil.Today().Format("2006-01-02")
}

func TestExpenseEditAndDeleteFlow(t *testing.T) {
	app := setupApp(t)
	userID, token := app.newUser(t)
	category := testutil.CreateTestCategory(t, app.DB, userID, models.CategoryTypeExpense)
	accountID := app.createAccount(t, token, "Checking", "100")

	rec := app.request("POST", "/api/v1/transactions", fmt.Sprintf(
		`{"account_id":%q,"category_id":%q,"type":"expense","amount":30,"date":%q,"description":"Groceries"}`,
		accountID, category.ID, today()), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)
	assert.Equal(t, 70.0, app.balanceOf(t, token, accountID))

	rec = app.request("PUT", "/api/v1/transactions/"+txID, `{"amount":"50.00"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 50.0, app.balanceOf(t, token, accountID))

	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 100.0, app.balanceOf(t, token, accountID))

	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 100.0, app.balanceOf(t, token, accountID))
	testutil.AssertBalance(t, app.DB, accountID, money.Cents(10000))
}

func TestTransferFlow(t *testing.T) {
	app := setupApp(t)
	userID, token := app.newUser(t)
	category := testutil.CreateTestCategory(t, app.DB, userID, models.CategoryTypeExpense)
	fromID := app.createAccount(t, token, "A", "100")
	toID := app.createAccount(t, token, "B", "20")

	rec := app.request("POST", "/api/v1/transactions", fmt.Sprintf(
		`{"account_id":%q,"category_id":%q,"type":"transfer","amount":40,"date":%q}`,
		fromID, category.ID, today()), token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TRANSFER_DESTINATION_REQUIRED", parseJSON(t, rec)["error"].(map[string]interface{})["code"])
	assert.Equal(t, 100.0, app.balanceOf(t, token, fromID))

	rec = app.request("POST", "/api/v1/transactions", fmt.Sprintf(
		`{"account_id":%q,"to_account_id":%q,"category_id":%q,"type":"transfer","amount":40,"date":%q}`,
		fromID, toID, category.ID, today()), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)
	assert.Equal(t, 60.0, app.balanceOf(t, token, fromID))
	assert.Equal(t, 60.0, app.balanceOf(t, token, toID))

	rec = app.request("GET", "/api/v1/accounts/net-worth", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 120.0, parseJSON(t, rec)["net_worth"])

	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 100.0, app.balanceOf(t, token, fromID))
	assert.Equal(t, 20.0, app.balanceOf(t, token, toID))
}

func TestBudgetTracksSpendingFlow(t *testing.T) {
	app := setupApp(t)
	userID, token := app.newUser(t)
	category := testutil.CreateTestCategory(t, app.DB, userID, models.CategoryTypeExpense)
	accountID := app.createAccount(t, token, "Checking", "1000")
	budget := testutil.CreateTestBudget(t, app.DB, userID, category.ID, money.Cents(20000))

	rec := app.request("POST", "/api/v1/transactions", fmt.Sprintf(
		`{"account_id":%q,"category_id":%q,"type":"expense","amount":170,"date":%q}`,
		accountID, category.ID, today()), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/budgets/"+budget.ID+"/progress", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	progress := parseJSON(t, rec)["progress"].(map[string]interface{})
	assert.Equal(t, 170.0, progress["spent"])
	assert.Equal(t, 30.0, progress["remaining"])
	assert.Equal(t, true, progress["alert"])

	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request("GET", "/api/v1/budgets/"+budget.ID, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	got := parseJSON(t, rec)["budget"].(map[string]interface{})
	assert.Equal(t, 0.0, got["spent"])
	assert.Equal(t, 200.0, got["remaining"])
}

func TestGoalCompletionFlow(t *testing.T) {
	app := setupApp(t)
	_, token := app.newUser(t)

	rec := app.request("POST", "/api/v1/goals", fmt.Sprintf(
		`{"name":"Laptop","type":"savings","target_amount":1000,"start_date":%q,"target_date":%q}`,
		today(), testutil.Today().AddDate(1, 0, 0).Format("2006-01-02")), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goalID := parseJSON(t, rec)["goal"].(map[string]interface{})["id"].(string)

	rec = app.request("PUT", "/api/v1/goals/"+goalID+"/progress", `{"current_amount":1000}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	goal := parseJSON(t, rec)["goal"].(map[string]interface{})
	assert.Equal(t, 100.0, goal["progress_percentage"])
	assert.Equal(t, string(models.GoalStatusCompleted), goal["status"])
}

func TestOwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := app.newUser(t)
	_, otherToken := app.newUser(t)
	accountID := app.createAccount(t, ownerToken, "Private", "10")

	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", otherToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request("GET", "/api/v1/accounts", "", otherToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, parseJSON(t, rec)["accounts"])
}

func TestAuthenticationRequired(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/accounts", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request("GET", "/api/v1/accounts", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := middleware.GenerateAccessToken("0192f0c8-5e3a-7b1c-9d2e-0000000000ff", "ghost@test.com")
	require.NoError(t, err)
	rec = app.request("GET", "/api/v1/accounts", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardFlow(t *testing.T) {
	app := setupApp(t)
	userID, token := app.newUser(t)
	income := testutil.CreateTestCategory(t, app.DB, userID, models.CategoryTypeIncome)
	accountID := app.createAccount(t, token, "Checking", "0")

	rec := app.request("POST", "/api/v1/transactions", fmt.Sprintf(
		`{"account_id":%q,"category_id":%q,"type":"income","amount":2500,"date":%q}`,
		accountID, income.ID, today()), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request("GET", "/api/v1/analytics/dashboard", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	metrics := parseJSON(t, rec)["health_metrics"].(map[string]interface{})
	assert.Equal(t, 2500.0, metrics["net_worth"])
	score := metrics["financial_health_score"].(float64)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	router := NewRouter(NewServices(testutil.SetupTestDB(t)), stubPinger{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	router = NewRouter(NewServices(testutil.SetupTestDB(t)), stubPinger{err: errors.New("down")})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
