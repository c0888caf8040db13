package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"paycycle/internal/config"
	"paycycle/internal/handlers"
	"paycycle/internal/ledger"
	"paycycle/internal/logger"
	"paycycle/internal/middleware"
	"paycycle/internal/storage"
	"paycycle/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Engine *ledger.Engine
	Store  *storage.MemoryStore
	Router *gin.Engine

	// now is the fake clock behind every handler's Now hook.
	now time.Time
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an in-memory store and
// a fake clock. Auth is left unconfigured (open mode) unless the test sets
// the password env vars and reloads before calling this.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := ledger.Open(store)
	if err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}

	app := &testApp{
		Engine: engine,
		Store:  store,
		now:    time.Date(2025, time.August, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return app.now }

	authHandler := handlers.NewAuthHandler()
	budgetHandler := handlers.NewBudgetHandler(engine)
	categoryHandler := handlers.NewCategoryHandler(engine)
	transactionHandler := handlers.NewTransactionHandler(engine)
	transactionHandler.Now = clock
	archiveHandler := handlers.NewArchiveHandler(engine)
	archiveHandler.Now = clock
	reportHandler := handlers.NewReportHandler(engine)
	reportHandler.Now = clock

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/budget", budgetHandler.GetBudget)
	protected.PUT("/budget", budgetHandler.SetBudget)
	protected.PUT("/budget/payday", budgetHandler.SetPayday)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:name", categoryHandler.RenameCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.POST("/tick", archiveHandler.Tick)
	archives := protected.Group("/archives")
	archives.GET("", archiveHandler.GetArchives)
	archives.GET("/:id", archiveHandler.GetArchiveByID)
	archives.GET("/:id/report", archiveHandler.GetArchiveReport)
	archives.DELETE("/:id", archiveHandler.DeleteArchive)

	reports := protected.Group("/reports")
	reports.GET("/categories", reportHandler.GetCategoryReport)
	reports.GET("/saved", reportHandler.GetSavedReport)
	reports.GET("/summary", reportHandler.GetSummary)

	app.Router = router
	return app
}

// openMode clears the password env vars and reloads configuration, so the
// auth middleware lets requests through.
func openMode(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PASSWORD", "")
	t.Setenv("APP_PASSWORD_HASH", "")
	if _, err := config.Load(); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
}

// setNow advances (or rewinds) the fake clock.
func (app *testApp) setNow(now time.Time) {
	app.now = now
}

// request makes an HTTP request to the test router and returns the recorder.
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

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// expectStatus fails the test when the recorder carries a different code.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
