package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/civitoken/server/internal/api"
	"github.com/civitoken/server/internal/config"
	"github.com/civitoken/server/internal/repository"
	"github.com/civitoken/server/internal/seed"
	"github.com/civitoken/server/internal/service"
)

// DemoEmail is the seeded resident every test acts as
const DemoEmail = seed.DemoResidentEmail

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository repository.Repository
	Service    service.Service
	DB         *sqlx.DB
}

// SetupTestContext creates a new test context with initialized dependencies.
// Each call gets its own named in-memory database so tests stay isolated.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := config.LoadConfig()
	cfg.Database.Name = "test-" + uuid.New().String()

	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	repo := repository.NewSQLiteRepository(db)

	err = seed.Run(context.Background(), repo)
	require.NoError(t, err, "Failed to seed test data")

	// Fixed-seed RNG keeps pseudonym output deterministic
	anonNames := service.NewAnonNamer(rand.New(rand.NewSource(1)))
	svc := service.NewDefaultService(repo, anonNames, seed.DemoResidentEmail)

	handler := api.NewHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		DB:         db,
	}
}

// CleanupTestContext cleans up test resources. Closing the last connection
// discards the in-memory database.
func CleanupTestContext(tc *TestContext) {
	if tc.DB != nil {
		tc.DB.Close()
	}
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals a response body into out
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "Failed to decode response body")
}
