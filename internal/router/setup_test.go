package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"spice/internal/assets"
	"spice/internal/config"
	"spice/internal/logger"
	"spice/internal/middleware"
	"spice/internal/services"
	"spice/internal/testutil"
	"spice/internal/validator"
)

const testSecret = "router-test-secret"

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Store  *assets.Store
	Router *gin.Engine
	Token  string
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full stack backed by in-memory SQLite and a temporary
// image directory.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	store := testutil.SetupAssetStore(t)

	cfg := &config.Config{
		Env:                "test",
		CORSAllowedOrigins: []string{"http://admin.spice.test"},
		JWTSecret:          testSecret,
		ImagesDir:          store.Dir(),
		DefaultFoodImage:   testutil.DefaultImageName,
		MaxUploadBytes:     1 << 20,
	}

	notifier, err := services.NewNotificationServiceWithMailer(nil, "admin@spice.com", "Spice Restaurant", 1)
	if err != nil {
		t.Fatalf("failed to create notification service: %v", err)
	}
	t.Cleanup(notifier.Close)

	engine := New(cfg, Services{
		Category:     services.NewCategoryService(db),
		SubCategory:  services.NewSubCategoryService(db),
		MenuItem:     services.NewMenuItemService(db, store, cfg.DefaultFoodImage),
		Notification: notifier,
		Audit:        services.NewAuditService(db),
	})

	return &testApp{DB: db, Store: store, Router: engine, Token: managerToken(t)}
}

func managerToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(testSecret, "manager@spice.com", middleware.RoleManager, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// request makes a JSON request to the test router and returns the recorder.
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

// multipart sends a form with an optional "image" part as the manager.
func (app *testApp) multipart(t *testing.T, method, path string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+app.Token)
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

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// createCategory creates a category and returns its id.
func (app *testApp) createCategory(t *testing.T, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/admin/categories", `{"name":"`+name+`"}`, app.Token)
	if rec.Code != 201 {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// createSubCategory creates a sub category and returns its id.
func (app *testApp) createSubCategory(t *testing.T, name, categoryID string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/admin/subcategories",
		`{"name":"`+name+`","category_id":"`+categoryID+`"}`, app.Token)
	if rec.Code != 201 {
		t.Fatalf("create sub category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["sub_category"].(map[string]interface{})["id"].(string)
}
