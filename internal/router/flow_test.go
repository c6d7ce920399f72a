package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"spice/internal/models"
	"spice/internal/testutil"
)

func TestMenuItemFlow_ImageLifecycle(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	vegID := app.createSubCategory(t, "Veg", pizzaID)

	// Step 1: Create without an upload; the default image is copied.
	rec := app.multipart(t, "POST", "/api/v1/admin/menu-items", map[string]string{
		"name":            "Margherita",
		"price":           "12.50",
		"spicyness":       "mild",
		"category_id":     pizzaID,
		"sub_category_id": vegID,
	}, "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	item := parseJSON(t, rec)["menu_item"].(map[string]interface{})
	itemID := item["id"].(string)
	pngPath := "/images/" + itemID + ".png"
	if item["image"] != pngPath {
		t.Fatalf("expected image %s, got %v", pngPath, item["image"])
	}

	// Step 2: The copied image is served.
	rec = app.request("GET", pngPath, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected image to be served, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), testutil.DefaultImageContent) {
		t.Error("served image does not match the default image")
	}

	// Step 3: Replace the image with a jpg upload.
	rec = app.multipart(t, "PUT", "/api/v1/admin/menu-items/"+itemID, map[string]string{
		"name":            "Margherita",
		"description":     "Wood fired",
		"price":           "13.00",
		"spicyness":       "mild",
		"category_id":     pizzaID,
		"sub_category_id": vegID,
	}, "photo.jpg", []byte("jpeg-data"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	item = parseJSON(t, rec)["menu_item"].(map[string]interface{})
	jpgPath := "/images/" + itemID + ".jpg"
	if item["image"] != jpgPath {
		t.Errorf("expected image %s, got %v", jpgPath, item["image"])
	}
	price, err := decimal.NewFromString(item["price"].(string))
	if err != nil || !price.Equal(decimal.NewFromInt(13)) {
		t.Errorf("expected price 13, got %v", item["price"])
	}
	testutil.AssertAssetMissing(t, app.Store, itemID+".png")
	rec = app.request("GET", jpgPath, "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg-data" {
		t.Errorf("expected new image to be served, got %d %q", rec.Code, rec.Body.String())
	}

	// Step 4: Delete removes the row and the file.
	rec = app.request("DELETE", "/api/v1/admin/menu-items/"+itemID, "", app.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testutil.AssertAssetMissing(t, app.Store, itemID+".jpg")
	rec = app.request("GET", "/api/v1/admin/menu-items/"+itemID, "", app.Token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}

	// The default image itself is untouched.
	testutil.AssertAssetExists(t, app.Store, testutil.DefaultImageName)
}

func TestMenuItemFlow_InvalidImageLeavesNothingBehind(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	vegID := app.createSubCategory(t, "Veg", pizzaID)

	rec := app.multipart(t, "POST", "/api/v1/admin/menu-items", map[string]string{
		"name":            "Calzone",
		"price":           "9.00",
		"category_id":     pizzaID,
		"sub_category_id": vegID,
	}, "menu.svg", []byte("<svg/>"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_IMAGE" {
		t.Errorf("expected INVALID_IMAGE, got %s", code)
	}

	var count int64
	app.DB.Model(&models.MenuItem{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no menu items, got %d", count)
	}
	entries, err := testutil.ListAssets(app.Store)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(entries) != 1 || entries[0] != testutil.DefaultImageName {
		t.Errorf("expected only the default image, got %v", entries)
	}
}

func TestStaticImages_HideTempUploads(t *testing.T) {
	app := setupApp(t)
	if err := os.WriteFile(filepath.Join(app.Store.Dir(), ".upload-123"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("seed temp file: %v", err)
	}

	rec := app.request("GET", "/images/.upload-123", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for temp upload, got %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("partial")) {
		t.Error("temp upload content was served")
	}

	rec = app.request("GET", "/images/"+testutil.DefaultImageName, "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected default image to be served, got %d", rec.Code)
	}
}

func TestMenuItemFlow_SubCategoryMustBelongToCategory(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	sushiID := app.createCategory(t, "Sushi")
	rollsID := app.createSubCategory(t, "Rolls", sushiID)

	rec := app.multipart(t, "POST", "/api/v1/admin/menu-items", map[string]string{
		"name":            "Confused",
		"price":           "5",
		"category_id":     pizzaID,
		"sub_category_id": rollsID,
	}, "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %s", code)
	}
}

func TestMenuItemFlow_ListIsPaginated(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	vegID := app.createSubCategory(t, "Veg", pizzaID)

	for _, name := range []string{"Capricciosa", "Diavola", "Funghi"} {
		rec := app.multipart(t, "POST", "/api/v1/admin/menu-items", map[string]string{
			"name": name, "price": "10", "category_id": pizzaID, "sub_category_id": vegID,
		}, "", nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s failed: %d %s", name, rec.Code, rec.Body.String())
		}
	}

	rec := app.request("GET", "/api/v1/admin/menu-items?page=2&page_size=2", "", app.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 3 || result["total_pages"].(float64) != 2 {
		t.Errorf("unexpected page metadata %v", result)
	}
	data := result["data"].([]interface{})
	if len(data) != 1 || data[0].(map[string]interface{})["name"] != "Funghi" {
		t.Errorf("expected Funghi on page 2, got %v", data)
	}
	category := data[0].(map[string]interface{})["category"].(map[string]interface{})
	if category["name"] != "Pizza" {
		t.Errorf("expected category to be preloaded, got %v", category)
	}
}

func TestSubCategoryFlow_NameUniquePerCategory(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	pastaID := app.createCategory(t, "Pasta")
	app.createSubCategory(t, "Veg", pizzaID)

	// Same name under the same category is rejected with the category named.
	rec := app.request("POST", "/api/v1/admin/subcategories",
		`{"name":"Veg","category_id":"`+pizzaID+`"}`, app.Token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	msg := parseJSON(t, rec)["error"].(map[string]interface{})["message"]
	if msg != "Error: SubCategory exists under Pizza category. Please use another name." {
		t.Errorf("unexpected message %q", msg)
	}

	// Same name under another category is fine.
	app.createSubCategory(t, "Veg", pastaID)

	rec = app.request("GET", "/api/v1/admin/subcategories/names", "", app.Token)
	names := parseJSON(t, rec)["names"].([]interface{})
	if len(names) != 1 || names[0] != "Veg" {
		t.Errorf("expected [Veg], got %v", names)
	}

	// The dropdown feed is scoped to one category.
	rec = app.request("GET", "/api/v1/admin/categories/"+pastaID+"/subcategories", "", app.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var options []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &options); err != nil {
		t.Fatalf("expected option array: %v", err)
	}
	if len(options) != 1 || options[0]["name"] != "Veg" || options[0]["id"] == "" {
		t.Errorf("unexpected options %v", options)
	}
}

func TestCategoryFlow_DeleteBlockedWhileReferenced(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	vegID := app.createSubCategory(t, "Veg", pizzaID)

	rec := app.request("DELETE", "/api/v1/admin/categories/"+pizzaID, "", app.Token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CATEGORY_IN_USE" {
		t.Errorf("expected CATEGORY_IN_USE, got %s", code)
	}

	rec = app.request("DELETE", "/api/v1/admin/subcategories/"+vegID, "", app.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("DELETE", "/api/v1/admin/categories/"+pizzaID, "", app.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuditFlow_MutationsAreRecorded(t *testing.T) {
	app := setupApp(t)
	pizzaID := app.createCategory(t, "Pizza")
	app.request("PUT", "/api/v1/admin/categories/"+pizzaID, `{"name":"Pizzas"}`, app.Token)

	var logs []models.AuditLog
	if err := app.DB.Order("created_at ASC").Find(&logs).Error; err != nil {
		t.Fatalf("query audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(logs))
	}
	for _, l := range logs {
		if l.Actor != "manager@spice.com" || l.ResourceID != pizzaID {
			t.Errorf("unexpected audit entry %+v", l)
		}
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	t.Run("admin routes require a token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/admin/categories", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("health is public", func(t *testing.T) {
		rec := app.request("GET", "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("unknown route uses error envelope", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/nope", "", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("notification is accepted without a relay", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/admin/notifications/email",
			`{"to":"guest@example.com","subject":"Hi","body":"<b>Hi</b>"}`, app.Token)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/admin/categories", nil)
	req.Header.Set("Origin", "http://admin.spice.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://admin.spice.test" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}
