package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spice/internal/errors"
	"spice/internal/models"
)

func setupSubCategoryRouter(handler *SubCategoryHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/subcategories", handler.CreateSubCategory)
	r.GET("/subcategories", handler.ListSubCategories)
	r.GET("/subcategories/names", handler.ListSubCategoryNames)
	r.GET("/subcategories/:id", handler.GetSubCategoryByID)
	r.PUT("/subcategories/:id", handler.UpdateSubCategory)
	r.DELETE("/subcategories/:id", handler.DeleteSubCategory)
	r.GET("/categories/:id/subcategories", handler.GetSubCategory)
	return r
}

func TestSubCategoryHandler_CreateSubCategory(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		var gotName, gotCategory string
		svc := &mockSubCategoryService{
			createSubCategoryFn: func(name, categoryID string) (*models.SubCategory, error) {
				gotName, gotCategory = name, categoryID
				return &models.SubCategory{Base: models.Base{ID: testSubCategoryID}, Name: name, CategoryID: categoryID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupSubCategoryRouter(NewSubCategoryHandler(svc, audit))

		rec := doRequest(r, "POST", "/subcategories", `{"name":"Veg","category_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "Veg" || gotCategory != testCategoryID {
			t.Errorf("unexpected service args %q %q", gotName, gotCategory)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_SUBCATEGORY" {
			t.Errorf("expected CREATE_SUBCATEGORY audit entry, got %v", actions)
		}
	})

	t.Run("returns 409 with the category name in the message", func(t *testing.T) {
		msg := "Error: SubCategory exists under Pizza category. Please use another name."
		svc := &mockSubCategoryService{
			createSubCategoryFn: func(_, _ string) (*models.SubCategory, error) {
				return nil, apperrors.WithMessage(apperrors.ErrSubCategoryExists, msg)
			},
		}
		r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/subcategories", `{"name":"Veg","category_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "SUBCATEGORY_EXISTS")
		if got := result["error"].(map[string]interface{})["message"]; got != msg {
			t.Errorf("expected message %q, got %q", msg, got)
		}
	})

	t.Run("returns 400 on bad category id", func(t *testing.T) {
		r := setupSubCategoryRouter(NewSubCategoryHandler(&mockSubCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/subcategories", `{"name":"Veg","category_id":"7"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestSubCategoryHandler_ListSubCategoryNames(t *testing.T) {
	svc := &mockSubCategoryService{
		listDistinctNamesFn: func() ([]string, error) { return []string{"Meat", "Veg"}, nil },
	}
	r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/subcategories/names", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	names := parseJSON(t, rec)["names"].([]interface{})
	if len(names) != 2 || names[0] != "Meat" || names[1] != "Veg" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestSubCategoryHandler_ListSubCategories(t *testing.T) {
	svc := &mockSubCategoryService{
		listSubCategoriesFn: func() ([]models.SubCategory, error) {
			return []models.SubCategory{{Name: "Veg"}}, nil
		},
	}
	r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/subcategories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if list := parseJSON(t, rec)["sub_categories"].([]interface{}); len(list) != 1 {
		t.Errorf("expected 1 sub category, got %d", len(list))
	}
}

func TestSubCategoryHandler_GetSubCategoryByID(t *testing.T) {
	svc := &mockSubCategoryService{
		getSubCategoryByIDFn: func(_ string) (*models.SubCategory, error) {
			return nil, apperrors.ErrSubCategoryNotFound
		},
	}
	r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/subcategories/"+testSubCategoryID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "SUBCATEGORY_NOT_FOUND")
}

func TestSubCategoryHandler_UpdateSubCategory(t *testing.T) {
	var gotID, gotName string
	svc := &mockSubCategoryService{
		updateSubCategoryFn: func(id, name string) (*models.SubCategory, error) {
			gotID, gotName = id, name
			return &models.SubCategory{Base: models.Base{ID: id}, Name: name}, nil
		},
	}
	r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/subcategories/"+testSubCategoryID, `{"name":"Vegan"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != testSubCategoryID || gotName != "Vegan" {
		t.Errorf("unexpected service args %q %q", gotID, gotName)
	}
}

func TestSubCategoryHandler_DeleteSubCategory(t *testing.T) {
	svc := &mockSubCategoryService{
		deleteSubCategoryFn: func(_ string) error { return apperrors.ErrSubCategoryInUse },
	}
	r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/subcategories/"+testSubCategoryID, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "SUBCATEGORY_IN_USE")
}

func TestSubCategoryHandler_GetSubCategory(t *testing.T) {
	t.Run("returns id and name options", func(t *testing.T) {
		svc := &mockSubCategoryService{
			listSubCategoriesByCategoryFn: func(categoryID string) ([]models.SubCategory, error) {
				if categoryID != testCategoryID {
					t.Errorf("unexpected category %s", categoryID)
				}
				return []models.SubCategory{
					{Base: models.Base{ID: testSubCategoryID}, Name: "Veg", CategoryID: categoryID},
				}, nil
			},
		}
		r := setupSubCategoryRouter(NewSubCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories/"+testCategoryID+"/subcategories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var options []map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &options); err != nil {
			t.Fatalf("expected JSON array: %v", err)
		}
		if len(options) != 1 {
			t.Fatalf("expected 1 option, got %d", len(options))
		}
		if options[0]["id"] != testSubCategoryID || options[0]["name"] != "Veg" {
			t.Errorf("unexpected option %v", options[0])
		}
		if _, ok := options[0]["category_id"]; ok {
			t.Error("options should only carry id and name")
		}
	})

	t.Run("returns empty array for category without sub categories", func(t *testing.T) {
		r := setupSubCategoryRouter(NewSubCategoryHandler(&mockSubCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories/"+testCategoryID+"/subcategories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := rec.Body.String(); body != "[]" {
			t.Errorf("expected [], got %s", body)
		}
	})
}
