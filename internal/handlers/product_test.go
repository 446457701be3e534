package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotelnikov/webshop/internal/models"
)

func seedProducts(t *testing.T, h *ProductHandler) {
	t.Helper()
	for _, p := range []models.Product{
		{Name: "mug", Description: "ceramic mug", Category: "kitchen", Price: 10.00, Stock: 5},
		{Name: "lamp", Description: "desk lamp", Category: "home", Price: 25.00, Stock: 2},
		{Name: "kettle", Description: "electric kettle", Category: "kitchen", Price: 40.00, Stock: 7},
	} {
		require.NoError(t, h.DB.Create(&p).Error)
	}
}

func TestCreateProduct(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	payload := map[string]any{
		"name":        "mug",
		"description": "ceramic mug",
		"category":    "kitchen",
		"price":       10.00,
		"stock":       5,
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/admin/products", payload)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "mug", p.Name)
	assert.Equal(t, 5, p.Stock)
}

func TestCreateProduct_RejectsNegativeStock(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "mug", "price": 10.00, "stock": -1,
	})
	he := httpError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetProducts_FilterAndPaginate(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}
	seedProducts(t, h)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products?category=kitchen&sort_by=price", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.EqualValues(t, 2, resp.Meta.Total)
	assert.Equal(t, "mug", resp.Data[0].Name)
	assert.Equal(t, "kettle", resp.Data[1].Name)
}

func TestGetProducts_PriceRange(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}
	seedProducts(t, h)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products?min_price=20&max_price=30", nil)
	require.NoError(t, h.GetProducts(c))

	var resp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "lamp", resp.Data[0].Name)
}

func TestGetProduct(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}
	seedProducts(t, h)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "mug", p.Name)

	_, c = doJSONRequest(t, http.MethodGet, "/api/v1/products/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	he := httpError(t, h.GetProduct(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestPatchProduct(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}
	seedProducts(t, h)

	rec, c := doJSONRequest(t, http.MethodPatch, "/api/v1/admin/products/1", map[string]any{
		"name":        "mug",
		"description": "ceramic mug",
		"category":    "kitchen",
		"price":       12.00,
		"stock":       8,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, 12.00, p.Price)
	assert.Equal(t, 8, p.Stock)
}

func TestDeleteProduct(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}
	seedProducts(t, h)

	rec, c := doJSONRequest(t, http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c = doJSONRequest(t, http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	he := httpError(t, h.DeleteProduct(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}
