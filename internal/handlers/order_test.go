package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotelnikov/webshop/internal/models"
)

func TestGetOrders(t *testing.T) {
	db := initTestDB(t)
	h := &OrderHandler{DB: db}

	require.NoError(t, db.Create(&models.Order{
		UserID: 1, TotalAmount: 20.00, Status: models.OrderStatusPaid, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Order{
		UserID: 1, TotalAmount: 35.00, Status: models.OrderStatusPaid, CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Order{
		UserID: 2, TotalAmount: 99.00, Status: models.OrderStatusPaid, CreatedAt: time.Now(),
	}).Error)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders", nil)
	asUser(c, 1)
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, 35.00, orders[0].TotalAmount) // newest first
	assert.Equal(t, 20.00, orders[1].TotalAmount)
}

func TestGetOrder_WithItems(t *testing.T) {
	db := initTestDB(t)
	h := &OrderHandler{DB: db}

	order := models.Order{
		UserID:      1,
		TotalAmount: 20.00,
		Status:      models.OrderStatusPaid,
		CreatedAt:   time.Now(),
		Items: []models.OrderItem{
			{ProductID: 3, Quantity: 2, PriceAtPurchase: 10.00},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders/1", nil)
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(3), got.Items[0].ProductID)
	assert.Equal(t, 10.00, got.Items[0].PriceAtPurchase)
}

func TestGetOrder_ForeignOrderHidden(t *testing.T) {
	db := initTestDB(t)
	h := &OrderHandler{DB: db}

	require.NoError(t, db.Create(&models.Order{
		UserID: 2, TotalAmount: 99.00, Status: models.OrderStatusPaid, CreatedAt: time.Now(),
	}).Error)

	_, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders/1", nil)
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	he := httpError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}
