package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/webshop/internal/logging"
	authmw "github.com/mkotelnikov/webshop/internal/middleware/auth"
	"github.com/mkotelnikov/webshop/internal/models"
	"github.com/mkotelnikov/webshop/internal/util"
)

type OrderHandler struct {
	DB *gorm.DB
}

// GetOrders lists the caller's order history, newest first, without items.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_history")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var orders []models.Order
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		l.Error("order_history_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("order_history_success", "user_id", userID, "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with its items; orders of other users read as
// not found.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_detail")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("order_detail_failed", "status", 404, "user_id", userID, "order_id", orderID)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("order_detail_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, order)
}
