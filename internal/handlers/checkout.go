package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkotelnikov/webshop/internal/checkout"
	"github.com/mkotelnikov/webshop/internal/logging"
	authmw "github.com/mkotelnikov/webshop/internal/middleware/auth"
	"github.com/mkotelnikov/webshop/internal/mykafka"
)

type CheckoutHandler struct {
	Svc      *checkout.Service
	Producer *mykafka.Producer
}

func (h *CheckoutHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Checkout runs the cart-to-order transaction. Failures are terminal for the
// attempt; the client retries by calling again against fresh cart and stock.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	receipt, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		var notFound *checkout.ProductNotFoundError
		var noStock *checkout.InsufficientStockError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			l.Warn("checkout_failed", "status", 400, "reason", "empty_cart", "user_id", userID)
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Cart is empty"})
		case errors.As(err, &notFound):
			l.Warn("checkout_failed", "status", 404, "reason", "product_not_found", "user_id", userID, "product_id", notFound.ProductID)
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": fmt.Sprintf("Product ID %d not found", notFound.ProductID),
			})
		case errors.As(err, &noStock):
			l.Warn("checkout_failed", "status", 400, "reason", "insufficient_stock", "user_id", userID, "product_id", noStock.ProductID)
			return c.JSON(http.StatusBadRequest, echo.Map{
				"detail": fmt.Sprintf("Not enough stock for Product ID %d", noStock.ProductID),
			})
		default:
			l.Error("checkout_failed", "status", 500, "reason", "db_error", "user_id", userID, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Database error"})
		}
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": receipt.OrderID,
		"total":   receipt.TotalAmount,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Checkout successful",
		"order_id":     receipt.OrderID,
		"total_amount": receipt.TotalAmount,
		"items":        receipt.Items,
		"status":       receipt.Status,
	})
}
