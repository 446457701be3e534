package checkout

import (
	"time"

	"github.com/mkotelnikov/webshop/internal/models"
)

// Line is one priced reservation: the quantity taken from stock and the
// product price captured while the row lock was held.
type Line struct {
	ProductID       uint
	Quantity        int
	PriceAtPurchase float64
}

// AssembleOrder builds the order aggregate from priced reservations. Pure
// aggregation: no I/O, total is the exact sum of quantity x price_at_purchase.
func AssembleOrder(userID uint, lines []Line, now time.Time) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
		})
		total += float64(l.Quantity) * l.PriceAtPurchase
	}

	return &models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPaid,
		CreatedAt:   now,
		Items:       items,
	}, nil
}
