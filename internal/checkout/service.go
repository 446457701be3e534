package checkout

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkotelnikov/webshop/internal/logging"
	"github.com/mkotelnikov/webshop/internal/models"
)

// Service converts a user's cart into a paid order inside one database
// transaction: every stock decrement, the order insert and the cart sweep
// commit together or not at all.
type Service struct {
	DB *gorm.DB
}

type ReceiptItem struct {
	ProductID       uint    `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

type Receipt struct {
	OrderID     uint          `json:"order_id"`
	TotalAmount float64       `json:"total_amount"`
	Status      string        `json:"status"`
	Items       []ReceiptItem `json:"items"`
}

func (s *Service) Checkout(ctx context.Context, userID uint) (*Receipt, error) {
	l := logging.FromContext(ctx).With("component", "checkout")

	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ascending product id keeps lock acquisition order identical across
		// concurrent checkouts sharing products.
		var cart []models.CartItem
		if err := tx.Where("user_id = ?", userID).
			Order("product_id ASC").
			Find(&cart).Error; err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		lines := make([]Line, 0, len(cart))
		for _, item := range cart {
			product, err := lockProduct(tx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &InsufficientStockError{ProductID: item.ProductID}
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
			// Price captured under the lock, not from an earlier read.
			lines = append(lines, Line{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		assembled, err := AssembleOrder(userID, lines, time.Now())
		if err != nil {
			return err
		}
		if err := tx.Create(assembled).Error; err != nil {
			return err
		}

		// Sweeps whatever the cart holds at commit time; a line added after
		// the snapshot is discarded with the rest.
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order = assembled
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("checkout_success",
		"user_id", userID,
		"order_id", order.ID,
		"total_amount", order.TotalAmount,
	)

	items := make([]ReceiptItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ReceiptItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	return &Receipt{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Items:       items,
	}, nil
}

// lockProduct reads the product under an exclusive row lock held until the
// enclosing transaction ends. Concurrent checkouts touching the same product
// serialize here. sqlite has no FOR UPDATE; its single-writer lock serializes
// transactions instead.
func lockProduct(tx *gorm.DB, productID uint) (*models.Product, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := q.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ProductID: productID}
		}
		return nil, err
	}
	return &product, nil
}
