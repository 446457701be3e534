package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `gorm:"not null"                  json:"description"`
	Category    string  `gorm:"index;not null"            json:"category"`
	Price       float64 `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int     `gorm:"not null;check:stock >= 0" json:"stock"`
	ImageURL    string  `json:"image_url"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;index;not null"    json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Used      bool      `gorm:"default:false"   json:"used"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  int  `gorm:"not null;check:quantity > 0" json:"quantity"`
}

type Order struct {
	ID          uint        `gorm:"primaryKey"     json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	TotalAmount float64     `gorm:"not null"       json:"total_amount"`
	Status      string      `gorm:"not null"       json:"status"`
	CreatedAt   time.Time   `gorm:"not null"       json:"created_at"`
	Items       []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem freezes the product price at the moment of checkout, so later
// catalog price changes never rewrite order history.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey"                  json:"id"`
	OrderID         uint    `gorm:"index;not null"              json:"order_id"`
	ProductID       uint    `gorm:"not null"                    json:"product_id"`
	Quantity        int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null"                    json:"price_at_purchase"`
}
