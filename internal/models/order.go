package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	UserID          uint        `json:"user_id" gorm:"not null;index"`
	ContactEmail    string      `json:"contact_email"`
	Status          OrderStatus `json:"status" gorm:"size:20;not null;index"`
	ShippingAddress string      `json:"shipping_address" gorm:"not null"`
	Total           float64     `json:"total" gorm:"not null"`
	Items           []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	ConfirmedAt     *time.Time  `json:"confirmed_at"`
	ShippedAt       *time.Time  `json:"shipped_at"`
	DeliveredAt     *time.Time  `json:"delivered_at"`
	CancelledAt     *time.Time  `json:"cancelled_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
}

// BeforeSave stamps the lifecycle timestamp of the status the order is
// entering. A timestamp that is already set is left alone.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderPending
	}
	o.stampLifecycle(time.Now().UTC())
	return nil
}

// MoveTo sets the status and stamps its lifecycle timestamp.
func (o *Order) MoveTo(next OrderStatus) {
	now := time.Now().UTC()
	o.Status = next
	o.UpdatedAt = now
	o.stampLifecycle(now)
}

// LifecycleColumns is the column set written when the status changes.
func (o *Order) LifecycleColumns() map[string]interface{} {
	return map[string]interface{}{
		"status":       o.Status,
		"confirmed_at": o.ConfirmedAt,
		"shipped_at":   o.ShippedAt,
		"delivered_at": o.DeliveredAt,
		"cancelled_at": o.CancelledAt,
		"updated_at":   o.UpdatedAt,
	}
}

func (o *Order) stampLifecycle(now time.Time) {
	switch o.Status {
	case OrderConfirmed:
		stamp(&o.ConfirmedAt, now)
	case OrderShipped:
		stamp(&o.ShippedAt, now)
	case OrderDelivered:
		stamp(&o.DeliveredAt, now)
	case OrderCancelled:
		stamp(&o.CancelledAt, now)
	}
}

func stamp(field **time.Time, now time.Time) {
	if *field == nil {
		*field = &now
	}
}

type CreateOrderRequest struct {
	ShippingAddress string                   `json:"shipping_address" binding:"required,max=500"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
