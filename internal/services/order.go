package services

import (
	"context"
	"errors"
	"math"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewOrderService builds the service. notifier may be nil.
func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// CreateOrder places an order for the given items. Prices are snapshotted
// and stock is reserved in the same transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, email string, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}

	quantities := make(map[uint]int)
	var productOrder []uint
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validation("quantity must be at least 1")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productOrder = append(productOrder, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	order := &models.Order{
		UserID:          userID,
		ContactEmail:    email,
		Status:          models.OrderPending,
		ShippingAddress: utils.SanitizeString(req.ShippingAddress),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, productID := range productOrder {
			qty := quantities[productID]

			var product models.Product
			if err := tx.Where("id = ? AND is_active = ?", productID, true).
				First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("product", productID)
				}
				return apperrors.Unexpected("failed to fetch product", err)
			}
			if product.Stock < qty {
				return apperrors.Validation("insufficient stock for %s", product.Name)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", productID, qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", qty))
			if res.Error != nil {
				return apperrors.Unexpected("failed to reserve stock", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.Validation("insufficient stock for %s", product.Name)
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  qty,
			})
			total += product.Price * float64(qty)
		}
		order.Total = math.Round(total*100) / 100

		if err := tx.Create(order).Error; err != nil {
			return apperrors.Unexpected("failed to create order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
	}).Info("order created")
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID uint, role string, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, apperrors.Unexpected("failed to fetch order", err)
	}
	if order.UserID != userID && role != utils.RoleAdmin {
		return nil, apperrors.NotFound("order", orderID)
	}
	return &order, nil
}

// ListOrders returns userID's orders, or every order when userID is zero.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, status models.OrderStatus, page, limit int) (*OrderListResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Unexpected("failed to count orders", err)
	}

	orders := make([]models.Order, 0)
	if err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch orders", err)
	}

	return &OrderListResponse{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// UpdateStatus moves an order along its lifecycle. Cancelling returns the
// reserved stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	order, err := s.transition(ctx, orderID, func(o *models.Order) error {
		if !o.Status.CanTransition(next) {
			return apperrors.Validation("cannot move order from %s to %s", o.Status, next)
		}
		return nil
	}, next)
	if err != nil {
		return nil, err
	}
	s.notify(order)
	return order, nil
}

// CancelOrder lets a customer cancel their own order while it is pending.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.transition(ctx, orderID, func(o *models.Order) error {
		if o.UserID != userID {
			return apperrors.NotFound("order", orderID)
		}
		if o.Status != models.OrderPending {
			return apperrors.Validation("only pending orders can be cancelled")
		}
		return nil
	}, models.OrderCancelled)
	if err != nil {
		return nil, err
	}
	s.notify(order)
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, orderID uint, check func(*models.Order) error, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return apperrors.Unexpected("failed to fetch order", err)
		}
		if err := check(&order); err != nil {
			return err
		}
		return applyTransition(tx, &order, next)
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{"order_id": order.ID, "status": order.Status}).Info("order status changed")
	return &order, nil
}

// applyTransition writes the new status only if the row still holds the
// status order was loaded with, and restores stock after a successful cancel.
func applyTransition(tx *gorm.DB, order *models.Order, next models.OrderStatus) error {
	from := order.Status
	order.MoveTo(next)

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		UpdateColumns(order.LifecycleColumns())
	if res.Error != nil {
		return apperrors.Unexpected("failed to update order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Validation("order %d is no longer %s", order.ID, from)
	}

	if next == models.OrderCancelled {
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return apperrors.Unexpected("failed to restore stock", err)
			}
		}
	}
	return nil
}

func (s *OrderService) notify(order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrderStatus(order); err != nil {
		logger.WithFields(logger.Fields{"order_id": order.ID, "error": err}).Warn("order status email failed")
	}
}
