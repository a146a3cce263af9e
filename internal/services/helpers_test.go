package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/princeprakhar/eyewear-backend/internal/database/databasetest"
	"github.com/princeprakhar/eyewear-backend/internal/models"
)

type recordingNotifier struct {
	mu       sync.Mutex
	support  []string
	statuses []models.OrderStatus
	err      error
}

func (n *recordingNotifier) NotifySupportMessage(ticket *models.SupportTicket, message *models.SupportMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.support = append(n.support, message.Body)
	return n.err
}

func (n *recordingNotifier) NotifyOrderStatus(order *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, order.Status)
	return n.err
}

var skuSeq int

func newProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	skuSeq++
	p := &models.Product{
		Name:     name,
		Brand:    "Lumen",
		SKU:      fmt.Sprintf("SKU-%d", skuSeq),
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func testDB(t *testing.T) (*gorm.DB, context.Context) {
	t.Helper()
	return databasetest.New(t), context.Background()
}
