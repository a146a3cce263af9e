package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user := currentUser(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), user.ID, user.Email, req)
	if err != nil {
		utils.SendAppError(c, "Failed to place order", err)
		return
	}

	utils.SendCreated(c, "Order placed successfully", order)
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	h.list(c, currentUser(c).ID)
}

// GetAllOrders lists every customer's orders for the admin console.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	h.list(c, 0)
}

func (h *OrderHandler) list(c *gin.Context, userID uint) {
	page, limit := utils.Pagination(c.Query("page"), c.Query("limit"), 10, 100)
	status := models.OrderStatus(c.Query("status"))

	orders, err := h.orderService.ListOrders(c.Request.Context(), userID, status, page, limit)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve orders", err)
		return
	}

	utils.SendSuccess(c, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	user := currentUser(c)
	order, err := h.orderService.GetOrder(c.Request.Context(), user.ID, user.Role, orderID)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve order", err)
		return
	}

	utils.SendSuccess(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), currentUser(c).ID, orderID)
	if err != nil {
		utils.SendAppError(c, "Failed to cancel order", err)
		return
	}

	utils.SendSuccess(c, "Order cancelled successfully", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		utils.SendAppError(c, "Failed to update order status", err)
		return
	}

	utils.SendSuccess(c, "Order status updated successfully", order)
}
