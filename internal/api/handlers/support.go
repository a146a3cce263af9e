package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type SupportHandler struct {
	supportService *services.SupportService
}

func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

func (h *SupportHandler) OpenTicket(c *gin.Context) {
	var req models.OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user := currentUser(c)
	ticket, err := h.supportService.OpenTicket(c.Request.Context(), user.ID, user.Email, req)
	if err != nil {
		utils.SendAppError(c, "Failed to open ticket", err)
		return
	}
	utils.SendCreated(c, "Ticket opened successfully", ticket)
}

func (h *SupportHandler) ListTickets(c *gin.Context) {
	user := currentUser(c)
	tickets, err := h.supportService.ListTickets(c.Request.Context(), user.ID, user.Role, models.TicketStatus(c.Query("status")))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve tickets", err)
		return
	}
	utils.SendSuccess(c, "Tickets retrieved successfully", tickets)
}

func (h *SupportHandler) GetTicket(c *gin.Context) {
	ticketID, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	user := currentUser(c)
	ticket, err := h.supportService.GetTicket(c.Request.Context(), user.ID, user.Role, ticketID)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve ticket", err)
		return
	}
	utils.SendSuccess(c, "Ticket retrieved successfully", ticket)
}

func (h *SupportHandler) PostMessage(c *gin.Context) {
	ticketID, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user := currentUser(c)
	message, err := h.supportService.PostMessage(c.Request.Context(), user.ID, user.Role, ticketID, req)
	if err != nil {
		utils.SendAppError(c, "Failed to post message", err)
		return
	}
	utils.SendCreated(c, "Message posted successfully", message)
}

func (h *SupportHandler) CloseTicket(c *gin.Context) {
	ticketID, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	ticket, err := h.supportService.CloseTicket(c.Request.Context(), ticketID)
	if err != nil {
		utils.SendAppError(c, "Failed to close ticket", err)
		return
	}
	utils.SendSuccess(c, "Ticket closed successfully", ticket)
}

func (h *SupportHandler) UnreadCount(c *gin.Context) {
	user := currentUser(c)
	count, err := h.supportService.UnreadCount(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		utils.SendAppError(c, "Failed to count unread messages", err)
		return
	}
	utils.SendSuccess(c, "Unread count retrieved successfully", gin.H{"unread": count})
}
