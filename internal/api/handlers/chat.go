package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req models.CreateChatSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request data")
			return
		}
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		utils.SendAppError(c, "Failed to create chat session", err)
		return
	}
	utils.SendCreated(c, "Chat session created successfully", session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.Query("archived"))

	sessions, err := h.chatService.ListSessions(c.Request.Context(), currentUser(c).ID, archived)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve chat sessions", err)
		return
	}
	utils.SendSuccess(c, "Chat sessions retrieved successfully", sessions)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	messages, err := h.chatService.GetMessages(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve chat messages", err)
		return
	}
	utils.SendSuccess(c, "Chat messages retrieved successfully", messages)
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	message, err := h.chatService.PostUserMessage(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		utils.SendAppError(c, "Failed to send chat message", err)
		return
	}
	utils.SendCreated(c, "Chat message sent successfully", message)
}

// PostAgentMessage lets shop staff reply in a customer's session.
func (h *ChatHandler) PostAgentMessage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	message, err := h.chatService.PostAgentMessage(c.Request.Context(), id, req)
	if err != nil {
		utils.SendAppError(c, "Failed to send chat reply", err)
		return
	}
	utils.SendCreated(c, "Chat reply sent successfully", message)
}

func (h *ChatHandler) ArchiveSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.chatService.ArchiveSession(c.Request.Context(), currentUser(c).ID, id); err != nil {
		utils.SendAppError(c, "Failed to archive chat session", err)
		return
	}
	utils.SendSuccess(c, "Chat session archived successfully", nil)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	total, err := h.chatService.TotalUnread(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		utils.SendAppError(c, "Failed to count unread messages", err)
		return
	}
	utils.SendSuccess(c, "Unread count retrieved successfully", gin.H{"unread": total})
}
