package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user := currentUser(c)

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	result, err := h.reviewService.CreateReview(c.Request.Context(), user.ID, req)
	if err != nil {
		utils.SendAppError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review created successfully", result)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "review")
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	result, err := h.reviewService.UpdateReview(c.Request.Context(), currentUser(c).ID, reviewID, req)
	if err != nil {
		utils.SendAppError(c, "Failed to update review", err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", result)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "review")
	if !ok {
		return
	}

	user := currentUser(c)
	result, err := h.reviewService.DeleteReview(c.Request.Context(), user.ID, user.Role, reviewID)
	if err != nil {
		utils.SendAppError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", result)
}

func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := pathID(c, "product_id", "product")
	if !ok {
		return
	}

	page, limit := utils.Pagination(c.Query("page"), c.Query("limit"), 10, 100)

	reviews, err := h.reviewService.GetProductReviews(c.Request.Context(), productID, page, limit)
	if err != nil {
		utils.SendAppError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) LikeReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "review")
	if !ok {
		return
	}

	var req struct {
		IsLike bool `json:"is_like"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.reviewService.LikeReview(c.Request.Context(), currentUser(c).ID, reviewID, req.IsLike); err != nil {
		utils.SendAppError(c, "Failed to like/dislike review", err)
		return
	}

	message := "Review liked successfully"
	if !req.IsLike {
		message = "Review disliked successfully"
	}

	utils.SendSuccess(c, message, nil)
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "review")
	if !ok {
		return
	}

	if err := h.reviewService.FlagReview(c.Request.Context(), reviewID); err != nil {
		utils.SendAppError(c, "Failed to flag review", err)
		return
	}

	utils.SendSuccess(c, "Review flagged successfully", nil)
}

func (h *ReviewHandler) GetFlaggedReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetFlaggedReviews(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, "Failed to fetch flagged reviews", err)
		return
	}

	utils.SendSuccess(c, "Flagged reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "review")
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	result, err := h.reviewService.ModerateReview(c.Request.Context(), reviewID, req.Action)
	if err != nil {
		utils.SendAppError(c, "Failed to moderate review", err)
		return
	}

	utils.SendSuccess(c, "Review moderated successfully", result)
}
