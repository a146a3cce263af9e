package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items, err := h.wishlistService.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve wishlist", err)
		return
	}
	utils.SendSuccess(c, "Wishlist retrieved successfully", items)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	productID, ok := pathID(c, "product_id", "product")
	if !ok {
		return
	}

	item, err := h.wishlistService.Add(c.Request.Context(), currentUser(c).ID, productID)
	if err != nil {
		utils.SendAppError(c, "Failed to add to wishlist", err)
		return
	}
	utils.SendSuccess(c, "Product added to wishlist", item)
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := pathID(c, "product_id", "product")
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), currentUser(c).ID, productID); err != nil {
		utils.SendAppError(c, "Failed to remove from wishlist", err)
		return
	}
	utils.SendSuccess(c, "Product removed from wishlist", nil)
}
