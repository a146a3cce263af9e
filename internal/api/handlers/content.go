package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

// ContentHandler serves the localized storefront content. Reads honour the
// locale picked by the locale middleware.
type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) ListCategories(c *gin.Context) {
	categories, err := h.contentService.ListCategories(c.Request.Context(), requestLocale(c))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve categories", err)
		return
	}
	utils.SendSuccess(c, "Categories retrieved successfully", categories)
}

func (h *ContentHandler) GetCategory(c *gin.Context) {
	category, err := h.contentService.GetCategory(c.Request.Context(), c.Param("slug"), requestLocale(c))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve category", err)
		return
	}
	utils.SendSuccess(c, "Category retrieved successfully", category)
}

func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentService.GetPage(c.Request.Context(), c.Param("slug"), requestLocale(c))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve page", err)
		return
	}
	utils.SendSuccess(c, "Page retrieved successfully", page)
}

func (h *ContentHandler) ListFAQs(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		id, ok := utils.ParseID(raw)
		if !ok {
			utils.SendValidationError(c, "Invalid category ID")
			return
		}
		categoryID = id
	}

	faqs, err := h.contentService.ListFAQs(c.Request.Context(), categoryID, requestLocale(c))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve FAQs", err)
		return
	}
	utils.SendSuccess(c, "FAQs retrieved successfully", faqs)
}

func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}
	category, err := h.contentService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, "Failed to create category", err)
		return
	}
	utils.SendCreated(c, "Category created successfully", category)
}

func (h *ContentHandler) UpdateCategory(c *gin.Context) {
	h.update(c, "category", func(id uint, req models.UpdateContentRequest) (interface{}, error) {
		return h.contentService.UpdateCategory(c.Request.Context(), id, req)
	})
}

func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	h.remove(c, "category", func(id uint) error {
		return h.contentService.DeleteCategory(c.Request.Context(), id)
	})
}

func (h *ContentHandler) CreatePage(c *gin.Context) {
	var req models.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}
	page, err := h.contentService.CreatePage(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, "Failed to create page", err)
		return
	}
	utils.SendCreated(c, "Page created successfully", page)
}

func (h *ContentHandler) UpdatePage(c *gin.Context) {
	h.update(c, "page", func(id uint, req models.UpdateContentRequest) (interface{}, error) {
		return h.contentService.UpdatePage(c.Request.Context(), id, req)
	})
}

func (h *ContentHandler) DeletePage(c *gin.Context) {
	h.remove(c, "page", func(id uint) error {
		return h.contentService.DeletePage(c.Request.Context(), id)
	})
}

func (h *ContentHandler) CreateFAQ(c *gin.Context) {
	var req models.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}
	faq, err := h.contentService.CreateFAQ(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, "Failed to create FAQ", err)
		return
	}
	utils.SendCreated(c, "FAQ created successfully", faq)
}

func (h *ContentHandler) UpdateFAQ(c *gin.Context) {
	h.update(c, "FAQ", func(id uint, req models.UpdateContentRequest) (interface{}, error) {
		return h.contentService.UpdateFAQ(c.Request.Context(), id, req)
	})
}

func (h *ContentHandler) DeleteFAQ(c *gin.Context) {
	h.remove(c, "FAQ", func(id uint) error {
		return h.contentService.DeleteFAQ(c.Request.Context(), id)
	})
}

func (h *ContentHandler) update(c *gin.Context, label string, apply func(uint, models.UpdateContentRequest) (interface{}, error)) {
	id, ok := pathID(c, "id", label)
	if !ok {
		return
	}

	var req models.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	rec, err := apply(id, req)
	if err != nil {
		utils.SendAppError(c, "Failed to update "+label, err)
		return
	}
	utils.SendSuccess(c, label+" updated successfully", rec)
}

func (h *ContentHandler) remove(c *gin.Context, label string, apply func(uint) error) {
	id, ok := pathID(c, "id", label)
	if !ok {
		return
	}

	if err := apply(id); err != nil {
		utils.SendAppError(c, "Failed to delete "+label, err)
		return
	}
	utils.SendSuccess(c, label+" deleted successfully", nil)
}
