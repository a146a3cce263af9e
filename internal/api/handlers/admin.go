package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	product, err := h.adminService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		utils.SendAppError(c, "Failed to create product", err)
		return
	}

	utils.SendCreated(c, "Product created successfully", product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id", "product")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	product, err := h.adminService.UpdateProduct(c.Request.Context(), productID, &req)
	if err != nil {
		utils.SendAppError(c, "Failed to update product", err)
		return
	}

	utils.SendSuccess(c, "Product updated successfully", product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.adminService.DeleteProduct(c.Request.Context(), productID); err != nil {
		utils.SendAppError(c, "Failed to delete product", err)
		return
	}

	utils.SendSuccess(c, "Product deleted successfully", nil)
}

// UploadProductsCSV imports products from the multipart "file" field.
func (h *AdminHandler) UploadProductsCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "CSV file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.SendValidationError(c, "Failed to open CSV file")
		return
	}
	defer src.Close()

	result, err := h.adminService.ImportProducts(c.Request.Context(), src)
	if err != nil {
		utils.SendAppError(c, "Failed to import products", err)
		return
	}

	utils.SendSuccess(c, "CSV processed successfully", result)
}

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve dashboard stats", err)
		return
	}

	utils.SendSuccess(c, "Dashboard stats retrieved successfully", stats)
}
