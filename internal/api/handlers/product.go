package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	var filter services.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid query parameters")
		return
	}
	filter.Locale = requestLocale(c)

	products, err := h.productService.GetProducts(c.Request.Context(), filter)
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve products", err)
		return
	}

	utils.SendSuccess(c, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(c.Request.Context(), productID, requestLocale(c))
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve product", err)
		return
	}

	utils.SendSuccess(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) GetBrands(c *gin.Context) {
	brands, err := h.productService.GetBrands(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, "Failed to retrieve brands", err)
		return
	}

	utils.SendSuccess(c, "Brands retrieved successfully", brands)
}
