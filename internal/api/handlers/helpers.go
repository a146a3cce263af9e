package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/api/middleware"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type caller struct {
	ID    uint
	Email string
	Role  string
}

func currentUser(c *gin.Context) caller {
	return caller{
		ID:    c.GetUint(middleware.UserIDKey),
		Email: c.GetString(middleware.UserEmailKey),
		Role:  c.GetString(middleware.UserRoleKey),
	}
}

// pathID parses a numeric path parameter, answering 400 when it is invalid.
func pathID(c *gin.Context, name, label string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		utils.SendValidationError(c, "Invalid "+label+" ID")
	}
	return id, ok
}

func requestLocale(c *gin.Context) string {
	return c.GetString(middleware.LocaleKey)
}
