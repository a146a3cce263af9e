package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/locale"
)

const LocaleKey = "locale"

// LocaleMiddleware picks the locale a request reads content in: the
// ?locale= query value, else the first Accept-Language tag. Unsupported
// locales fall back to the default.
func LocaleMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := locale.Normalize(c.Query("locale"))
		if tag == "" {
			tag = acceptLanguage(c.GetHeader("Accept-Language"))
		}
		if tag == "" || !cfg.IsSupportedLocale(tag) {
			tag = locale.Normalize(cfg.DefaultLocale)
		}
		c.Set(LocaleKey, tag)
		c.Next()
	}
}

func acceptLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first, _, _ = strings.Cut(strings.TrimSpace(first), "-")
	if first == "*" {
		return ""
	}
	return locale.Normalize(first)
}
