package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitMiddleware limits each client to cfg.RateLimitRPS requests per
// second per path. Counters live in Redis when rdb is set so every replica
// shares them, and in process memory otherwise.
func RateLimitMiddleware(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(cfg.RateLimitRPS),
	}

	store := limiter.Store(memory.NewStore())
	if rdb != nil {
		shared, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit"})
		if err != nil {
			logger.Warn("redis rate limit store unavailable, using memory: ", err)
		} else {
			store = shared
		}
	}
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))

	return mgin.NewMiddleware(instance, mgin.WithKeyGetter(func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
	}))
}
