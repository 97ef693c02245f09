package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware ограничивает число запросов с одного IP за период.
// Жёсткий лимит вешается на маршруты авторизации, более мягкий на экспорт.
// Счётчики живут в памяти процесса и сбрасываются при рестарте.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(c *gin.Context) {
		usage, err := instance.Get(c, c.ClientIP())
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(usage.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(usage.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(usage.Reset, 10))

		if usage.Reached {
			if wait := usage.Reset - time.Now().Unix(); wait > 0 {
				c.Header("Retry-After", strconv.FormatInt(wait, 10))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "слишком много запросов, попробуйте позже",
			})
			return
		}

		c.Next()
	}
}
