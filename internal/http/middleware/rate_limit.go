package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/freelance-backoffice/internal/ratelimit"
)

// RateLimit limits requests per resolved profile, or per client IP before a
// profile is known. A failing limiter lets the request through.
func RateLimit(limiter ratelimit.Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if profile, ok := MustProfile(c); ok {
			key = "profile:" + strconv.FormatUint(uint64(profile.ID), 10)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Str("request_id", GetRequestID(c)).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			log.Warn().Str("key", key).Str("request_id", GetRequestID(c)).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again later",
			})
			return
		}

		c.Next()
	}
}
