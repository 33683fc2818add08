package middleware

import (
	"net/http"
	"strconv"
	"time"

	"plmsourcing/internal/caching"
	"plmsourcing/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit caps requests per caller within a fixed window. Callers are keyed
// by their resolved actor, or by client IP when acting as the system identity.
// A limiter outage lets the request through.
func RateLimit(limiter caching.RateLimiter, limit int, window time.Duration, systemActor string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := common.ActorFromContext(c.Request().Context(), systemActor)
			key := "actor:" + actor
			if actor == systemActor {
				key = "ip:" + c.RealIP()
			}

			limited, err := limiter.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.Warn("rate limiter unavailable",
					zap.Error(err),
					zap.String("request_id", common.GetRequestIDFromContext(c.Request().Context())),
				)
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(limit))

			retryAfter := window
			remaining, reset, err := limiter.Remaining(c.Request().Context(), key, limit)
			if err != nil {
				logger.Debug("rate limit counters unavailable", zap.String("key", key), zap.Error(err))
			} else {
				header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
				header.Set("X-RateLimit-Reset", strconv.Itoa(wholeSeconds(reset)))
				if reset > 0 {
					retryAfter = reset
				}
			}

			if limited {
				header.Set("Retry-After", strconv.Itoa(wholeSeconds(retryAfter)))
				return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many requests. Please retry later.", nil))
			}
			return next(c)
		}
	}
}

// wholeSeconds rounds d up to whole seconds
func wholeSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
