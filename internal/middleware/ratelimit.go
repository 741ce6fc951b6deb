package middleware

import (
	"sync"

	"bellyfied/internal/apperr"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// 上限を超えたらlimiterを作り直す
const maxLimiters = 10000

// IPごとのレート制限（コードを送るエンドポイント用）
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	log      logrus.FieldLogger
}

func NewRateLimiter(perSecond float64, burst int, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if !rl.limiter(key).Allow() {
				rl.log.WithFields(logrus.Fields{
					"ip":     key,
					"path":   c.Path(),
					"method": c.Request().Method,
				}).Warn("rate limit exceeded")

				he, _ := apperr.AsHTTPError(apperr.TooManyRequests())
				return c.JSON(he.Status, he.Body())
			}
			return next(c)
		}
	}
}
