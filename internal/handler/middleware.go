package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chemsolver/internal/metrics"
	"chemsolver/internal/ratelimit"
	"chemsolver/internal/service"
)

const (
	// UserIDHeader 帶使用者 id，之後換成真正的 Auth Middleware
	UserIDHeader = "X-User-ID"
	// AnonymousUser 是沒帶 header 時的預設使用者
	AnonymousUser = service.AnonymousUser

	userIDKey = "userID"
)

// Identify 從 header 取出 User ID 放進 gin.Context
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" {
			id = AnonymousUser
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	if id := c.GetString(userIDKey); id != "" {
		return id
	}
	return AnonymousUser
}

// RequestLogger 每個請求結束時寫一行 log
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		switch {
		case status >= 500:
			evt = logger.Error()
		case status >= 400:
			evt = logger.Warn()
		}
		if err := c.Errors.Last(); err != nil {
			evt = evt.Err(err.Err)
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", userID(c)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Metrics 記錄 Prometheus 的請求數與延遲。route 用註冊的路徑，避免 label 爆量。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// RateLimit 依客戶端 IP 限流。X-User-ID 由客戶端自己填，不能拿來當 key。
// 只有 SetTrustedProxies 設定過的代理送來的 X-Forwarded-For 才會被 c.ClientIP() 採用。
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow("ip:" + c.ClientIP()) {
			metrics.IncSolve("rate_limited")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
