package rest

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDCtx    = "request_id"
)

func requestID(c *gin.Context) string {
	return c.GetString(requestIDCtx)
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			var b [16]byte
			_, _ = rand.Read(b[:])
			id = hex.EncodeToString(b[:])
		}
		c.Set(requestIDCtx, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		log := h.log.With(
			slog.String("request_id", requestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("ip", c.ClientIP()),
		)

		switch {
		case status >= 500:
			log.Error("server error")
		case status >= 400:
			log.Warn("client error")
		default:
			log.Info("http request")
		}
	}
}

// corsMiddleware emits CORS headers for allowed origins. With no origins configured it
// does nothing.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(allowed) == 0 || origin == "" {
			c.Next()
			return
		}

		allowOrigin := ""
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				allowOrigin = origin
				break
			}
		}
		if allowOrigin == "" {
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", allowOrigin)
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, "+RequestIDHeader)
		header.Set("Access-Control-Expose-Headers", RequestIDHeader)
		header.Set("Access-Control-Max-Age", strconv.Itoa(int((12 * time.Hour).Seconds())))
		header.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
