package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request-id"
)

// NewRouter builds the gin engine with logging, CORS, recovery and the API
// routes mounted under /api.
func NewRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware(h.cfg.FrontendURL))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("recovered from panic")
		abortWith(c, http.StatusInternalServerError, APIError{Message: msgInternalError})
	}))

	h.RegisterRoutes(r.Group("/api"))
	return r
}

// LoggingMiddleware tags each request with an id and logs its outcome.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
		}).Info("http_request")
	}
}

// CORSMiddleware allows frontendURL, or any origin when it is empty.
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader, exportArchiveHeader},
		MaxAge:        12 * time.Hour,
	}
	if origin := strings.TrimRight(strings.TrimSpace(frontendURL), "/"); origin != "" {
		corsCfg.AllowOrigins = []string{origin}
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return cors.New(corsCfg)
}
