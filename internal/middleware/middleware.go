package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORSHeaders are sent on every response. The page builder embeds the API
// from arbitrary origins, so CORS is fully open.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// CORS middleware for handling Cross-Origin Resource Sharing. Preflight
// requests are answered with 200 and no body.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range CORSHeaders {
			c.Header(name, value)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// Recovery turns panics into the standard JSON error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "Internal server error",
			Message:   "An unexpected error occurred",
			RequestID: c.GetString(RequestIDKey),
		})
	})
}
