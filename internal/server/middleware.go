package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auction-house/internal/auth"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

var errMissingToken = errors.New("missing bearer token")

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if userID := helpers.UserID(c); userID != "" {
		fields["user_id"] = userID
	}
	utils.Info("HTTP Request", fields)
}

// AuthMiddleware requires a valid bearer token and stores its user id on the context
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.AbortJSONError(c, http.StatusUnauthorized, errMissingToken, "authentication required")
			return
		}

		userID, err := auth.UserIDFromToken(token, secret)
		if err != nil {
			utils.Warn("AuthMiddleware: rejected token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			utils.AbortJSONError(c, http.StatusUnauthorized, auth.ErrInvalidToken, "authentication required")
			return
		}

		c.Set(helpers.UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
