package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/config"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionAuthMiddleware verifies the dashboard bearer token and exposes the
// account identity (user_id, email) on gin.Context and the request context.
// The session provider itself is external; this side only validates the
// HMAC-signed token it issues.
func SessionAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.Auth.JWTSecret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.ErrorT[any](response.APIResponseCodeError, "auth secret not configured"))
			return
		}

		raw := c.GetHeader("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "missing bearer token"))
			return
		}
		tokenStr := strings.TrimPrefix(raw, "Bearer ")
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "missing bearer token"))
			return
		}

		userID, email, err := ParseSessionToken(tokenStr, cfg.Auth.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid session token"))
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		ctx := context.WithValue(c.Request.Context(), "user_id", userID)
		ctx = context.WithValue(ctx, "email", email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ParseSessionToken validates an HMAC-signed session token and returns the
// subject user id and email claims.
func ParseSessionToken(tokenStr string, secret string) (userID string, email string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}

	userID, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	if userID == "" && email == "" {
		return "", "", fmt.Errorf("token carries no identity")
	}
	return userID, email, nil
}
