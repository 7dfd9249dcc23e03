package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingAuthHeader = errors.New("authorization header missing")
	errBadAuthHeader     = errors.New("authorization header is not a bearer token")
	errInvalidClaims     = errors.New("token claims invalid or subject missing")
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, err := authenticate(c, jwtSecret)
		if err != nil {
			logger.Warn("Authentication failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authErrorMessage(err)})
			return
		}

		setUser(c, logger, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is sent and lets anonymous
// visitors through. Storefront routes use it so order ownership can be checked.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, err := authenticate(c, jwtSecret)
		switch {
		case errors.Is(err, errMissingAuthHeader):
		case err != nil:
			logger.Debug("Ignoring invalid token on optional auth route", slog.String("error", err.Error()))
		default:
			setUser(c, logger, userID)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtSecret string) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errBadAuthHeader
	}

	token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errInvalidClaims
	}
	return claims.Subject, nil
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, errMissingAuthHeader):
		return "Authorization header required"
	case errors.Is(err, errBadAuthHeader):
		return "Authorization header format must be Bearer {token}"
	case errors.Is(err, errInvalidClaims):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	default:
		return "Invalid token"
	}
}

func setUser(c *gin.Context, logger *slog.Logger, userID string) {
	enrichedLogger := logger.With(slog.String("user_id", userID))
	ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
	c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))
	c.Set(string(userIDKey), userID)
}
