package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoCartIDs = errors.New("cart cookie lists no orders")

// CartClaims is the payload of the signed cart cookie.
type CartClaims struct {
	OrderIDs []string `json:"cart_ids"`
	jwt.RegisteredClaims
}

// SignCartCookie returns the cookie value that grants the session access to orderIDs.
// A non-positive ttl issues a cookie without expiry.
func SignCartCookie(secret string, orderIDs []string, ttl time.Duration) (string, error) {
	claims := CartClaims{
		OrderIDs:         orderIDs,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseCartCookie verifies raw and returns the order ids it lists.
func parseCartCookie(secret, raw string) ([]string, error) {
	token, err := jwt.ParseWithClaims(raw, &CartClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CartClaims)
	if !ok || !token.Valid {
		return nil, errInvalidClaims
	}

	ids := make([]string, 0, len(claims.OrderIDs))
	for _, id := range claims.OrderIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errNoCartIDs
	}
	return ids, nil
}
