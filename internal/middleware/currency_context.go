package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContentCurrencyHeader exposes the resolved currency so caches can vary on it.
const ContentCurrencyHeader = "Content-Currency"

// CurrencyResolver is the part of the resolver the HTTP layer needs.
type CurrencyResolver interface {
	GetCurrency(ctx context.Context, req *domain.RequestContext) string
	Release(req *domain.RequestContext)
}

// CurrencyContext builds the per-request context used for currency resolution, exposes the
// resolved currency in a response header and drops the memoized value when the request ends.
// cartCookie names the cookie listing the session's cart order ids, signed with cartSecret
// by SignCartCookie.
func CurrencyContext(resolver CurrencyResolver, cartCookie, cartSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := NewRequestContext(c, cartCookie, cartSecret)
		c.Set(string(requestCtxKey), req)
		defer resolver.Release(req)

		c.Header(ContentCurrencyHeader, resolver.GetCurrency(c.Request.Context(), req))
		c.Next()
	}
}

// NewRequestContext snapshots the request. It must run after the auth middleware so the
// acting user is known. A cart cookie that fails verification grants no carts.
func NewRequestContext(c *gin.Context, cartCookie, cartSecret string) *domain.RequestContext {
	req := &domain.RequestContext{
		ID:             uuid.NewString(),
		Host:           hostWithoutPort(c.Request.Host),
		Path:           c.Request.URL.Path,
		ClientIP:       c.ClientIP(),
		AcceptLanguage: c.GetHeader("Accept-Language"),
		Cookies:        make(map[string]string),
		Headers:        make(map[string]string, len(c.Request.Header)),
	}
	if userID, ok := GetUserIDFromContext(c); ok {
		req.UserID = userID
	}
	for _, cookie := range c.Request.Cookies() {
		req.Cookies[cookie.Name] = cookie.Value
	}
	for name := range c.Request.Header {
		req.Headers[name] = c.Request.Header.Get(name)
	}
	if raw := req.Cookies[cartCookie]; cartCookie != "" && raw != "" {
		ids, err := parseCartCookie(cartSecret, raw)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Debug("Ignoring invalid cart cookie",
				slog.String("cookie", cartCookie), slog.String("error", err.Error()))
		}
		req.CartIDs = ids
	}
	return req
}

func hostWithoutPort(host string) string {
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.HasSuffix(host, "]") {
		return host[:i]
	}
	return host
}
