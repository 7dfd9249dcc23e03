package domain

import "strings"

// RequestContext carries everything the resolver and refresh policy need to know about
// one incoming request. ID is the memoization key; two requests with identical inputs
// still get distinct IDs.
//
// Language is the negotiated UI language and Country the visitor country, both filled by
// the HTTP layer when known.
type RequestContext struct {
	ID             string
	Host           string
	Path           string
	ClientIP       string
	AcceptLanguage string
	Language       string
	Country        string
	UserID         string
	CartIDs        []string
	NonInteractive bool
	Cookies        map[string]string
	Headers        map[string]string
}

// Cookie returns the named cookie value, or "".
func (r *RequestContext) Cookie(name string) string {
	if r == nil {
		return ""
	}
	return r.Cookies[name]
}

// HasCookie reports whether the named cookie is present.
func (r *RequestContext) HasCookie(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Cookies[name]
	return ok
}

// Header returns the named header value, matched case-insensitively.
func (r *RequestContext) Header(name string) string {
	if r == nil {
		return ""
	}
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// HasCart reports whether orderID is one of the session's active carts.
func (r *RequestContext) HasCart(orderID string) bool {
	if r == nil {
		return false
	}
	for _, id := range r.CartIDs {
		if id == orderID {
			return true
		}
	}
	return false
}
