package services_test

import (
	"testing"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestDefaultRefreshPolicy(t *testing.T) {
	policy := services.NewDefaultRefreshPolicy(services.PathPrefixAdminRoute{Prefix: "/admin"}, nil)

	draftCart := func() *domain.Order {
		return &domain.Order{OrderID: "o1", State: domain.OrderStateDraft, IsCart: true, CustomerID: "u1"}
	}
	cartReq := func() *domain.RequestContext {
		return &domain.RequestContext{ID: "r", Path: "/cart", CartIDs: []string{"o1"}}
	}

	tests := []struct {
		name      string
		order     func() *domain.Order
		req       func() *domain.RequestContext
		allowed   bool
		refusedBy string
	}{
		{
			name:    "session cart",
			order:   draftCart,
			req:     cartReq,
			allowed: true,
		},
		{
			name:  "owner without cart",
			order: draftCart,
			req: func() *domain.RequestContext {
				return &domain.RequestContext{ID: "r", Path: "/checkout", UserID: "u1"}
			},
			allowed: true,
		},
		{
			name: "skip flag",
			order: func() *domain.Order {
				o := draftCart()
				o.SkipRefresh = true
				return o
			},
			req:       cartReq,
			refusedBy: "skip_flag",
		},
		{
			name:  "non interactive",
			order: draftCart,
			req: func() *domain.RequestContext {
				r := cartReq()
				r.NonInteractive = true
				return r
			},
			refusedBy: "non_interactive",
		},
		{
			name:      "no request",
			order:     draftCart,
			req:       func() *domain.RequestContext { return nil },
			refusedBy: "non_interactive",
		},
		{
			name:  "admin path",
			order: draftCart,
			req: func() *domain.RequestContext {
				r := cartReq()
				r.Path = "/admin/orders/o1"
				return r
			},
			refusedBy: "admin_path",
		},
		{
			name:  "foreign cart",
			order: draftCart,
			req: func() *domain.RequestContext {
				return &domain.RequestContext{ID: "r", Path: "/cart", CartIDs: []string{"o2"}, UserID: "u2"}
			},
			refusedBy: "ownership",
		},
		{
			name: "placed order",
			order: func() *domain.Order {
				o := draftCart()
				o.State = domain.OrderStatePlaced
				return o
			},
			req:       cartReq,
			refusedBy: "draft_state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, refusedBy := policy.Evaluate(tt.order(), tt.req())
			assert.Equal(t, tt.allowed, allowed)
			assert.Equal(t, tt.refusedBy, refusedBy)
			assert.Equal(t, tt.allowed, policy.ShouldRefresh(tt.order(), tt.req()))
		})
	}
}

func TestRefreshPolicy_NilOrder(t *testing.T) {
	allowed, refusedBy := services.NewRefreshPolicy().Evaluate(nil, &domain.RequestContext{})

	assert.False(t, allowed)
	assert.Equal(t, "order", refusedBy)
}

func TestPathPrefixAdminRoute(t *testing.T) {
	admin := services.PathPrefixAdminRoute{Prefix: "/admin/"}

	assert.True(t, admin.IsAdminPath(&domain.RequestContext{Path: "/admin/orders"}))
	assert.True(t, admin.IsAdminPath(&domain.RequestContext{Path: "/admin/"}))
	assert.False(t, admin.IsAdminPath(&domain.RequestContext{Path: "/administrator"}))
	assert.False(t, admin.IsAdminPath(nil))
	assert.False(t, services.PathPrefixAdminRoute{}.IsAdminPath(&domain.RequestContext{Path: "/admin"}))
}
