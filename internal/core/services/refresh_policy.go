package services

import (
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

// RefreshCriterion is one condition an order must satisfy to be reconciled.
type RefreshCriterion interface {
	Name() string
	Allows(order *domain.Order, req *domain.RequestContext) bool
}

// RefreshPolicy ANDs its criteria. It holds no state and never caches an answer.
type RefreshPolicy struct {
	criteria []RefreshCriterion
}

// NewRefreshPolicy composes the given criteria.
func NewRefreshPolicy(criteria ...RefreshCriterion) *RefreshPolicy {
	return &RefreshPolicy{criteria: criteria}
}

// NewDefaultRefreshPolicy builds the storefront policy: no skip flag, interactive request,
// outside the admin area, cart or owner match, draft order.
func NewDefaultRefreshPolicy(admin portssvc.AdminRouteContext, exec portssvc.ExecutionContext) *RefreshPolicy {
	if exec == nil {
		exec = RequestExecutionContext{}
	}
	return NewRefreshPolicy(
		SkipFlagCriterion{},
		NonInteractiveCriterion{Exec: exec},
		AdminPathCriterion{Admin: admin},
		OwnershipCriterion{},
		DraftStateCriterion{},
	)
}

// ShouldRefresh reports whether order may be reconciled for req.
func (p *RefreshPolicy) ShouldRefresh(order *domain.Order, req *domain.RequestContext) bool {
	ok, _ := p.Evaluate(order, req)
	return ok
}

// Evaluate is ShouldRefresh that also names the first criterion that refused.
func (p *RefreshPolicy) Evaluate(order *domain.Order, req *domain.RequestContext) (bool, string) {
	if order == nil {
		return false, "order"
	}
	for _, c := range p.criteria {
		if !c.Allows(order, req) {
			return false, c.Name()
		}
	}
	return true, ""
}

// SkipFlagCriterion refuses orders carrying the one-shot skip flag. Clearing the flag is
// left to the caller.
type SkipFlagCriterion struct{}

// Name identifies the criterion in refusal logs.
func (SkipFlagCriterion) Name() string { return "skip_flag" }

// Allows reports whether the order is free of the skip flag.
func (SkipFlagCriterion) Allows(order *domain.Order, _ *domain.RequestContext) bool {
	return !order.SkipRefresh
}

// NonInteractiveCriterion refuses CLI and cron executions.
type NonInteractiveCriterion struct {
	Exec portssvc.ExecutionContext
}

// Name identifies the criterion in refusal logs.
func (NonInteractiveCriterion) Name() string { return "non_interactive" }

// Allows reports whether req is an interactive request.
func (c NonInteractiveCriterion) Allows(_ *domain.Order, req *domain.RequestContext) bool {
	return !c.Exec.IsNonInteractive(req)
}

// AdminPathCriterion refuses requests under the administrative area.
type AdminPathCriterion struct {
	Admin portssvc.AdminRouteContext
}

// Name identifies the criterion in refusal logs.
func (AdminPathCriterion) Name() string { return "admin_path" }

// Allows reports whether req is outside the admin area.
func (c AdminPathCriterion) Allows(_ *domain.Order, req *domain.RequestContext) bool {
	return c.Admin == nil || !c.Admin.IsAdminPath(req)
}

// OwnershipCriterion accepts the session's active cart or an order owned by the acting user.
type OwnershipCriterion struct{}

// Name identifies the criterion in refusal logs.
func (OwnershipCriterion) Name() string { return "ownership" }

// Allows reports whether req holds the cart or acts for the order's customer.
func (OwnershipCriterion) Allows(order *domain.Order, req *domain.RequestContext) bool {
	if req == nil {
		return false
	}
	if order.IsCart && req.HasCart(order.OrderID) {
		return true
	}
	return order.IsOwnedBy(req.UserID)
}

// DraftStateCriterion only accepts draft orders.
type DraftStateCriterion struct{}

// Name identifies the criterion in refusal logs.
func (DraftStateCriterion) Name() string { return "draft_state" }

// Allows reports whether the order is still a draft.
func (DraftStateCriterion) Allows(order *domain.Order, _ *domain.RequestContext) bool {
	return order.State == domain.OrderStateDraft
}

// RequestExecutionContext treats a missing request or one flagged NonInteractive as CLI.
type RequestExecutionContext struct{}

// IsNonInteractive reports whether req comes from CLI or cron.
func (RequestExecutionContext) IsNonInteractive(req *domain.RequestContext) bool {
	return req == nil || req.NonInteractive
}

// PathPrefixAdminRoute flags request paths under a prefix as administrative.
type PathPrefixAdminRoute struct {
	Prefix string
}

// IsAdminPath reports whether the request path is the prefix or below it.
func (a PathPrefixAdminRoute) IsAdminPath(req *domain.RequestContext) bool {
	if req == nil || a.Prefix == "" {
		return false
	}
	return req.Path == a.Prefix || strings.HasPrefix(req.Path, strings.TrimSuffix(a.Prefix, "/")+"/")
}
