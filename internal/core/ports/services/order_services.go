package services

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
)

// ReconcileOutcome is the terminal state of one reconciliation pass.
type ReconcileOutcome string

const (
	OutcomeMatched    ReconcileOutcome = "matched"
	OutcomeReconciled ReconcileOutcome = "reconciled"
)

// OrderReconcilerSvc brings an order into the resolved currency.
type OrderReconcilerSvc interface {
	Reconcile(ctx context.Context, req *domain.RequestContext, order *domain.Order) (ReconcileOutcome, error)
}

// OrderProcessor regenerates the adjustments it owns on an order, in the order's currency.
// Applying it twice leaves the order as applying it once.
type OrderProcessor interface {
	ID() string
	Apply(ctx context.Context, req *domain.RequestContext, order *domain.Order) error
}

// OrderRefreshSvc is the order load/refresh pipeline.
type OrderRefreshSvc interface {
	// OnLoad reconciles a freshly loaded order and persists it when it changed.
	OnLoad(ctx context.Context, req *domain.RequestContext, order *domain.Order) (ReconcileOutcome, error)
	// LoadOrder loads an order and runs the load hook.
	LoadOrder(ctx context.Context, req *domain.RequestContext, orderID string) (*domain.Order, error)
	// RefreshOrder forces a refresh of an order regardless of its refresh state.
	RefreshOrder(ctx context.Context, req *domain.RequestContext, orderID string) (*domain.Order, ReconcileOutcome, error)
}
