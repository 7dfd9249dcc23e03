package repositories

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
)

// OrderReader defines read operations for orders
type OrderReader interface {
	// FindOrderByID loads an order aggregate. Returns apperrors.ErrNotFound when missing.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
}

// OrderWriter defines write operations for orders
type OrderWriter interface {
	// SaveOrder persists the whole aggregate (last write wins).
	SaveOrder(ctx context.Context, order *domain.Order) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
