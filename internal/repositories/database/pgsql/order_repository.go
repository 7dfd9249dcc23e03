package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	"github.com/SscSPs/currency_resolver/internal/models"
	"github.com/SscSPs/currency_resolver/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrderRepository persists order aggregates as JSONB documents.
type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

// FindOrderByID loads an order by id.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var m models.Order
	err := r.Pool.QueryRow(ctx, `
		SELECT order_id, state, customer_id, is_cart, payload, updated_at
		FROM orders
		WHERE order_id = $1`, orderID,
	).Scan(&m.OrderID, &m.State, &m.CustomerID, &m.IsCart, &m.Payload, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	return mapping.ToDomainOrder(m)
}

// SaveOrder upserts the whole aggregate.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	m, err := mapping.ToModelOrder(order)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, `
		INSERT INTO orders (order_id, state, customer_id, is_cart, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO UPDATE SET
			state = EXCLUDED.state,
			customer_id = EXCLUDED.customer_id,
			is_cart = EXCLUDED.is_cart,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`,
		m.OrderID, m.State, m.CustomerID, m.IsCart, m.Payload, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
	return nil
}
