package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

type orderStorage struct {
	repo portsrepo.OrderRepositoryFacade
}

// NewEntityStorage exposes an order repository as EntityStorage.
func NewEntityStorage(repo portsrepo.OrderRepositoryFacade) portssvc.EntityStorage {
	return &orderStorage{repo: repo}
}

func (s *orderStorage) Load(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.FindOrderByID(ctx, orderID)
}

func (s *orderStorage) Save(ctx context.Context, order *domain.Order) error {
	return s.repo.SaveOrder(ctx, order)
}

type orderRefreshService struct {
	BaseService
	storage    portssvc.EntityStorage
	reconciler portssvc.OrderReconcilerSvc
	processors []portssvc.OrderProcessor
	now        func() time.Time
}

// NewOrderRefreshService creates the order load/refresh pipeline. processors run in order
// on every reconciled order to regenerate the fees and promotions reconciliation dropped.
func NewOrderRefreshService(storage portssvc.EntityStorage, reconciler portssvc.OrderReconcilerSvc, processors ...portssvc.OrderProcessor) portssvc.OrderRefreshSvc {
	return &orderRefreshService{storage: storage, reconciler: reconciler, processors: processors, now: time.Now}
}

// OnLoad reconciles order unless it was already reconciled in this load cycle. The order
// is saved only when reconciliation changed it and finished without error. The skip flag
// is consumed here.
func (s *orderRefreshService) OnLoad(ctx context.Context, req *domain.RequestContext, order *domain.Order) (portssvc.ReconcileOutcome, error) {
	if order.RefreshState == domain.RefreshStateSkip {
		return portssvc.OutcomeMatched, nil
	}
	defer func() { order.SkipRefresh = false }()

	outcome, err := s.reconciler.Reconcile(ctx, req, order)
	if err != nil {
		s.LogError(ctx, err, "Order reconciliation failed, changes discarded", slog.String("order_id", order.OrderID))
		return "", err
	}
	if outcome != portssvc.OutcomeReconciled {
		return outcome, nil
	}

	for _, p := range s.processors {
		if err := p.Apply(ctx, req, order); err != nil {
			s.LogError(ctx, err, "Order processor failed, changes discarded",
				slog.String("order_id", order.OrderID),
				slog.String("processor", p.ID()))
			return "", fmt.Errorf("order processor %s: %w", p.ID(), err)
		}
	}

	order.UpdatedAt = s.now()
	if err := s.storage.Save(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save reconciled order", slog.String("order_id", order.OrderID))
		return "", fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
	s.LogInfo(ctx, "Reconciled order saved", slog.String("order_id", order.OrderID))
	return outcome, nil
}

func (s *orderRefreshService) LoadOrder(ctx context.Context, req *domain.RequestContext, orderID string) (*domain.Order, error) {
	order, err := s.storage.Load(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if _, err := s.OnLoad(ctx, req, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderRefreshService) RefreshOrder(ctx context.Context, req *domain.RequestContext, orderID string) (*domain.Order, portssvc.ReconcileOutcome, error) {
	order, err := s.storage.Load(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	order.RefreshState = domain.RefreshStateOnLoad

	outcome, err := s.OnLoad(ctx, req, order)
	if err != nil {
		return nil, "", err
	}
	return order, outcome, nil
}
