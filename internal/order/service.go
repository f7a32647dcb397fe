package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"orderdesk/internal/fetch"
	"orderdesk/internal/logger"
	"orderdesk/internal/pricing"
	"orderdesk/internal/status"
	"orderdesk/internal/view"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Order, error)
	Search(ctx context.Context, term string) ([]Order, error)
	Create(ctx context.Context, draft pricing.Draft) (Order, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, next status.OrderStatus) (Order, error)
	RecordPayment(ctx context.Context, id int64, amount decimal.Decimal) (Order, error)
	Find(id int64) (Order, bool)
	Rows() []Order
	Render(w io.Writer) error
}

type service struct {
	repo      Repository
	validator *pricing.Validator
	rows      view.Rows[Order]
}

func NewService(repo Repository, validator *pricing.Validator) Service {
	if validator == nil {
		validator = pricing.NewValidator(pricing.DefaultPolicy())
	}
	return &service{repo: repo, validator: validator}
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListOrders"),
	)
	start := time.Now()

	orders, err := s.repo.List(ctx)
	if errors.Is(err, fetch.ErrCancelled) {
		return s.rows.Get(), nil
	}
	if err != nil {
		log.Error("failed to fetch orders", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return s.rows.Get(), err
	}

	s.rows.Set(orders)
	log.Info("order list loaded",
		zap.Int("count", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)
	return orders, nil
}

func (s *service) Search(ctx context.Context, term string) ([]Order, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}

	orders, err := s.repo.Search(ctx, toSearchQuery(term))
	if errors.Is(err, fetch.ErrCancelled) {
		return s.rows.Get(), nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("order search failed",
			zap.String("layer", "service"),
			zap.String("term", term),
			zap.Error(err),
		)
		return s.rows.Get(), err
	}

	s.rows.Set(orders)
	return orders, nil
}

// Create validates the draft locally and only then submits it. An invalid
// draft returns *pricing.ValidationError and never reaches the network.
func (s *service) Create(ctx context.Context, draft pricing.Draft) (Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	result := s.validator.Validate(draft)
	if !result.IsValid {
		log.Debug("order draft rejected", zap.Strings("errors", result.Messages()))
		return Order{}, result.Err()
	}

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		if !errors.Is(err, fetch.ErrCancelled) {
			log.Error("failed to create order", zap.Error(err))
		}
		return Order{}, err
	}

	log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("total", draft.Total().StringFixed(2)),
	)
	if created.ID != 0 {
		s.rows.Set(append(s.rows.Get(), created))
	}
	return created, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.Int64("order_id", id),
	)

	err := s.repo.Delete(ctx, id)
	switch {
	case err == nil:
		s.rows.Remove(func(o Order) bool { return o.ID == id })
		log.Info("order deleted")
		return nil

	case errors.Is(err, fetch.ErrNotFound):
		s.refreshAfterNotFound(ctx, id)
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)

	case errors.Is(err, fetch.ErrCancelled):
		return err
	}

	log.Error("failed to delete order", zap.Error(err))
	return err
}

// UpdateStatus refuses transitions the lifecycle does not allow before
// calling the backend. Orders not in the local list are left to the server.
func (s *service) UpdateStatus(ctx context.Context, id int64, next status.OrderStatus) (Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Int64("order_id", id),
		zap.String("status", string(next)),
	)

	if !next.Valid() {
		return Order{}, fmt.Errorf("%w: %q", status.ErrUnknownStatus, next)
	}

	current, known := s.Find(id)
	if known && current.Status.Valid() && !current.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status.Label(), next.Label())
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return Order{}, s.mutationFailed(ctx, log, id, err)
	}

	if updated.ID == 0 {
		updated = current
		updated.ID = id
		updated.Status = next
	}
	s.replace(updated)
	log.Info("order status updated")
	return updated, nil
}

// RecordPayment checks the amount against the order's balance first; an
// overpayment is rejected without a request.
func (s *service) RecordPayment(ctx context.Context, id int64, amount decimal.Decimal) (Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RecordPayment"),
		zap.Int64("order_id", id),
	)

	current, known := s.Find(id)
	if !known {
		if _, err := s.List(ctx); err != nil {
			return Order{}, err
		}
		if current, known = s.Find(id); !known {
			return Order{}, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}
	}

	if err := pricing.CheckPayment(amount, current.Balance()); err != nil {
		log.Debug("payment rejected locally", zap.Error(err))
		return Order{}, err
	}

	updated, err := s.repo.RecordPayment(ctx, id, amount)
	if err != nil {
		return Order{}, s.mutationFailed(ctx, log, id, err)
	}

	if updated.ID == 0 {
		updated = current
		updated.PaidAmount = current.PaidAmount.Add(amount)
		updated.RemainingAmount = pricing.Remaining(current.TotalAmount, updated.PaidAmount)
		updated.PaymentStatus = string(updated.Payment())
	}
	s.replace(updated)
	log.Info("payment recorded", zap.String("amount", amount.StringFixed(2)))
	return updated, nil
}

func (s *service) Find(id int64) (Order, bool) {
	for _, o := range s.rows.Get() {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

func (s *service) Rows() []Order {
	return s.rows.Get()
}

func (s *service) Render(w io.Writer) error {
	orders := s.rows.Get()
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, toTableRow(o))
	}
	return view.Table(w, tableHeaders, rows, "No orders found")
}

func (s *service) mutationFailed(ctx context.Context, log *zap.Logger, id int64, err error) error {
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		s.refreshAfterNotFound(ctx, id)
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	case errors.Is(err, fetch.ErrCancelled):
		return err
	}
	log.Error("order update failed", zap.Error(err))
	return err
}

func (s *service) refreshAfterNotFound(ctx context.Context, id int64) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.Int64("order_id", id))
	log.Warn("order already gone, refreshing list")

	s.rows.Remove(func(o Order) bool { return o.ID == id })
	if _, err := s.List(ctx); err != nil {
		log.Warn("refresh after not found failed", zap.Error(err))
	}
}

func (s *service) replace(o Order) {
	rows := s.rows.Get()
	for i := range rows {
		if rows[i].ID == o.ID {
			rows[i] = o
			s.rows.Set(rows)
			return
		}
	}
}
