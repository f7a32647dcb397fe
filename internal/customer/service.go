package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"orderdesk/internal/cache"
	"orderdesk/internal/fetch"
	"orderdesk/internal/format"
	"orderdesk/internal/logger"
	"orderdesk/internal/view"

	"go.uber.org/zap"
)

// MinSearchLength is the shortest term that reaches the backend.
const MinSearchLength = 3

type Service interface {
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, term string) ([]Customer, error)
	Create(ctx context.Context, name, phone string) (Customer, error)
	Delete(ctx context.Context, id int64) error
	Rows() []Customer
	Render(w io.Writer) error
}

type service struct {
	repo  Repository
	cache *cache.Search[[]Customer]
	rows  view.Rows[Customer]
}

// NewService builds the customer view. searchCache may be nil.
func NewService(repo Repository, searchCache *cache.Search[[]Customer]) Service {
	return &service{repo: repo, cache: searchCache}
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListCustomers"),
	)
	start := time.Now()

	customers, err := s.repo.List(ctx)
	if errors.Is(err, fetch.ErrCancelled) {
		log.Debug("customer list superseded")
		return s.rows.Get(), nil
	}
	if err != nil {
		log.Error("failed to fetch customers", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return s.rows.Get(), err
	}

	s.rows.Set(customers)
	log.Info("customer list loaded",
		zap.Int("count", len(customers)),
		zap.Duration("duration", time.Since(start)),
	)
	return customers, nil
}

func (s *service) Search(ctx context.Context, term string) ([]Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	if utf8.RuneCountInString(term) < MinSearchLength {
		return s.rows.Get(), ErrTermTooShort
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SearchCustomers"),
		zap.String("term", term),
	)

	if s.cache != nil {
		if cached, ok := s.cache.Get(term); ok {
			s.repo.CancelSearch()
			s.rows.Set(cached)
			log.Debug("customer search served from cache", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	customers, err := s.repo.Search(ctx, toSearchQuery(term))
	if errors.Is(err, fetch.ErrCancelled) {
		return s.rows.Get(), nil
	}
	if err != nil {
		log.Error("customer search failed", zap.Error(err))
		return s.rows.Get(), err
	}

	if s.cache != nil {
		s.cache.Add(term, customers)
	}
	s.rows.Set(customers)
	log.Debug("customer search done", zap.Int("count", len(customers)))
	return customers, nil
}

func (s *service) Create(ctx context.Context, name, phone string) (Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCustomer"),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, ErrNameRequired
	}

	number, err := format.NormalizePhone(phone)
	if err != nil {
		return Customer{}, fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}

	created, err := s.repo.Create(ctx, NewCustomer{Name: name, Number: number})
	if err != nil {
		if !errors.Is(err, fetch.ErrCancelled) {
			log.Error("failed to create customer", zap.Error(err))
		}
		return Customer{}, err
	}

	s.invalidate()
	s.rows.Set(append(s.rows.Get(), created))
	log.Info("customer created", zap.Int64("customer_id", created.ID))
	return created, nil
}

// Delete removes a customer. A 404 means the local list is stale: it is
// refreshed and the not-found error returned as a notice. A delete refused
// because the customer still has orders is rephrased as ErrHasOrders.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCustomer"),
		zap.Int64("customer_id", id),
	)

	err := s.repo.Delete(ctx, id)
	switch {
	case err == nil:
		s.invalidate()
		s.rows.Remove(func(c Customer) bool { return c.ID == id })
		log.Info("customer deleted")
		return nil

	case errors.Is(err, fetch.ErrNotFound):
		log.Warn("customer already gone, refreshing list")
		s.rows.Remove(func(c Customer) bool { return c.ID == id })
		if _, refreshErr := s.List(ctx); refreshErr != nil {
			log.Warn("refresh after not found failed", zap.Error(refreshErr))
		}
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case fetch.IsConstraintViolation(err):
		log.Warn("customer still referenced by orders", zap.Error(err))
		return ErrHasOrders

	case errors.Is(err, fetch.ErrCancelled):
		return err
	}

	log.Error("failed to delete customer", zap.Error(err))
	return err
}

func (s *service) Rows() []Customer {
	return s.rows.Get()
}

func (s *service) Render(w io.Writer) error {
	customers := s.rows.Get()
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, toTableRow(c))
	}
	return view.Table(w, tableHeaders, rows, "No customers found")
}

func (s *service) invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
