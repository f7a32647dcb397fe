package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"orderdesk/internal/fetch"
	"orderdesk/internal/logger"
	"orderdesk/internal/view"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	Create(ctx context.Context, input NewProduct) (Product, error)
	Delete(ctx context.Context, id int64) error
	Rows() []Product
	Render(w io.Writer) error
}

type service struct {
	repo Repository
	rows view.Rows[Product]
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)
	start := time.Now()

	products, err := s.repo.List(ctx)
	if errors.Is(err, fetch.ErrCancelled) {
		return s.rows.Get(), nil
	}
	if err != nil {
		log.Error("failed to fetch products", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return s.rows.Get(), err
	}

	s.rows.Set(products)
	log.Info("product list loaded",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (s *service) Search(ctx context.Context, term string) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}

	products, err := s.repo.Search(ctx, term)
	if errors.Is(err, fetch.ErrCancelled) {
		return s.rows.Get(), nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("product search failed",
			zap.String("layer", "service"),
			zap.String("term", term),
			zap.Error(err),
		)
		return s.rows.Get(), err
	}

	s.rows.Set(products)
	return products, nil
}

func (s *service) Create(ctx context.Context, input NewProduct) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	input, err := normalize(input)
	if err != nil {
		return Product{}, err
	}

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		if !errors.Is(err, fetch.ErrCancelled) {
			log.Error("failed to create product", zap.Error(err))
		}
		return Product{}, err
	}

	s.rows.Set(append(s.rows.Get(), created))
	log.Info("product created", zap.Int64("product_id", created.ID))
	return created, nil
}

// Delete mirrors the customer view: 404 refreshes, a foreign key refusal is
// rephrased.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.Int64("product_id", id),
	)

	err := s.repo.Delete(ctx, id)
	switch {
	case err == nil:
		s.rows.Remove(func(p Product) bool { return p.ID == id })
		log.Info("product deleted")
		return nil

	case errors.Is(err, fetch.ErrNotFound):
		log.Warn("product already gone, refreshing list")
		s.rows.Remove(func(p Product) bool { return p.ID == id })
		if _, refreshErr := s.List(ctx); refreshErr != nil {
			log.Warn("refresh after not found failed", zap.Error(refreshErr))
		}
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case fetch.IsConstraintViolation(err):
		log.Warn("product still referenced by orders", zap.Error(err))
		return ErrHasOrders

	case errors.Is(err, fetch.ErrCancelled):
		return err
	}

	log.Error("failed to delete product", zap.Error(err))
	return err
}

func (s *service) Rows() []Product {
	return s.rows.Get()
}

func (s *service) Render(w io.Writer) error {
	products := s.rows.Get()
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, toTableRow(p))
	}
	return view.Table(w, tableHeaders, rows, "No products found")
}

func normalize(p NewProduct) (NewProduct, error) {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return p, ErrNameRequired
	case p.Price.IsNegative():
		return p, ErrNegativePrice
	case p.Stock < 0:
		return p, ErrNegativeStock
	}

	t, err := ParseType(string(p.Type))
	if err != nil {
		return p, err
	}
	p.Type = t
	return p, nil
}
