package calendar

import (
	"context"
	"fmt"

	"orderdesk/internal/fetch"
	"orderdesk/internal/order"
)

// keyOrders is separate from the order list's key so the two views never
// cancel each other.
const keyOrders = "calendar"

type Repository interface {
	Orders(ctx context.Context) ([]order.Order, error)
}

type repository struct {
	exec fetch.Executor
}

func NewRepository(exec fetch.Executor) Repository {
	return &repository{exec: exec}
}

func (r *repository) Orders(ctx context.Context) ([]order.Order, error) {
	rows, err := fetch.Result[[]order.Order](r.exec.Execute(ctx, keyOrders, fetch.Get("/api/orders", nil)))
	if err != nil {
		return nil, fmt.Errorf("load calendar orders: %w", err)
	}
	return rows, nil
}
