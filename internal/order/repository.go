package order

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"orderdesk/internal/fetch"
	"orderdesk/internal/pricing"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

const basePath = "/api/orders"

const (
	keyList   = "orders"
	keySearch = "orderSearch"
	keyCreate = "createOrder"
)

func keyFor(op string, id int64) string {
	return op + ":" + strconv.FormatInt(id, 10)
}

func orderPath(id int64, suffix string) string {
	return basePath + "/" + strconv.FormatInt(id, 10) + suffix
}

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Search(ctx context.Context, q SearchQuery) ([]Order, error)
	Create(ctx context.Context, draft pricing.Draft) (Order, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, next status.OrderStatus) (Order, error)
	RecordPayment(ctx context.Context, id int64, amount decimal.Decimal) (Order, error)
}

type repository struct {
	exec fetch.Executor
}

func NewRepository(exec fetch.Executor) Repository {
	return &repository{exec: exec}
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := fetch.Result[[]Order](r.exec.Execute(ctx, keyList, fetch.Get(basePath, nil)))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return rows, nil
}

func (r *repository) Search(ctx context.Context, q SearchQuery) ([]Order, error) {
	params := url.Values{}
	if q.Date != "" {
		params.Set("date", q.Date)
	} else {
		params.Set("customerName", q.CustomerName)
	}

	rows, err := fetch.Result[[]Order](r.exec.Execute(ctx, keySearch, fetch.Get(basePath+"/search", params)))
	if err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, draft pricing.Draft) (Order, error) {
	body, err := toCreateRequest(draft)
	if err != nil {
		return Order{}, err
	}

	out, err := r.exec.Execute(ctx, keyCreate, fetch.Post(basePath+"/new", body))
	if err := fetch.Done(out, err); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	if out.Kind != fetch.KindData {
		return Order{Status: body.Status, Date: body.DateOfEvent}, nil
	}

	var created Order
	if err := out.Decode(&created); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return created, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	if err := fetch.Done(r.exec.Execute(ctx, keyFor("deleteOrder", id), fetch.Delete(orderPath(id, "")))); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, next status.OrderStatus) (Order, error) {
	target := fetch.Put(orderPath(id, "/status"), nil, statusRequest{Status: next})
	updated, err := r.updated(ctx, keyFor("orderStatus", id), target)
	if err != nil {
		return Order{}, fmt.Errorf("update order %d status: %w", id, err)
	}
	return updated, nil
}

func (r *repository) RecordPayment(ctx context.Context, id int64, amount decimal.Decimal) (Order, error) {
	params := url.Values{"paidAmount": {amount.StringFixed(2)}}
	updated, err := r.updated(ctx, keyFor("orderPayment", id), fetch.Put(orderPath(id, "/paid"), params, nil))
	if err != nil {
		return Order{}, fmt.Errorf("record payment on order %d: %w", id, err)
	}
	return updated, nil
}

// updated runs a PUT that answers with the changed order. A bodiless success
// yields a zero Order; callers then keep their own copy.
func (r *repository) updated(ctx context.Context, key string, target fetch.Target) (Order, error) {
	out, err := r.exec.Execute(ctx, key, target)
	if err := fetch.Done(out, err); err != nil {
		return Order{}, err
	}
	if out.Kind != fetch.KindData {
		return Order{}, nil
	}
	var o Order
	if err := out.Decode(&o); err != nil {
		return Order{}, err
	}
	return o, nil
}
