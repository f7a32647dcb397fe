package customer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"orderdesk/internal/fetch"
)

const basePath = "/api/customers"

// Request keys. Each names one cancellation slot in the coordinator.
const (
	keyList   = "customers"
	keySearch = "customerSearch"
	keyCreate = "createCustomer"
)

func keyDelete(id int64) string {
	return "deleteCustomer:" + strconv.FormatInt(id, 10)
}

type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, q SearchQuery) ([]Customer, error)
	Create(ctx context.Context, input NewCustomer) (Customer, error)
	Delete(ctx context.Context, id int64) error
	CancelSearch()
}

type canceller interface {
	Cancel(key string) bool
}

type repository struct {
	exec fetch.Executor
}

// NewRepository talks to the customers API through exec. When exec can also
// cancel (a *fetch.Coordinator can), CancelSearch aborts an in-flight search.
func NewRepository(exec fetch.Executor) Repository {
	return &repository{exec: exec}
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := fetch.Result[[]Customer](r.exec.Execute(ctx, keyList, fetch.Get(basePath, nil)))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return rows, nil
}

func (r *repository) Search(ctx context.Context, q SearchQuery) ([]Customer, error) {
	params := url.Values{}
	if q.Number != "" {
		params.Set("number", q.Number)
	} else {
		params.Set("name", q.Name)
	}

	rows, err := fetch.Result[[]Customer](r.exec.Execute(ctx, keySearch, fetch.Get(basePath+"/search", params)))
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, input NewCustomer) (Customer, error) {
	out, err := r.exec.Execute(ctx, keyCreate, fetch.Post(basePath+"/new", input))
	if err := fetch.Done(out, err); err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}

	if out.Kind != fetch.KindData {
		return Customer{Name: input.Name, Number: input.Number}, nil
	}
	var created Customer
	if err := out.Decode(&created); err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	path := basePath + "/" + strconv.FormatInt(id, 10)
	if err := fetch.Done(r.exec.Execute(ctx, keyDelete(id), fetch.Delete(path))); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

func (r *repository) CancelSearch() {
	if c, ok := r.exec.(canceller); ok {
		c.Cancel(keySearch)
	}
}
