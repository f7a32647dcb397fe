package product

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"orderdesk/internal/fetch"
)

const basePath = "/api/products"

const (
	keyList   = "productList"
	keySearch = "productSearch"
	keyCreate = "addProduct"
)

func keyDelete(id int64) string {
	return "deleteProduct:" + strconv.FormatInt(id, 10)
}

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	Create(ctx context.Context, input NewProduct) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	exec fetch.Executor
}

func NewRepository(exec fetch.Executor) Repository {
	return &repository{exec: exec}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := fetch.Result[[]Product](r.exec.Execute(ctx, keyList, fetch.Get(basePath, nil)))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

func (r *repository) Search(ctx context.Context, term string) ([]Product, error) {
	params := url.Values{"searchTerm": {term}}
	rows, err := fetch.Result[[]Product](r.exec.Execute(ctx, keySearch, fetch.Get(basePath+"/search", params)))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, input NewProduct) (Product, error) {
	out, err := r.exec.Execute(ctx, keyCreate, fetch.Post(basePath+"/new", toCreateRequest(input)))
	if err := fetch.Done(out, err); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}

	if out.Kind != fetch.KindData {
		return Product{Name: input.Name, Price: input.Price, Stock: input.Stock, Type: input.Type}, nil
	}
	var created Product
	if err := out.Decode(&created); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	path := basePath + "/" + strconv.FormatInt(id, 10)
	if err := fetch.Done(r.exec.Execute(ctx, keyDelete(id), fetch.Delete(path))); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}
