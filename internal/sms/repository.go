package sms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"orderdesk/internal/fetch"
)

const basePath = "/api/sms"

// Request keys. Listing all and listing unmatched share one slot since both
// fill the same table.
const (
	keyList   = "smsTransactions"
	keyRecord = "recordSms"
)

func keyFind(id int64) string {
	return "smsTransaction:" + strconv.FormatInt(id, 10)
}

func keyMatch(id int64) string {
	return "matchSms:" + strconv.FormatInt(id, 10)
}

func keyDelete(id int64) string {
	return "deleteSms:" + strconv.FormatInt(id, 10)
}

type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	Unmatched(ctx context.Context) ([]Transaction, error)
	Find(ctx context.Context, id int64) (Transaction, error)
	Record(ctx context.Context, message string) (Receipt, error)
	Match(ctx context.Context, id, orderID int64) (Transaction, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	exec fetch.Executor
}

func NewRepository(exec fetch.Executor) Repository {
	return &repository{exec: exec}
}

func (r *repository) List(ctx context.Context) ([]Transaction, error) {
	rows, err := fetch.Result[[]Transaction](r.exec.Execute(ctx, keyList, fetch.Get(basePath, nil)))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

func (r *repository) Unmatched(ctx context.Context) ([]Transaction, error) {
	rows, err := fetch.Result[[]Transaction](r.exec.Execute(ctx, keyList, fetch.Get(basePath+"/unmatched", nil)))
	if err != nil {
		return nil, fmt.Errorf("list unmatched transactions: %w", err)
	}
	return rows, nil
}

func (r *repository) Find(ctx context.Context, id int64) (Transaction, error) {
	path := basePath + "/" + strconv.FormatInt(id, 10)
	tx, err := fetch.Result[Transaction](r.exec.Execute(ctx, keyFind(id), fetch.Get(path, nil)))
	if err != nil {
		return Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *repository) Record(ctx context.Context, message string) (Receipt, error) {
	receipt, err := fetch.Result[Receipt](r.exec.Execute(ctx, keyRecord,
		fetch.Post(basePath+"/webhook", webhookRequest{Message: message})))
	if err != nil {
		return Receipt{}, fmt.Errorf("record transaction: %w", err)
	}
	return receipt, nil
}

func (r *repository) Match(ctx context.Context, id, orderID int64) (Transaction, error) {
	path := basePath + "/" + strconv.FormatInt(id, 10) + "/match"
	query := url.Values{"orderId": {strconv.FormatInt(orderID, 10)}}

	tx, err := fetch.Result[Transaction](r.exec.Execute(ctx, keyMatch(id), fetch.Put(path, query, nil)))
	if err != nil {
		return Transaction{}, fmt.Errorf("match transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	path := basePath + "/" + strconv.FormatInt(id, 10)
	if err := fetch.Done(r.exec.Execute(ctx, keyDelete(id), fetch.Delete(path))); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}
