package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"orderdesk/internal/fetch"
	"orderdesk/internal/logger"
	"orderdesk/internal/view"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Transaction, error)
	Unmatched(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id int64) (Transaction, error)
	Record(ctx context.Context, message string) (Receipt, error)
	Match(ctx context.Context, id, orderID int64) (Transaction, error)
	Delete(ctx context.Context, id int64) error
	Rows() []Transaction
	Render(w io.Writer) error
}

type service struct {
	repo Repository
	rows view.Rows[Transaction]
	now  func() time.Time

	// set while the table shows only unmatched transactions
	unmatchedOnly atomic.Bool
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context) ([]Transaction, error) {
	return s.load(ctx, "ListTransactions", false, s.repo.List)
}

func (s *service) Unmatched(ctx context.Context) ([]Transaction, error) {
	return s.load(ctx, "ListUnmatchedTransactions", true, s.repo.Unmatched)
}

func (s *service) load(ctx context.Context, method string, unmatched bool, fetchRows func(context.Context) ([]Transaction, error)) ([]Transaction, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
	)
	start := time.Now()

	rows, err := fetchRows(ctx)
	if errors.Is(err, fetch.ErrCancelled) {
		log.Debug("transaction list superseded")
		return s.rows.Get(), nil
	}
	if err != nil {
		log.Error("failed to fetch transactions", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return s.rows.Get(), err
	}

	s.unmatchedOnly.Store(unmatched)
	s.rows.Set(rows)
	log.Info("transactions loaded",
		zap.Int("count", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)
	return rows, nil
}

func (s *service) Get(ctx context.Context, id int64) (Transaction, error) {
	tx, err := s.repo.Find(ctx, id)
	if errors.Is(err, fetch.ErrNotFound) {
		return Transaction{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return tx, err
}

// Record checks the confirmation text locally and only forwards messages
// that parse. A code the backend has already seen comes back as ErrDuplicate.
func (s *service) Record(ctx context.Context, message string) (Receipt, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RecordTransaction"),
	)

	parsed, err := ParseMessage(message, s.now())
	if err != nil {
		log.Debug("message rejected locally", zap.Error(err))
		return Receipt{}, err
	}
	log = log.With(zap.String("transaction_code", parsed.Code))

	receipt, err := s.repo.Record(ctx, message)
	if err != nil {
		if isConflict(err) {
			return Receipt{}, fmt.Errorf("%w: %s", ErrDuplicate, parsed.Code)
		}
		if !errors.Is(err, fetch.ErrCancelled) {
			log.Error("failed to record transaction", zap.Error(err))
		}
		return Receipt{}, err
	}

	tx := receipt.Transaction
	if s.rows.Loaded() && (!s.unmatchedOnly.Load() || tx.Status == StatusUnmatched) {
		s.rows.Set(append(s.rows.Get(), tx))
	}
	log.Info("transaction recorded",
		zap.String("status", string(tx.Status)),
		zap.Bool("matched", receipt.Matched),
	)
	return receipt, nil
}

// Match assigns a transaction to an order by hand. A transaction the table
// already shows as applied is refused without a request.
func (s *service) Match(ctx context.Context, id, orderID int64) (Transaction, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MatchTransaction"),
		zap.Int64("transaction_id", id),
		zap.Int64("order_id", orderID),
	)

	if current, ok := s.find(id); ok && current.Status.Applied() {
		return Transaction{}, fmt.Errorf("%w: #%d", ErrAlreadyMatched, id)
	}

	updated, err := s.repo.Match(ctx, id, orderID)
	switch {
	case err == nil:
	case errors.Is(err, fetch.ErrCancelled):
		return Transaction{}, err
	default:
		log.Error("failed to match transaction", zap.Error(err))
		return Transaction{}, err
	}

	if s.unmatchedOnly.Load() {
		s.rows.Remove(func(t Transaction) bool { return t.ID == id })
	} else {
		s.replace(updated)
	}
	log.Info("transaction matched")
	return updated, nil
}

// Delete removes a transaction. A 404 refreshes the table and comes back
// wrapped in ErrNotFound.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteTransaction"),
		zap.Int64("transaction_id", id),
	)

	err := s.repo.Delete(ctx, id)
	switch {
	case err == nil:
		s.rows.Remove(func(t Transaction) bool { return t.ID == id })
		log.Info("transaction deleted")
		return nil

	case errors.Is(err, fetch.ErrNotFound):
		log.Warn("transaction already gone, refreshing list")
		s.rows.Remove(func(t Transaction) bool { return t.ID == id })
		if _, refreshErr := s.refresh(ctx); refreshErr != nil {
			log.Warn("refresh after not found failed", zap.Error(refreshErr))
		}
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case errors.Is(err, fetch.ErrCancelled):
		return err
	}

	log.Error("failed to delete transaction", zap.Error(err))
	return err
}

func (s *service) Rows() []Transaction {
	return s.rows.Get()
}

func (s *service) Render(w io.Writer) error {
	txs := s.rows.Get()
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, toTableRow(t))
	}
	empty := "No transactions found"
	if s.unmatchedOnly.Load() {
		empty = "No unmatched transactions"
	}
	return view.Table(w, tableHeaders, rows, empty)
}

func (s *service) refresh(ctx context.Context) ([]Transaction, error) {
	if s.unmatchedOnly.Load() {
		return s.Unmatched(ctx)
	}
	return s.List(ctx)
}

func (s *service) find(id int64) (Transaction, bool) {
	for _, t := range s.rows.Get() {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

func (s *service) replace(t Transaction) {
	rows := s.rows.Get()
	for i := range rows {
		if rows[i].ID == t.ID {
			rows[i] = t
			s.rows.Set(rows)
			return
		}
	}
}

func isConflict(err error) bool {
	var httpErr *fetch.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict
}
