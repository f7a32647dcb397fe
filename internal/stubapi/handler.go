package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"orderdesk/internal/logger"
	"orderdesk/internal/pricing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// --- Customers ---

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.toCustomerResponses(h.store.Customers()))
}

func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.toCustomerResponses(h.store.SearchCustomers(q.Get("name"), q.Get("number"))))
}

func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.store.AddCustomer(req.Name, req.Number)
	if err != nil {
		h.fail(w, r, "AddCustomer", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toCustomerResponse(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCustomer(id); err != nil {
		h.fail(w, r, "DeleteCustomer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Products ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProductResponses(h.store.Products()))
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProductResponses(h.store.SearchProducts(r.URL.Query().Get("searchTerm"))))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.store.AddProduct(req.Name, decimal.NewFromFloat(req.Price), req.Stock, req.Type)
	if err != nil {
		h.fail(w, r, "AddProduct", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(id); err != nil {
		h.fail(w, r, "DeleteProduct", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.toOrderResponses(h.store.Orders()))
}

func (h *Handler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.toOrderResponses(h.store.SearchOrders(q.Get("customerName"), q.Get("date"))))
}

func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decode(w, r, &req) {
		return
	}

	o, err := h.store.AddOrder(toNewOrder(req))
	if err != nil {
		h.fail(w, r, "AddOrder", err)
		return
	}
	logger.FromCtx(r.Context()).Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	writeJSON(w, http.StatusCreated, h.toOrderResponse(o))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteOrder(id); err != nil {
		h.fail(w, r, "DeleteOrder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	next := req.Status
	if next == "" {
		next = req.NewStatus
	}

	o, err := h.store.UpdateStatus(id, next)
	if err != nil {
		h.fail(w, r, "UpdateOrderStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	amount, err := pricing.ParseAmount(r.URL.Query().Get("paidAmount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment amount")
		return
	}

	o, err := h.store.RecordPayment(id, amount)
	if err != nil {
		h.fail(w, r, "RecordPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}

// --- SMS transactions ---

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransactionResponses(h.store.Transactions()))
}

func (h *Handler) UnmatchedTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransactionResponses(h.store.UnmatchedTransactions()))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.store.Transaction(id)
	if err != nil {
		h.fail(w, r, "GetTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

// ReceiveSms is the webhook an SMS forwarder posts payment confirmations to.
func (h *Handler) ReceiveSms(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.store.RecordTransaction(req.Message)
	if err != nil {
		h.fail(w, r, "ReceiveSms", err)
		return
	}

	logger.FromCtx(r.Context()).Info("sms transaction recorded",
		zap.String("transaction_code", t.Code),
		zap.String("status", string(t.Status)),
	)
	writeJSON(w, http.StatusCreated, toReceiptResponse(t))
}

func (h *Handler) MatchTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	t, err := h.store.MatchTransaction(id, orderID)
	if err != nil {
		h.fail(w, r, "MatchTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteTransaction(id); err != nil {
		h.fail(w, r, "DeleteTransaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// fail maps store errors onto the backend's response conventions.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, method string, err error) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "handler"),
		zap.String("method", method),
	)

	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr):
		log.Warn("request rejected", zap.Strings("errors", inputErr.Messages))
		if len(inputErr.Messages) > 1 {
			writeJSON(w, http.StatusBadRequest, validationResponse{Errors: inputErr.Messages})
			return
		}
		writeError(w, http.StatusBadRequest, inputErr.Error())
	case errors.Is(err, ErrNotFound):
		log.Warn("resource not found", zap.Error(err))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrReferenced):
		log.Warn("delete refused", zap.Error(err))
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrDuplicate):
		log.Warn("duplicate submission", zap.Error(err))
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
