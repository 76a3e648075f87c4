package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/services"
)

type TransactionHandler struct {
	service services.TransactionService
	logger  *zap.Logger
}

func NewTransactionHandler(service services.TransactionService, l *zap.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, logger: logger.OrNop(l)}
}

// TransactionRequest is the body accepted when recording a trade.
type TransactionRequest struct {
	OwnerID       string          `json:"owner_id"`
	InstrumentKey string          `json:"instrument_key"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Units         decimal.Decimal `json:"units"`
	Price         decimal.Decimal `json:"price"`
	Fee           decimal.Decimal `json:"fee"`
	Notes         *string         `json:"notes,omitempty"`
}

// NotesRequest is the body accepted by PUT /transactions/{id}.
type NotesRequest struct {
	Notes *string `json:"notes"`
}

// HandleTransactions handles collection-level operations for transactions.
// @Summary List or create transactions
// @Description List an owner's trades, newest first, or record a new buy or sell
// @Tags transactions
// @Accept json
// @Produce json
// @Param owner_id query string false "Owner"
// @Param instruments query string false "Comma-separated instrument keys"
// @Param types query string false "Comma-separated types (Buy, Sell)"
// @Param fiscal_year query string false "Fiscal year (2021 or 2021-2022)"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param transaction body TransactionRequest false "Trade to record (POST)"
// @Success 200 {array} models.Transaction
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /transactions [get]
// @Router /transactions [post]
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTransactions(w, r)
	case http.MethodPost:
		h.createTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransaction handles item-level operations for a transaction.
// @Summary Get, annotate, or delete a transaction
// @Description Trades are immutable apart from their notes
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param notes body NotesRequest false "New notes (PUT)"
// @Success 200 {object} models.Transaction
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /transactions/{id} [get]
// @Router /transactions/{id} [put]
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, h.logger, &apperrors.ErrValidation{Field: "id", Message: "must be a positive integer"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTransaction(w, r, id)
	case http.MethodPut:
		h.updateNotes(w, r, id)
	case http.MethodDelete:
		h.deleteTransaction(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	types, err := parseTypes(q.Get("types"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter := &models.TransactionFilter{
		OwnerID:     q.Get("owner_id"),
		Instruments: splitList(q.Get("instruments")),
		Types:       types,
	}

	if fyStr := q.Get("fiscal_year"); fyStr != "" {
		fy, err := parseFiscalYear(fyStr)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		filter.FiscalYear = &fy
	}
	if startDate := q.Get("start_date"); startDate != "" {
		if date, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartDate = &date
		}
	}
	if endDate := q.Get("end_date"); endDate != "" {
		if date, err := time.Parse("2006-01-02", endDate); err == nil {
			filter.EndDate = &date
		}
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}

	transactions, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	total, err := h.service.GetTransactionCount(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}

	date, err := importer.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	tx := &models.Transaction{
		OwnerID:       req.OwnerID,
		InstrumentKey: req.InstrumentKey,
		Date:          date,
		Type:          req.Type,
		Units:         req.Units,
		UnitPrice:     req.Price,
		Fee:           req.Fee,
		Notes:         req.Notes,
	}
	if err := h.service.CreateTransaction(r.Context(), tx); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) getTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) updateNotes(w http.ResponseWriter, r *http.Request, id int64) {
	var req NotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}

	tx, err := h.service.UpdateNotes(r.Context(), id, req.Notes)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) deleteTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
