package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/services"
)

// MaxImportBytes caps the size of an uploaded CSV.
const MaxImportBytes = 10 << 20

type ImportHandler struct {
	service services.TransactionService
	logger  *zap.Logger
}

func NewImportHandler(service services.TransactionService, l *zap.Logger) *ImportHandler {
	return &ImportHandler{service: service, logger: logger.OrNop(l)}
}

// HandleImport loads a CSV of trades for one owner.
// @Summary Import trades from CSV
// @Description Body is a CSV (text/csv) or a multipart form with a "file" field. Columns: date, type, instrument (or stock/symbol), units, price, fee, notes.
// @Tags transactions
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Param owner_id query string true "Owner"
// @Param skip_invalid query bool false "Store valid rows and report the rest instead of aborting"
// @Success 201 {object} models.ImportResult
// @Failure 400 {object} models.ImportResult
// @Failure 500 {object} map[string]string
// @Router /transactions/import [post]
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if strings.TrimSpace(ownerID) == "" {
		writeError(w, r, h.logger, &apperrors.ErrValidation{Field: "owner_id", Message: "is required"})
		return
	}
	skipInvalid, _ := strconv.ParseBool(r.URL.Query().Get("skip_invalid"))

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)
	body, err := h.csvBody(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	defer body.Close()

	rows, err := importer.ParseCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, h.logger, &apperrors.ErrValidation{Field: "file", Message: err.Error(), Err: err})
		return
	}

	result, err := h.service.ImportTransactions(r.Context(), ownerID, rows, models.ImportOptions{SkipInvalid: skipInvalid})
	if err != nil {
		if result != nil && apperrors.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, result)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ImportHandler) csvBody(r *http.Request) (io.ReadCloser, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, &apperrors.ErrValidation{Field: "file", Message: "multipart upload needs a \"file\" field", Err: err}
	}
	return file, nil
}
