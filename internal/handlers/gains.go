package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/services"
)

type GainsHandler struct {
	service services.GainsService
	logger  *zap.Logger
}

func NewGainsHandler(service services.GainsService, l *zap.Logger) *GainsHandler {
	return &GainsHandler{service: service, logger: logger.OrNop(l)}
}

// HandleScopeReport returns the realized gains of one instrument for one owner.
// @Summary Realized gains for an instrument
// @Description FIFO-matched disposals with per-lot breakdown, remaining open lots and fiscal year totals
// @Tags gains
// @Produce json
// @Param owner_id query string true "Owner"
// @Param instrument query string true "Instrument key, e.g. ASX:BHP"
// @Param fiscal_year query string false "Only disposals in this fiscal year (2021 or 2021-2022)"
// @Success 200 {object} models.GainReport
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /gains [get]
func (h *GainsHandler) HandleScopeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := models.Scope{OwnerID: q.Get("owner_id"), InstrumentKey: q.Get("instrument")}

	report, err := h.service.GetScopeReport(r.Context(), scope)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if fyStr := q.Get("fiscal_year"); fyStr != "" {
		fy, err := parseFiscalYear(fyStr)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		report = report.ForFiscalYear(fy)
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleOwnerReport returns gains across every instrument an owner traded.
// @Summary Realized gains summary for an owner
// @Tags gains
// @Produce json
// @Param owner_id query string true "Owner"
// @Param fiscal_year query string false "Fiscal year (2021 or 2021-2022)"
// @Success 200 {object} models.OwnerGainReport
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /gains/summary [get]
func (h *GainsHandler) HandleOwnerReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var fiscalYear *int
	if fyStr := q.Get("fiscal_year"); fyStr != "" {
		fy, err := parseFiscalYear(fyStr)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		fiscalYear = &fy
	}

	report, err := h.service.GetOwnerReport(r.Context(), q.Get("owner_id"), fiscalYear)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
