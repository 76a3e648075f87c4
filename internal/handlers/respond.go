package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request error",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseFiscalYear accepts "2021", "2021-2022" or "FY2021-22" and returns the starting year.
func parseFiscalYear(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "FY")
	start, _, _ := strings.Cut(s, "-")
	fy, err := strconv.Atoi(start)
	if err != nil || fy < 1900 || fy > 9999 {
		return 0, &apperrors.ErrValidation{Field: "fiscal_year", Message: "expected a year such as 2021 or 2021-2022"}
	}
	return fy, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseTypes maps a comma-separated type list onto the stored spellings.
func parseTypes(s string) ([]string, error) {
	var out []string
	for _, t := range splitList(s) {
		kind, err := costbasis.ParseKind(t)
		if err != nil {
			return nil, err
		}
		out = append(out, kind.String())
	}
	return out, nil
}
