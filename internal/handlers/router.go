package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/metrics"
	"github.com/tropicaldog17/capgains/internal/services"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Health() error
}

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Transactions   services.TransactionService
	Gains          services.GainsService
	Health         HealthChecker
	Logger         *zap.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	l := logger.OrNop(cfg.Logger)

	transactionHandler := NewTransactionHandler(cfg.Transactions, l)
	importHandler := NewImportHandler(cfg.Transactions, l)
	gainsHandler := NewGainsHandler(cfg.Gains, l)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/health", healthHandler(cfg.Health)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, l))

	api.HandleFunc("/transactions", transactionHandler.HandleTransactions).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/transactions/import", importHandler.HandleImport).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id:[0-9]+}", transactionHandler.HandleTransaction).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)

	api.HandleFunc("/gains", gainsHandler.HandleScopeReport).Methods(http.MethodGet)
	api.HandleFunc("/gains/summary", gainsHandler.HandleOwnerReport).Methods(http.MethodGet)

	return RequestLogger(l)(CORS(cfg.CORSOrigins)(r))
}

// healthHandler handles health checks.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Health(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":  "unhealthy",
					"service": "capgains",
					"error":   err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "capgains",
		})
	}
}
