package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/adnair/paneltrack/internal/ledger"
	"github.com/adnair/paneltrack/internal/masterlist"
	"github.com/adnair/paneltrack/internal/report"
)

type Server struct {
	ledger      *ledger.Service
	reports     *report.Service
	technicians *masterlist.Technicians
	mux         *http.ServeMux
	logger      *slog.Logger
}

func NewServer(lg *ledger.Service, rp *report.Service, techs *masterlist.Technicians, logger *slog.Logger) *Server {
	s := &Server{
		ledger:      lg,
		reports:     rp,
		technicians: techs,
		mux:         http.NewServeMux(),
		logger:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/technicians", s.handleListTechnicians)
	s.mux.HandleFunc("GET /api/machines", s.handleListMachines)
	s.mux.HandleFunc("GET /api/assets/{id}", s.handleLookupAsset)
	s.mux.HandleFunc("POST /api/assets/{id}/register", s.handleRegisterAsset)
	s.mux.HandleFunc("POST /api/transactions", s.handleApplyTransaction)
	s.mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	s.mux.HandleFunc("GET /api/reports/pipeline", s.handleRepairPipeline)
	s.mux.HandleFunc("GET /api/reports/trend", s.handleRemovalTrend)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/history/export", s.handleHistoryExport)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
