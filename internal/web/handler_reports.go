package web

import (
	"net/http"
)

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.reports.KPIs(r.Context())
	if err != nil {
		s.logger.Error("kpi report failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute KPIs")
		return
	}
	s.writeJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleRepairPipeline(w http.ResponseWriter, r *http.Request) {
	pipeline, err := s.reports.RepairPipeline(r.Context())
	if err != nil {
		s.logger.Error("pipeline report failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute pipeline")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"pipeline": pipeline})
}

func (s *Server) handleRemovalTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := s.reports.RemovalTrend(r.Context())
	if err != nil {
		s.logger.Error("trend report failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute trend")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"trend": trend})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Audit(r.Context())
	if err != nil {
		s.logger.Error("audit listing failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"history": rows})
}

func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=history.csv")
		if err := s.reports.ExportHistoryCSV(r.Context(), w); err != nil {
			s.logger.Error("csv export failed", "error", err)
		}
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=history.xlsx")
		if err := s.reports.ExportHistoryXLSX(r.Context(), w); err != nil {
			s.logger.Error("xlsx export failed", "error", err)
		}
	default:
		s.writeError(w, http.StatusBadRequest, "unsupported export format")
	}
}
