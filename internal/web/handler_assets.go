package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adnair/paneltrack/internal/domain"
	"github.com/adnair/paneltrack/internal/ledger"
)

func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"technicians": s.technicians.Names()})
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": s.ledger.Machines()})
}

func (s *Server) handleLookupAsset(w http.ResponseWriter, r *http.Request) {
	result, err := s.ledger.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyID) {
			s.writeError(w, http.StatusBadRequest, "panel ID required")
			return
		}
		s.logger.Error("lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.ledger.Register(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEmptyID):
			s.writeError(w, http.StatusBadRequest, "panel ID required")
		case errors.Is(err, ledger.ErrAlreadyRegistered):
			s.writeError(w, http.StatusConflict, "panel ID already registered")
		case errors.Is(err, ledger.ErrNotAuthorized):
			s.writeError(w, http.StatusNotFound, "panel ID not in master list")
		default:
			s.logger.Error("register failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "register failed")
		}
		return
	}
	s.writeJSON(w, http.StatusCreated, asset)
}

// transactionPayload is the wire form of a transaction request. Enums are
// validated here, at the boundary, before anything reaches the ledger.
type transactionPayload struct {
	AssetID     string `json:"asset_id"`
	Action      string `json:"action"`
	Technician  string `json:"technician"`
	Machine     string `json:"machine"`
	Reason      string `json:"reason"`
	Stage       string `json:"stage"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
	Notes       string `json:"notes"`
}

func (s *Server) handleApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := payload.toRequest()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.ledger.Apply(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEmptyID),
			errors.Is(err, ledger.ErrUnknownMachine),
			errors.Is(err, ledger.ErrInvalidStage):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrExplanationRequired):
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("transaction failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "transaction failed")
		}
		return
	}
	s.writeJSON(w, http.StatusCreated, tx)
}

func (p *transactionPayload) toRequest() (ledger.TransactionRequest, error) {
	action, err := domain.ParseAction(p.Action)
	if err != nil {
		return ledger.TransactionRequest{}, err
	}

	req := ledger.TransactionRequest{
		AssetID:     p.AssetID,
		Action:      action,
		Technician:  p.Technician,
		Machine:     p.Machine,
		Stage:       domain.SubStatus(p.Stage),
		Category:    p.Category,
		Explanation: p.Explanation,
		Notes:       p.Notes,
	}

	if action == domain.ActionRemove {
		reason, err := domain.ParseRemovalReason(p.Reason)
		if err != nil {
			return ledger.TransactionRequest{}, err
		}
		req.Reason = reason
	}
	return req, nil
}
