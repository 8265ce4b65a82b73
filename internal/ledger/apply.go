package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adnair/paneltrack/internal/domain"
)

// installCategory is stamped on every install transaction.
const installCategory = "Production"

// TransactionRequest carries one operator-submitted install or removal.
type TransactionRequest struct {
	AssetID    string
	Action     domain.Action
	Technician string

	// Machine is the install target; required for installs.
	Machine string

	// Reason, Stage, Category and Explanation describe a removal. Stage is
	// required only when Reason is Repair; Explanation only when Category is
	// Other.
	Reason      domain.RemovalReason
	Stage       domain.SubStatus
	Category    string
	Explanation string

	Notes string
}

// Apply derives the asset's next state from the request, upserts the
// inventory row, appends the history row, and persists both tables before
// returning. A request that fails validation changes nothing: no state
// change, no log entry.
func (s *Service) Apply(ctx context.Context, req TransactionRequest) (*domain.Transaction, error) {
	id := domain.NormalizeID(req.AssetID)
	if id == "" {
		return nil, ErrEmptyID
	}

	status, sub, location, err := s.derive(req)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if req.Action == domain.ActionInstall && category == "" {
		category = installCategory
	}
	if strings.EqualFold(category, domain.CategoryOther) && strings.TrimSpace(req.Explanation) == "" {
		return nil, ErrExplanationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inventory.Reload(); err != nil {
		return nil, err
	}
	if err := s.history.Reload(); err != nil {
		return nil, err
	}

	now := s.now()
	s.inventory.Upsert(domain.Asset{
		ID:          id,
		Status:      status,
		SubStatus:   sub,
		Location:    location,
		LastUpdated: now.Truncate(time.Second),
	})

	tx := domain.Transaction{
		ID:        uuid.NewString(),
		Timestamp: now.Truncate(time.Minute),
		AssetID:   id,
		Action:    req.Action,
		User:      req.Technician,
		Category:  category,
		SubStatus: sub,
		Comments:  composeComment(category, req.Explanation, req.Notes),
	}
	s.history.Append(tx)

	if err := s.inventory.Save(); err != nil {
		return nil, err
	}
	if err := s.history.Save(); err != nil {
		return nil, err
	}

	s.logger.Info("transaction committed",
		"txn_id", tx.ID,
		"panel_id", id,
		"action", req.Action,
		"status", status,
		"location", location,
		"user", req.Technician,
	)
	return &tx, nil
}

// derive computes the (status, sub-status, location) triple for a request.
func (s *Service) derive(req TransactionRequest) (domain.Status, domain.SubStatus, string, error) {
	switch req.Action {
	case domain.ActionInstall:
		machine := strings.TrimSpace(req.Machine)
		if !s.knownMachine(machine) {
			return "", "", "", fmt.Errorf("%w: %q", ErrUnknownMachine, req.Machine)
		}
		return domain.StatusInUse, domain.SubNone, machine, nil

	case domain.ActionRemove:
		switch req.Reason {
		case domain.ReasonRepair:
			stage, err := domain.ParseSubStatus(string(req.Stage))
			if err != nil {
				return "", "", "", fmt.Errorf("%w: %q", ErrInvalidStage, req.Stage)
			}
			return domain.StatusUnderRepair, stage, domain.LocationWorkshop, nil
		case domain.ReasonPM:
			return domain.StatusUnderPM, domain.SubNone, domain.LocationWorkshop, nil
		case domain.ReasonDamaged:
			return domain.StatusDamaged, domain.SubNone, domain.LocationWorkshop, nil
		case domain.ReasonOther:
			return domain.StatusOther, domain.SubNone, domain.LocationWorkshop, nil
		case domain.ReasonUnknown:
			return domain.StatusUnknown, domain.SubNone, domain.LocationWorkshop, nil
		default:
			return "", "", "", fmt.Errorf("invalid removal reason %q", req.Reason)
		}

	default:
		return "", "", "", fmt.Errorf("invalid action %q", req.Action)
	}
}

func (s *Service) knownMachine(machine string) bool {
	for _, m := range s.machines {
		if m == machine {
			return true
		}
	}
	return false
}

// composeComment prefixes the operator's notes with the failure category.
// The "Other" explanation is folded in ahead of the notes.
func composeComment(category, explanation, notes string) string {
	if strings.EqualFold(category, domain.CategoryOther) {
		return fmt.Sprintf("[%s] %s | %s", category, explanation, notes)
	}
	return fmt.Sprintf("[%s] %s", category, notes)
}
