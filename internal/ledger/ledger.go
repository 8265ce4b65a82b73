// Package ledger implements the asset lifecycle rules: classifying scanned
// IDs, registering new assets, and committing install/remove transactions
// against the inventory snapshot and the history log.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adnair/paneltrack/internal/domain"
)

var (
	// ErrEmptyID rejects a blank or whitespace-only panel ID.
	ErrEmptyID = errors.New("panel ID is empty")
	// ErrAlreadyRegistered blocks duplicate inventory rows.
	ErrAlreadyRegistered = errors.New("panel ID already registered")
	// ErrNotAuthorized rejects registration of an ID absent from the master
	// list when unlisted registration is disabled.
	ErrNotAuthorized = errors.New("panel ID not in master list")
	// ErrUnknownMachine rejects an install target outside the machine list.
	ErrUnknownMachine = errors.New("unknown machine")
	// ErrInvalidStage rejects a repair removal without a valid pipeline stage.
	ErrInvalidStage = errors.New("invalid repair stage")
	// ErrExplanationRequired blocks a commit with category "Other" and no
	// written explanation. This is the only validation that stops a commit.
	ErrExplanationRequired = errors.New("explanation required for category Other")
)

// inventoryRepository is the subset of store.InventoryStore the ledger needs.
type inventoryRepository interface {
	Reload() error
	Get(id string) (domain.Asset, bool)
	Upsert(a domain.Asset)
	Save() error
}

// historyRepository is the subset of store.HistoryStore the ledger needs.
type historyRepository interface {
	Reload() error
	Append(tx domain.Transaction)
	Save() error
}

// whitelist is the subset of masterlist.PanelIDs the ledger needs.
type whitelist interface {
	Reload() error
	Contains(id string) bool
	Append(id string) error
}

// Classification is the result of looking up a scanned ID.
type Classification string

const (
	// ClassKnown: the ID has an inventory row; its current state is returned.
	ClassKnown Classification = "known"
	// ClassRegistrable: no inventory row, but the master list authorizes it.
	ClassRegistrable Classification = "registrable"
	// ClassUnknown: absent from both inventory and master list.
	ClassUnknown Classification = "unknown"
)

// LookupResult reports how a scanned ID classifies and, when known, its
// current state.
type LookupResult struct {
	ID             string         `json:"id"`
	Classification Classification `json:"classification"`
	Asset          *domain.Asset  `json:"asset,omitempty"`
	// Registrable reports whether a registration attempt would be accepted.
	Registrable bool `json:"registrable"`
}

// Service applies ledger operations against the two tables. Commits are
// serialized by a mutex; across processes the backing files remain
// last-writer-wins, as the original system left them.
type Service struct {
	mu            sync.Mutex
	inventory     inventoryRepository
	history       historyRepository
	panels        whitelist
	machines      []string
	allowUnlisted bool
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(
	inventory inventoryRepository,
	history historyRepository,
	panels whitelist,
	machines []string,
	allowUnlisted bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		inventory:     inventory,
		history:       history,
		panels:        panels,
		machines:      machines,
		allowUnlisted: allowUnlisted,
		logger:        logger,
		now:           time.Now,
	}
}

// Machines returns the install targets offered to operators.
func (s *Service) Machines() []string {
	out := make([]string, len(s.machines))
	copy(out, s.machines)
	return out
}

// Lookup classifies a scanned ID against the inventory and the master list.
// Both are reloaded first so the answer reflects the files on disk.
func (s *Service) Lookup(ctx context.Context, rawID string) (*LookupResult, error) {
	id := domain.NormalizeID(rawID)
	if id == "" {
		return nil, ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadRefs(); err != nil {
		return nil, err
	}

	if a, ok := s.inventory.Get(id); ok {
		return &LookupResult{ID: id, Classification: ClassKnown, Asset: &a, Registrable: false}, nil
	}
	if s.panels.Contains(id) {
		return &LookupResult{ID: id, Classification: ClassRegistrable, Registrable: true}, nil
	}
	return &LookupResult{ID: id, Classification: ClassUnknown, Registrable: s.allowUnlisted}, nil
}

// Register creates the inventory row for a not-yet-tracked asset, starting
// it in Storage. An ID outside the master list is accepted only when
// unlisted registration is enabled, in which case the ID is also appended to
// the master list.
func (s *Service) Register(ctx context.Context, rawID string) (*domain.Asset, error) {
	id := domain.NormalizeID(rawID)
	if id == "" {
		return nil, ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadRefs(); err != nil {
		return nil, err
	}

	if _, ok := s.inventory.Get(id); ok {
		return nil, ErrAlreadyRegistered
	}

	listed := s.panels.Contains(id)
	if !listed && !s.allowUnlisted {
		return nil, ErrNotAuthorized
	}

	a := domain.Asset{
		ID:          id,
		Status:      domain.StatusStorage,
		SubStatus:   domain.SubNone,
		Location:    domain.LocationStorage,
		LastUpdated: s.now().Truncate(time.Second),
	}
	s.inventory.Upsert(a)
	if err := s.inventory.Save(); err != nil {
		return nil, err
	}

	if !listed {
		if err := s.panels.Append(id); err != nil {
			return nil, fmt.Errorf("asset registered but master list update failed: %w", err)
		}
	}

	s.logger.Info("asset registered", "panel_id", id, "listed", listed)
	return &a, nil
}

func (s *Service) reloadRefs() error {
	if err := s.inventory.Reload(); err != nil {
		return err
	}
	if err := s.panels.Reload(); err != nil {
		return err
	}
	return nil
}
