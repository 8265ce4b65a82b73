package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/adnair/paneltrack/internal/domain"
)

// inventoryColumns is the canonical sheet schema. Older files may lack
// trailing columns; OpenInventory backfills them once.
var inventoryColumns = []string{"Panel_ID", "Status", "Sub_Status", "Location", "Last_Updated"}

const inventoryTimeFormat = time.RFC3339

// InventoryStore holds the current-state snapshot, one row per asset, backed
// by a single spreadsheet rewritten wholesale on every Save. Reads and
// reloads may run concurrently; writes (Upsert/Save) are serialized by the
// ledger's commit lock.
type InventoryStore struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	assets []domain.Asset
	index  map[string]int
}

func OpenInventory(path string, logger *slog.Logger) (*InventoryStore, error) {
	s := &InventoryStore{path: path, logger: logger, index: map[string]int{}}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info("inventory file missing, creating", "path", path)
		if err := writeWorkbook(path, inventoryColumns, nil); err != nil {
			return nil, fmt.Errorf("failed to create inventory file: %w", err)
		}
		return s, nil
	}

	header, err := s.load()
	if err != nil {
		return nil, err
	}

	// Versioned schema upgrade, run once at open: the header row is the
	// version. Historical file variants only ever added columns.
	if missing := missingColumns(header, inventoryColumns); len(missing) > 0 {
		logger.Info("upgrading inventory schema", "path", path, "added_columns", missing)
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to upgrade inventory schema: %w", err)
		}
	}
	return s, nil
}

// Reload replaces the in-memory snapshot with the file's current contents.
func (s *InventoryStore) Reload() error {
	_, err := s.load()
	return err
}

func (s *InventoryStore) load() ([]string, error) {
	header, rows, err := readWorkbook(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	// Parse into fresh slices, then swap under the lock, so concurrent
	// readers never observe a half-built snapshot.
	idx := columnIndex(header)
	assets := make([]domain.Asset, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		id := domain.NormalizeID(cellAt(row, idx, "Panel_ID"))
		if id == "" {
			continue
		}
		a := domain.Asset{
			ID:        id,
			Status:    domain.Status(cellAt(row, idx, "Status")),
			SubStatus: domain.SubStatus(cellAt(row, idx, "Sub_Status")),
			Location:  cellAt(row, idx, "Location"),
		}
		if a.SubStatus == "" {
			a.SubStatus = domain.SubNone
		}
		if ts := cellAt(row, idx, "Last_Updated"); ts != "" {
			if t, perr := time.Parse(inventoryTimeFormat, ts); perr == nil {
				a.LastUpdated = t
			}
		}
		// Unique-ID invariant: if an external writer left duplicate rows,
		// the last one wins.
		if prev, ok := index[id]; ok {
			assets[prev] = a
			continue
		}
		index[id] = len(assets)
		assets = append(assets, a)
	}

	s.mu.Lock()
	s.assets = assets
	s.index = index
	s.mu.Unlock()
	return header, nil
}

// Get returns the asset with the given normalized ID.
func (s *InventoryStore) Get(id string) (domain.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Asset{}, false
	}
	return s.assets[i], true
}

// List returns a copy of all rows in file order.
func (s *InventoryStore) List() []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

func (s *InventoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// Upsert inserts a new row or overwrites the state of an existing one,
// keeping exactly one row per asset ID.
func (s *InventoryStore) Upsert(a domain.Asset) {
	a.ID = domain.NormalizeID(a.ID)
	if a.SubStatus == "" {
		a.SubStatus = domain.SubNone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[a.ID]; ok {
		s.assets[i] = a
		return
	}
	s.index[a.ID] = len(s.assets)
	s.assets = append(s.assets, a)
}

// Save rewrites the backing spreadsheet wholesale.
func (s *InventoryStore) Save() error {
	s.mu.RLock()
	rows := make([][]string, 0, len(s.assets))
	for _, a := range s.assets {
		rows = append(rows, []string{
			a.ID,
			string(a.Status),
			string(a.SubStatus),
			a.Location,
			a.LastUpdated.Format(inventoryTimeFormat),
		})
	}
	s.mu.RUnlock()

	if err := writeWorkbook(s.path, inventoryColumns, rows); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}
