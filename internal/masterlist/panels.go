package masterlist

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/adnair/paneltrack/internal/domain"
)

const panelIDColumn = "Panel_ID"

// PanelIDs is the authorized-asset whitelist, a spreadsheet with a single
// Panel_ID column. It is a soft whitelist: it gates how an unknown ID is
// classified, never whether a transaction may be written. Reads and reloads
// may run concurrently; Append is serialized by the ledger's commit lock.
type PanelIDs struct {
	path   string
	logger *slog.Logger

	mu  sync.RWMutex
	ids []string
	set map[string]struct{}
}

func LoadPanelIDs(path string, logger *slog.Logger) (*PanelIDs, error) {
	p := &PanelIDs{path: path, logger: logger, set: map[string]struct{}{}}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("panel ID master list missing, creating scaffold", "path", path)
		if err := p.save(nil); err != nil {
			return nil, fmt.Errorf("failed to create panel ID master list: %w", err)
		}
		return p, nil
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload replaces the in-memory whitelist with the file's current contents.
func (p *PanelIDs) Reload() error {
	f, err := excelize.OpenFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to open panel ID master list: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("failed to read panel ID master list: %w", err)
	}

	col := 0
	if len(rows) > 0 {
		for i, name := range rows[0] {
			if name == panelIDColumn {
				col = i
				break
			}
		}
		rows = rows[1:]
	}

	// Parse into fresh slices, then swap under the lock, so concurrent
	// readers never observe a half-built list.
	ids := make([]string, 0, len(rows))
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		id := domain.NormalizeID(row[col])
		if id == "" {
			continue
		}
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		ids = append(ids, id)
	}

	p.mu.Lock()
	p.ids = ids
	p.set = set
	p.mu.Unlock()
	return nil
}

// Contains reports whether the normalized ID is authorized.
func (p *PanelIDs) Contains(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.set[domain.NormalizeID(id)]
	return ok
}

// IDs returns the whitelist in file order.
func (p *PanelIDs) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// Count is the fleet total shown on the KPI bar.
func (p *PanelIDs) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ids)
}

// Append authorizes a new ID and persists the list. Already-listed IDs are
// a no-op.
func (p *PanelIDs) Append(id string) error {
	id = domain.NormalizeID(id)
	if id == "" {
		return errors.New("empty panel ID")
	}

	p.mu.Lock()
	if _, ok := p.set[id]; ok {
		p.mu.Unlock()
		return nil
	}
	p.set[id] = struct{}{}
	p.ids = append(p.ids, id)
	snapshot := make([]string, len(p.ids))
	copy(snapshot, p.ids)
	p.mu.Unlock()

	p.logger.Info("panel ID added to master list", "panel_id", id)
	return p.save(snapshot)
}

func (p *PanelIDs) save(ids []string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetCellValue("Sheet1", "A1", panelIDColumn); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, id := range ids {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to name cell: %w", err)
		}
		if err := f.SetCellValue("Sheet1", cell, id); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(p.path); err != nil {
		return fmt.Errorf("failed to save panel ID master list: %w", err)
	}
	return nil
}
