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

var historyColumns = []string{"Date", "Panel_ID", "Action", "User", "Category", "Sub_Status", "Comments", "Txn_ID"}

// historyTimeFormat is minute-granular; within a minute the row order is the
// transaction order.
const historyTimeFormat = "2006-01-02 15:04"

// HistoryStore is the append-only transaction log, backed by a single
// spreadsheet. Rows are never edited or deleted; Save rewrites the file
// wholesale even though the log only ever grows. Reads and reloads may run
// concurrently; writes (Append/Save) are serialized by the ledger's commit
// lock.
type HistoryStore struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	rows []domain.Transaction
}

func OpenHistory(path string, logger *slog.Logger) (*HistoryStore, error) {
	s := &HistoryStore{path: path, logger: logger}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info("history file missing, creating", "path", path)
		if err := writeWorkbook(path, historyColumns, nil); err != nil {
			return nil, fmt.Errorf("failed to create history file: %w", err)
		}
		return s, nil
	}

	header, err := s.load()
	if err != nil {
		return nil, err
	}

	if missing := missingColumns(header, historyColumns); len(missing) > 0 {
		logger.Info("upgrading history schema", "path", path, "added_columns", missing)
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to upgrade history schema: %w", err)
		}
	}
	return s, nil
}

// Reload replaces the in-memory log with the file's current contents.
func (s *HistoryStore) Reload() error {
	_, err := s.load()
	return err
}

func (s *HistoryStore) load() ([]string, error) {
	header, rows, err := readWorkbook(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// Parse into a fresh slice, then swap under the lock, so concurrent
	// readers never observe a half-built log.
	idx := columnIndex(header)
	parsed := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := domain.Transaction{
			ID:        cellAt(row, idx, "Txn_ID"),
			AssetID:   domain.NormalizeID(cellAt(row, idx, "Panel_ID")),
			Action:    domain.Action(cellAt(row, idx, "Action")),
			User:      cellAt(row, idx, "User"),
			Category:  cellAt(row, idx, "Category"),
			SubStatus: domain.SubStatus(cellAt(row, idx, "Sub_Status")),
			Comments:  cellAt(row, idx, "Comments"),
		}
		if tx.SubStatus == "" {
			tx.SubStatus = domain.SubNone
		}
		if tx.ID == "" {
			// Rows predating the Txn_ID column.
			tx.ID = "N/A"
		}
		if ts := cellAt(row, idx, "Date"); ts != "" {
			if t, perr := time.Parse(historyTimeFormat, ts); perr == nil {
				tx.Timestamp = t
			}
		}
		parsed = append(parsed, tx)
	}

	s.mu.Lock()
	s.rows = parsed
	s.mu.Unlock()
	return header, nil
}

// Append adds one transaction to the in-memory log. The log is persisted by
// the next Save.
func (s *HistoryStore) Append(tx domain.Transaction) {
	if tx.SubStatus == "" {
		tx.SubStatus = domain.SubNone
	}
	s.mu.Lock()
	s.rows = append(s.rows, tx)
	s.mu.Unlock()
}

// All returns a copy of the log in append order.
func (s *HistoryStore) All() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Save rewrites the backing spreadsheet wholesale.
func (s *HistoryStore) Save() error {
	s.mu.RLock()
	rows := make([][]string, 0, len(s.rows))
	for _, tx := range s.rows {
		id := tx.ID
		if id == "" {
			id = "N/A"
		}
		rows = append(rows, []string{
			tx.Timestamp.Format(historyTimeFormat),
			tx.AssetID,
			string(tx.Action),
			tx.User,
			tx.Category,
			string(tx.SubStatus),
			tx.Comments,
			id,
		})
	}
	s.mu.RUnlock()

	if err := writeWorkbook(s.path, historyColumns, rows); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
