package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adnair/paneltrack/internal/domain"
)

func testTransaction(id string, ts time.Time) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Timestamp: ts,
		AssetID:   "54R15564",
		Action:    domain.ActionRemove,
		User:      "Anand",
		Category:  "CSS",
		SubStatus: domain.SubWaitingParts,
		Comments:  "[CSS] belt wear",
	}
}

func TestHistoryAppendPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	s, err := OpenHistory(path, testLogger())
	require.NoError(t, err)

	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	s.Append(testTransaction("txn-1", ts))
	s.Append(testTransaction("txn-2", ts))
	s.Append(testTransaction("txn-3", ts.Add(time.Minute)))
	require.NoError(t, s.Save())

	reopened, err := OpenHistory(path, testLogger())
	require.NoError(t, err)
	rows := reopened.All()
	require.Len(t, rows, 3)
	assert.Equal(t, "txn-1", rows[0].ID)
	assert.Equal(t, "txn-2", rows[1].ID)
	assert.Equal(t, "txn-3", rows[2].ID)
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	s, err := OpenHistory(path, testLogger())
	require.NoError(t, err)

	ts := time.Date(2026, 2, 1, 8, 5, 0, 0, time.UTC)
	s.Append(testTransaction("txn-1", ts))
	require.NoError(t, s.Save())

	reopened, err := OpenHistory(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, s.All(), reopened.All())
}

func TestHistorySchemaUpgradeBackfillsTxnID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")

	// A legacy file variant without the Txn_ID column.
	require.NoError(t, writeWorkbook(path,
		[]string{"Date", "Panel_ID", "Action", "User", "Category", "Sub_Status", "Comments"},
		[][]string{{"2026-01-15 10:30", "54R15564", "Install", "Anand", "Production", "N/A", "[Production] "}},
	))

	s, err := OpenHistory(path, testLogger())
	require.NoError(t, err)

	rows := s.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "N/A", rows[0].ID)
	assert.Equal(t, domain.ActionInstall, rows[0].Action)

	// Persisted upgrade writes the placeholder into the new column.
	reopened, err := OpenHistory(path, testLogger())
	require.NoError(t, err)
	rows = reopened.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "N/A", rows[0].ID)
}
