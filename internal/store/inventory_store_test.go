package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/adnair/paneltrack/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenInventoryCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	_, err = os.Stat(path)
	assert.NoError(t, err, "file should exist after open")
}

func TestInventoryUpsertKeepsOneRowPerID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)

	s.Upsert(domain.Asset{ID: "54R15564", Status: domain.StatusInUse, Location: "ECP101"})
	s.Upsert(domain.Asset{ID: "54r15564", Status: domain.StatusUnderRepair, SubStatus: domain.SubToCheck, Location: domain.LocationWorkshop})

	require.Equal(t, 1, s.Len())
	a, ok := s.Get("54R15564")
	require.True(t, ok)
	assert.Equal(t, domain.StatusUnderRepair, a.Status)
	assert.Equal(t, domain.SubToCheck, a.SubStatus)
	assert.Equal(t, domain.LocationWorkshop, a.Location)
}

func TestInventoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)

	updated := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	s.Upsert(domain.Asset{ID: "54R15564", Status: domain.StatusInUse, SubStatus: domain.SubNone, Location: "ECP101", LastUpdated: updated})
	s.Upsert(domain.Asset{ID: "54R20001", Status: domain.StatusStorage, SubStatus: domain.SubNone, Location: domain.LocationStorage, LastUpdated: updated})
	require.NoError(t, s.Save())

	reopened, err := OpenInventory(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, s.List(), reopened.List())
}

func TestInventorySchemaUpgradeBackfillsSubStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	// A legacy file variant without the Sub_Status column.
	require.NoError(t, writeWorkbook(path,
		[]string{"Panel_ID", "Status", "Location", "Last_Updated"},
		[][]string{{"54R15564", "In Use", "ECP101", "2026-01-15T10:30:00Z"}},
	))

	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)

	a, ok := s.Get("54R15564")
	require.True(t, ok)
	assert.Equal(t, domain.SubNone, a.SubStatus)
	assert.Equal(t, domain.StatusInUse, a.Status)

	// The upgrade is persisted: the file now carries the full header.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, inventoryColumns, rows[0])
}

func TestInventoryConcurrentReloadAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)

	s.Upsert(domain.Asset{ID: "54R15564", Status: domain.StatusInUse, Location: "ECP101"})
	require.NoError(t, s.Save())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				assert.NoError(t, s.Reload())
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				assert.Len(t, s.List(), 1)
				_, ok := s.Get("54R15564")
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestInventoryReloadPicksUpExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	s, err := OpenInventory(path, testLogger())
	require.NoError(t, err)

	// Another writer rewrites the file underneath us.
	other, err := OpenInventory(path, testLogger())
	require.NoError(t, err)
	other.Upsert(domain.Asset{ID: "54R99999", Status: domain.StatusDamaged, Location: domain.LocationWorkshop})
	require.NoError(t, other.Save())

	require.NoError(t, s.Reload())
	_, ok := s.Get("54R99999")
	assert.True(t, ok)
}
