package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, []string{"ECP101", "ECP102", "ECP103"}, cfg.Machines)
	assert.False(t, cfg.AllowUnlisted)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DATA_DIR", "/custom/data")
	t.Setenv("MACHINES", "Machine 1, Machine 2")
	t.Setenv("ALLOW_UNLISTED", "1")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/data", cfg.DataDir)
	assert.Equal(t, []string{"Machine 1", "Machine 2"}, cfg.Machines)
	assert.True(t, cfg.AllowUnlisted)
}

func TestPaths(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/paneltrack")

	cfg := Load()

	assert.Equal(t, filepath.Join("/var/lib/paneltrack", "inventory.xlsx"), cfg.InventoryPath())
	assert.Equal(t, filepath.Join("/var/lib/paneltrack", "history.xlsx"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join("/var/lib/paneltrack", "Technicians.txt"), cfg.TechniciansPath())
	assert.Equal(t, filepath.Join("/var/lib/paneltrack", "PanelID.xlsx"), cfg.PanelIDPath())
}
