package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	ListenAddr      string
	DataDir         string
	InventoryFile   string
	HistoryFile     string
	TechniciansFile string
	PanelIDFile     string
	Machines        []string
	AllowUnlisted   bool
	LogLevel        string
	LogFile         string
}

func Load() *Config {
	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		InventoryFile:   getEnv("INVENTORY_FILE", "inventory.xlsx"),
		HistoryFile:     getEnv("HISTORY_FILE", "history.xlsx"),
		TechniciansFile: getEnv("TECHNICIANS_FILE", "Technicians.txt"),
		PanelIDFile:     getEnv("PANEL_ID_FILE", "PanelID.xlsx"),
		Machines:        splitList(getEnv("MACHINES", "ECP101,ECP102,ECP103")),
		AllowUnlisted:   os.Getenv("ALLOW_UNLISTED") == "1",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

// InventoryPath and friends resolve the data-file names under DataDir.
func (c *Config) InventoryPath() string   { return filepath.Join(c.DataDir, c.InventoryFile) }
func (c *Config) HistoryPath() string     { return filepath.Join(c.DataDir, c.HistoryFile) }
func (c *Config) TechniciansPath() string { return filepath.Join(c.DataDir, c.TechniciansFile) }
func (c *Config) PanelIDPath() string     { return filepath.Join(c.DataDir, c.PanelIDFile) }

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
