package main

import (
	"log"
	"os"

	"github.com/adnair/paneltrack/internal/config"
	"github.com/adnair/paneltrack/internal/ledger"
	"github.com/adnair/paneltrack/internal/logging"
	"github.com/adnair/paneltrack/internal/masterlist"
	"github.com/adnair/paneltrack/internal/report"
	"github.com/adnair/paneltrack/internal/store"
	"github.com/adnair/paneltrack/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error("failed to create data directory", "path", cfg.DataDir, "error", err)
		return
	}

	inventory, err := store.OpenInventory(cfg.InventoryPath(), logger)
	if err != nil {
		logger.Error("failed to open inventory", "error", err)
		return
	}
	history, err := store.OpenHistory(cfg.HistoryPath(), logger)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		return
	}

	technicians, err := masterlist.LoadTechnicians(cfg.TechniciansPath(), logger)
	if err != nil {
		logger.Error("failed to load technician roster", "error", err)
		return
	}
	panels, err := masterlist.LoadPanelIDs(cfg.PanelIDPath(), logger)
	if err != nil {
		logger.Error("failed to load panel ID master list", "error", err)
		return
	}

	ledgerService := ledger.NewService(inventory, history, panels, cfg.Machines, cfg.AllowUnlisted, logger)
	reportService := report.NewService(inventory, history, panels)

	server := web.NewServer(ledgerService, reportService, technicians, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
