package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Svyat-tmn/workledger/internal/config"
	"github.com/Svyat-tmn/workledger/internal/httpapi"
	"github.com/Svyat-tmn/workledger/internal/metrics"
	"github.com/Svyat-tmn/workledger/internal/service"
	"github.com/Svyat-tmn/workledger/internal/session"
	"github.com/Svyat-tmn/workledger/internal/storage/sqlite"
	"github.com/Svyat-tmn/workledger/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	sessions := session.NewManager(cfg.EditSessionTTL)
	ledger := service.NewLedger(store, sessions, collector)

	handler := httpapi.NewRouter(ledger, reg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
