package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/khatalabs/khata/internal/config"
	"github.com/khatalabs/khata/internal/httpapi"
	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/numeric"
	"github.com/khatalabs/khata/internal/storage/memory"
	pgstore "github.com/khatalabs/khata/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger := buildLogger(cfg)
	slog.SetDefault(logger)

	var srvMux http.Handler
	var closeFn func()

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		if cfg.DevSeed {
			if err := pg.ReplaceSnapshot(ctx, devSnapshot()); err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				logger.Info("dev seed loaded", "backend", "postgres")
			}
		}
		srvMux = httpapi.New(pg, pg, pg, pg, pg, pg, pg, logger).Handler()
		logger.Info("storage backend: postgres")
	} else {
		store := memory.New()
		if cfg.DevSeed {
			_ = store.ReplaceSnapshot(ctx, devSnapshot())
			logger.Info("dev seed loaded", "backend", "memory")
		}
		srvMux = httpapi.New(store, store, store, store, store, store, store, logger).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("khata service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// devSnapshot builds a tiny demo book for local poking: one client bought
// on partial credit, one vendor was paid in part, plus a cash expense.
func devSnapshot() khata.Snapshot {
	client := khata.Party{ID: uuid.NewString(), Name: "Asha Traders", Phone: "0300-1234567", OpeningBalance: numeric.MustParse("250")}
	vendor := khata.Party{ID: uuid.NewString(), Name: "Bilal Wholesale", OpeningBalance: numeric.MustParse("0")}
	clientType := khata.PartyTypeClient
	vendorType := khata.PartyTypeVendor
	return khata.Snapshot{
		Company: khata.Company{Name: "Demo Store", Currency: "USD", FiscalYearStartMonth: 1},
		Clients: []khata.Party{client},
		Vendors: []khata.Party{vendor},
		Ledger: []khata.LedgerEntry{
			{
				ID: uuid.NewString(), Date: "2025-01-05", Type: khata.EntryTypeSale,
				PartyType: &clientType, PartyID: &client.ID,
				Ref: "INV-1", Desc: "January stock sale",
				Amount: numeric.MustParse("1000"), Paid: numeric.MustParse("400"), Method: "cash",
			},
			{
				ID: uuid.NewString(), Date: "2025-01-07", Type: khata.EntryTypePurchase,
				PartyType: &vendorType, PartyID: &vendor.ID,
				Ref: "BILL-9", Desc: "Restock", Category: khata.CategoryCOGS,
				Amount: numeric.MustParse("600"), Paid: numeric.MustParse("600"), Method: "bank",
			},
			{
				ID: uuid.NewString(), Date: "2025-01-10", Type: khata.EntryTypeExpense,
				Desc: "Shop rent", Category: "rent",
				Amount: numeric.MustParse("200"), Paid: numeric.MustParse("200"), Method: "cash",
			},
		},
	}
}

// parseLogLevel maps config values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
