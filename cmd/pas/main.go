package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"production-ledger/internal/config"
	"production-ledger/internal/service/alerts"
	"production-ledger/internal/service/authorize"
	"production-ledger/internal/service/evm"
	generate_excel "production-ledger/internal/service/generate-excel"
	"production-ledger/internal/service/ledger"
	"production-ledger/internal/service/productionlock"
	"production-ledger/internal/storage"
	"production-ledger/internal/storage/memory"
	"production-ledger/internal/storage/mysql"
)

// store is everything the services need from persistence; both the MySQL
// and the in-memory store provide it.
type store interface {
	authorize.Registry
	authorize.Committer
	ledger.EntryLog
	evm.ProjectStore
	alerts.Sources
	productionlock.FAIRegistry
	RecordFAIStatus(ctx context.Context, partNumber string, status storage.FAIStatus, note string) (*storage.FAIRecord, error)
	FAIHistory(ctx context.Context, partNumber string) ([]storage.FAIRecord, error)
	SetMachineStatus(ctx context.Context, id string, status storage.MachineStatus, fault string) error
}

type services struct {
	authorize *authorize.Service
	evm       *evm.Service
	alerts    *alerts.Service
	report    *generate_excel.GenerateExcelService
}

func main() {
	cfg := config.MustConfig()

	log, closeLog := setupLogger(*cfg)
	defer closeLog()

	st, err := openStore(*cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		closeLog()
		os.Exit(1)
	}
	if c, ok := st.(io.Closer); ok {
		defer c.Close()
	}

	svc := newServices(*cfg, st)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, st, svc),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("server started", slog.String("address", cfg.Address), slog.String("storage", cfg.StorageDriver))

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

func newServices(cfg config.Config, st store) services {
	costLedger := ledger.New(st)
	evmService := evm.NewService(st, costLedger)

	return services{
		authorize: authorize.NewService(st, productionlock.New(st), costLedger, st, cfg.LookupTimeout),
		evm:       evmService,
		alerts:    alerts.NewService(st, costLedger),
		report:    generate_excel.NewGenerateService(costLedger, evmService),
	}
}

func openStore(cfg config.Config, log *slog.Logger) (store, error) {
	if cfg.StorageDriver != config.DriverMemory {
		return mysql.New(cfg)
	}

	if cfg.FixturesPath == "" {
		log.Warn("memory storage started without fixtures")
		return memory.New(), nil
	}

	f, err := os.Open(cfg.FixturesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := memory.Open(f)
	if err != nil {
		return nil, err
	}

	machines, _ := st.ListMachines(context.Background())
	log.Info("memory storage seeded",
		slog.String("path", cfg.FixturesPath),
		slog.Int("machines", len(machines)),
	)

	return st, nil
}
