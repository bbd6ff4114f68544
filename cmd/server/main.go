package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/config"
	"github.com/mamadbah2/meatledger/internal/metrics"
	"github.com/mamadbah2/meatledger/internal/repository/mongodb"
	"github.com/mamadbah2/meatledger/internal/repository/records"
	"github.com/mamadbah2/meatledger/internal/repository/redis"
	"github.com/mamadbah2/meatledger/internal/repository/sheets"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
	"github.com/mamadbah2/meatledger/internal/scheduler"
	"github.com/mamadbah2/meatledger/internal/server/handlers"
	"github.com/mamadbah2/meatledger/internal/server/router"
	commandsvc "github.com/mamadbah2/meatledger/internal/service/commands"
	exportsvc "github.com/mamadbah2/meatledger/internal/service/export"
	ledgersvc "github.com/mamadbah2/meatledger/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/meatledger/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/meatledger/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/meatledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/meatledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func(context.Context) error
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				baseLogger.Error("failed to close resource", zap.Error(err))
			}
		}
	}()

	// one mongo connection serves the storage driver and the report archive
	var mongoRepo *mongodb.Repository
	if cfg.ArchiveEnabled() {
		mongoRepo, err = mongodb.NewRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		closers = append(closers, mongoRepo.Close)
	}

	kv, err := openStorage(ctx, cfg, mongoRepo, &closers)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	baseLogger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	store := records.NewStore(kv, records.Keys{Sales: cfg.Storage.SalesKey, Purchases: cfg.Storage.PurchasesKey},
		baseLogger.Named("repo.records"), records.WithNow(clk.Now))

	if cfg.Storage.SeedDemoData {
		seed := uint64(time.Now().UnixNano())
		if err := store.Seed(ctx, rand.New(rand.NewPCG(seed, seed>>1))); err != nil {
			baseLogger.Error("failed to seed demo data", zap.Error(err))
		}
	}

	var mirror ledgersvc.Mirror
	if cfg.SheetsEnabled() {
		writer, err := sheets.NewGoogleSheetWriter(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		mirror = sheets.NewMirror(writer)
		baseLogger.Info("google sheets mirror enabled")
	}

	ledgerSvc := ledgersvc.NewService(store, clk, mirror, baseLogger.Named("svc.ledger"))
	reportingSvc := reportingsvc.NewService(ledgerSvc, clk, baseLogger.Named("svc.reporting"))
	exportSvc := exportsvc.NewService(reportingSvc, baseLogger.Named("svc.export"))

	routes := router.Handlers{
		Ledger:  handlers.NewLedgerHandler(ledgerSvc, reportingSvc, clk, baseLogger.Named("handlers.ledger")),
		Reports: handlers.NewReportHandler(reportingSvc, clk, baseLogger.Named("handlers.reports")),
		Export:  handlers.NewExportHandler(exportSvc, clk, baseLogger.Named("handlers.export")),
	}

	if cfg.Server.MetricsEnabled {
		m := metrics.New()
		ledgerSvc.WithObserver(m)
		routes.Metrics = m
		baseLogger.Info("prometheus metrics enabled", zap.String("path", "/metrics"))
	}

	var (
		notifier     scheduler.Notifier
		messagingSvc *whatsappsvc.MetaWhatsAppService
	)
	if cfg.WhatsAppEnabled() {
		commandDispatcher := commandsvc.NewService(ledgerSvc, reportingSvc, clk, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp credentials missing, chat commands and report delivery disabled")
	}

	var archive mongodb.ReportArchive
	if mongoRepo != nil {
		archive = mongoRepo
	}

	sched := scheduler.NewScheduler(cfg.Reporting, clk, reportingSvc, archive, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	if messagingSvc != nil {
		routes.Chat = handlers.NewChatHandler(messagingSvc, sched, baseLogger.Named("handlers.chat"))
	}

	engine := router.New(routes, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStorage(ctx context.Context, cfg *config.Config, mongoRepo *mongodb.Repository, closers *[]func(context.Context) error) (storage.KV, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageRedis:
		store, err := redis.NewStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return store.Close() })
		return store, nil
	case config.StorageMongoDB:
		if mongoRepo == nil {
			return nil, errors.New("mongodb storage requires MONGODB_URI")
		}
		return mongoRepo, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
