package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/config"
	"github.com/mamadbah2/clinicstock/internal/repository/mongodb"
	"github.com/mamadbah2/clinicstock/internal/repository/sheets"
	"github.com/mamadbah2/clinicstock/internal/scheduler"
	"github.com/mamadbah2/clinicstock/internal/server/handlers"
	"github.com/mamadbah2/clinicstock/internal/server/router"
	inventorysvc "github.com/mamadbah2/clinicstock/internal/service/inventory"
	"github.com/mamadbah2/clinicstock/internal/service/notification"
	reportingsvc "github.com/mamadbah2/clinicstock/internal/service/reporting"
	inventoryclient "github.com/mamadbah2/clinicstock/pkg/clients/inventory"
	whatsappclient "github.com/mamadbah2/clinicstock/pkg/clients/whatsapp"
	"github.com/mamadbah2/clinicstock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	api := inventoryclient.NewClient(cfg.Inventory, baseLogger.Named("client.inventory"))

	var (
		sinks         []notification.Sink
		reportingOpts []reportingsvc.Option
		auditHandler  *handlers.AuditHandler
	)

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		sinks = append(sinks, notification.NewAuditSink(mongoRepo))
		reportingOpts = append(reportingOpts, reportingsvc.WithStore(mongoRepo))
		auditHandler = handlers.NewAuditHandler(mongoRepo, baseLogger.Named("handlers.audit"))
		baseLogger.Info("mongodb audit trail enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, audit trail disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingOpts = append(reportingOpts, reportingsvc.WithSheet(sheetsRepo, cfg.Sheets.LowStockRange))
		baseLogger.Info("google sheets export enabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		sinks = append(sinks, notification.NewWhatsAppSink(whatsClient, cfg.WhatsApp.AlertTo))
		reportingOpts = append(reportingOpts, reportingsvc.WithWhatsApp(whatsClient, cfg.WhatsApp.AlertTo))
		baseLogger.Info("whatsapp alerts enabled")
	} else {
		baseLogger.Warn("whatsapp access token missing, alerts disabled")
	}

	relay := notification.NewRelay(cfg.Notification.TTL, baseLogger.Named("svc.notification"), sinks...)
	defer relay.Wait()
	controller := inventorysvc.NewController(api, relay, baseLogger.Named("svc.inventory"),
		inventorysvc.WithRequestTimeout(cfg.Inventory.Timeout))
	defer controller.Close()
	controller.Refresh()

	reportingSvc := reportingsvc.NewService(api, baseLogger.Named("svc.reporting"), reportingOpts...)

	sched := scheduler.NewScheduler(cfg.Scheduler, controller, reportingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	inventoryHandler := handlers.NewInventoryHandler(controller, relay, baseLogger.Named("handlers.inventory"))
	engine := router.New(inventoryHandler, auditHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
