package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/config"
	inventorysvc "github.com/mamadbah2/clinicstock/internal/service/inventory"
	"github.com/mamadbah2/clinicstock/internal/service/notification"
	"github.com/mamadbah2/clinicstock/internal/ui/tui"
	inventoryclient "github.com/mamadbah2/clinicstock/pkg/clients/inventory"
	"github.com/mamadbah2/clinicstock/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	baseLogger, err := logger.NewFile(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	api := inventoryclient.NewClient(cfg.Inventory, logger.Named(baseLogger, "client.inventory"))
	relay := notification.NewRelay(cfg.Notification.TTL, logger.Named(baseLogger, "svc.notification"))
	defer relay.Wait()
	controller := inventorysvc.NewController(api, relay, logger.Named(baseLogger, "svc.inventory"),
		inventorysvc.WithRequestTimeout(cfg.Inventory.Timeout))
	defer controller.Close()

	model := tui.New(controller, relay)
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		baseLogger.Error("terminal ui stopped", zap.Error(err))
		return err
	}
	return nil
}
