package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/events"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/telemetry"
	"github.com/ghuser/stockledger/services/inventory/application/cli"
	"github.com/ghuser/stockledger/services/inventory/application/services"
	domainevents "github.com/ghuser/stockledger/services/inventory/domain/events"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/audit"
)

func main() {
	os.Exit(int(run()))
}

// run owns every deferred cleanup so they complete before the process exits.
func run() (status subcommands.ExitStatus) {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			fmt.Fprintln(os.Stdout, err)
			return subcommands.ExitSuccess
		}
		slog.Error("failed to load config", "error", err)
		return subcommands.ExitFailure
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		return subcommands.ExitFailure
	}

	log, closeLog, err := logger.Open(cfg)
	if err != nil {
		slog.Error("failed to open log", "error", err)
		return subcommands.ExitFailure
	}
	defer closeLog() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, gatherer, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		return subcommands.ExitFailure
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting: Sentry (optional; log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()
	defer func() {
		if r := recover(); r != nil {
			telemetry.CapturePanic(r)
			log.Error("panic", "error", r)
			status = subcommands.ExitFailure
		}
	}()

	eventBus := events.NewEventBus(log)
	defer eventBus.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Metrics:  gatherer,
	}

	auditLog := audit.NewFileLog(cfg.AuditLogPath())
	if err := registerSubscribers(ctx, a, auditLog); err != nil {
		log.Error("failed to register subscribers", "error", err)
		return subcommands.ExitFailure
	}

	svcs, err := services.New(a)
	if err != nil {
		log.Error("failed to wire services", "error", err)
		return subcommands.ExitFailure
	}

	n, err := svcs.Inventory.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot load %s: %v\n", cfg.SnapshotPath(), err)
		log.Error("failed to load snapshot", "path", cfg.SnapshotPath(), "error", err)
		return subcommands.ExitFailure
	}
	log.Debug("snapshot loaded", "path", cfg.SnapshotPath(), "items", n)

	if cfg.SeedFixtures {
		seeded, err := svcs.Inventory.Seed(ctx, services.DefaultFixtures)
		if err != nil && !errors.Is(err, services.ErrNotSaved) {
			log.Error("failed to seed fixtures", "error", err)
			return subcommands.ExitFailure
		}
		if seeded > 0 {
			log.Info("seeded fixtures", "items", seeded)
		}
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	env := &cli.Env{
		Service:   svcs.Inventory,
		Audit:     auditLog,
		Log:       log,
		Currency:  cfg.Currency,
		Style:     cfg.RenderStyle,
		ReportDir: cfg.ReportDir,
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
	cli.Register(commander, env)

	flag.Parse()
	if flag.NArg() == 0 {
		status = env.RunMenu(ctx)
	} else {
		status = commander.Execute(ctx)
	}

	if err := telemetry.WriteMetricsFile(cfg.MetricsFile, gatherer); err != nil {
		log.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
	}
	return status
}

// registerSubscribers wires the audit log to the inventory audit topic.
func registerSubscribers(ctx context.Context, a *app.Application, auditLog *audit.FileLog) error {
	errCh, err := a.EventBus.Subscribe(ctx, domainevents.TopicInventoryAudit, auditLog.Handler())
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", domainevents.TopicInventoryAudit,
				"error", err,
			)
		}
	}()

	a.Logger.Debug("event subscribers registered", "topics", []string{domainevents.TopicInventoryAudit})
	return nil
}
