package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/events"
	"github.com/ghuser/stockledger/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to each bounded context's services.New during startup.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id and span_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "adjusting stock", "item", name)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Logger   logger.Logger
	EventBus *events.EventBus
	Metrics  prometheus.Gatherer // nil when telemetry is not set up
}
