package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"

	"github.com/ghuser/stockledger/services/inventory/domain/models"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// StylePlain disables glamour rendering and prints raw Markdown.
const StylePlain = "plain"

// ErrHelpWanted is returned by Load when -h or --help was requested; the
// usage text has already been placed in the error message.
var ErrHelpWanted = conf.ErrHelpWanted

// Config holds all configuration for the application
type Config struct {
	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	LogFile     string `conf:"env:LOG_FILE,help:log file path; empty logs to stderr"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// Storage
	DataDir      string `conf:"default:data,env:DATA_DIR"`
	SnapshotFile string `conf:"default:inventory.json,env:SNAPSHOT_FILE"`
	AuditLogFile string `conf:"default:audit.log,env:AUDIT_LOG_FILE"`
	ReportDir    string `conf:"default:reports,env:REPORT_DIR"`
	Autosave     bool   `conf:"default:true,env:AUTOSAVE"`
	SeedFixtures bool   `conf:"default:false,env:SEED_FIXTURES"`

	// Inventory rules
	MaxQuantity       int    `conf:"default:10000,env:MAX_QUANTITY"`
	LowStockThreshold int    `conf:"default:10,env:LOW_STOCK_THRESHOLD"`
	Currency          string `conf:"default:USD,env:CURRENCY"`

	// Presentation
	RenderStyle string `conf:"default:auto,env:RENDER_STYLE"`

	// Observability
	ServiceName    string `conf:"default:stockledger,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
	MetricsFile    string `conf:"env:METRICS_FILE"`
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, fmt.Errorf("%w\n%s", ErrHelpWanted, help)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SnapshotPath resolves SnapshotFile against DataDir unless it is absolute.
func (c *Config) SnapshotPath() string {
	return c.resolve(c.SnapshotFile)
}

// AuditLogPath resolves AuditLogFile against DataDir unless it is absolute.
func (c *Config) AuditLogPath() string {
	return c.resolve(c.AuditLogFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Validate checks the inventory rules. It is applied in every environment.
func (c *Config) Validate() error {
	var errs []string

	if c.MaxQuantity <= 0 {
		errs = append(errs, fmt.Sprintf("MAX_QUANTITY must be positive (got %d)", c.MaxQuantity))
	}
	if c.LowStockThreshold < 0 {
		errs = append(errs, fmt.Sprintf("LOW_STOCK_THRESHOLD must not be negative (got %d)", c.LowStockThreshold))
	}
	if !models.KnownCurrency(c.Currency) {
		errs = append(errs, fmt.Sprintf("CURRENCY %q is not a known ISO 4217 code", c.Currency))
	}
	if strings.TrimSpace(c.SnapshotFile) == "" {
		errs = append(errs, "SNAPSHOT_FILE must not be empty")
	}
	if strings.TrimSpace(c.AuditLogFile) == "" {
		errs = append(errs, "AUDIT_LOG_FILE must not be empty")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
}

// ValidateForProduction enforces operational requirements when ENVIRONMENT=production.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.SeedFixtures {
		errs = append(errs, "SEED_FIXTURES must be false in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
