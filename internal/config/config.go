// Package config loads the ledger configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Ledger LedgerConfig
	Log    LogConfig
	Server ServerConfig
}

// LedgerConfig holds the reporting window, invoice anchors and input files.
type LedgerConfig struct {
	WindowStart      time.Time
	WindowEnd        time.Time
	NextInvoiceDue   time.Time
	FutureInvoiceDue time.Time
	InvoiceThreshold decimal.Decimal

	InputDir        string
	DebitFiles      []string
	CardDetailsFile string
	CardFutureFile  string
	OutputDir       string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
}

// Load reads configuration from environment variables. Values that cannot be
// parsed are reported as ErrInvalidConfig.
func Load() (*Config, error) {
	var errs []string
	date := func(key, def string) time.Time {
		d, err := ParseDate(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return d
	}

	threshold, err := decimal.NewFromString(getEnv("LEDGER_INVOICE_THRESHOLD", "1000"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("LEDGER_INVOICE_THRESHOLD: %v", err))
	}

	cfg := &Config{
		Ledger: LedgerConfig{
			WindowStart:      date("LEDGER_WINDOW_START", "2025-12-26"),
			WindowEnd:        date("LEDGER_WINDOW_END", "2026-01-28"),
			NextInvoiceDue:   date("LEDGER_NEXT_INVOICE_DUE", "2026-02-19"),
			FutureInvoiceDue: date("LEDGER_FUTURE_INVOICE_DUE", "2026-03-19"),
			InvoiceThreshold: threshold,

			InputDir:        getEnv("LEDGER_INPUT_DIR", "."),
			DebitFiles:      getEnvAsList("LEDGER_DEBIT_FILES", []string{"dec_2025.txt", "jan_2026.txt"}),
			CardDetailsFile: getEnv("LEDGER_CARD_DETAILS_FILE", "cc_details.txt"),
			CardFutureFile:  getEnv("LEDGER_CARD_FUTURE_FILE", "cc_futuros.txt"),
			OutputDir:       getEnv("LEDGER_OUTPUT_DIR", "."),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			BodyLimitMB: getEnvAsInt("SERVER_BODY_LIMIT_MB", 32),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	var errs []string

	l := c.Ledger
	if l.WindowStart.IsZero() || l.WindowEnd.IsZero() {
		errs = append(errs, "reporting window is not set")
	} else if l.WindowStart.After(l.WindowEnd) {
		errs = append(errs, fmt.Sprintf("window start %s is after window end %s",
			l.WindowStart.Format(models.SortableDateLayout), l.WindowEnd.Format(models.SortableDateLayout)))
	}
	if l.NextInvoiceDue.IsZero() || l.FutureInvoiceDue.IsZero() {
		errs = append(errs, "invoice due dates must be set")
	}
	if l.InvoiceThreshold.IsNegative() {
		errs = append(errs, "invoice threshold must not be negative")
	}
	if len(l.DebitFiles) == 0 && l.CardDetailsFile == "" && l.CardFutureFile == "" {
		errs = append(errs, "no input files configured")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format %q: must be console or json", c.Log.Format))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if c.Server.BodyLimitMB < 1 {
		errs = append(errs, "body limit must be at least 1 MB")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", models.ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Window returns the configured reporting window.
func (c *Config) Window() models.DateWindow {
	return models.DateWindow{Start: c.Ledger.WindowStart, End: c.Ledger.WindowEnd}
}

// DebitPaths returns the debit statement paths under the input directory.
func (c *Config) DebitPaths() []string {
	paths := make([]string, 0, len(c.Ledger.DebitFiles))
	for _, f := range c.Ledger.DebitFiles {
		paths = append(paths, c.inputPath(f))
	}
	return paths
}

// CardDetailsPath returns the card detail statement path, or "" when unset.
func (c *Config) CardDetailsPath() string {
	return c.inputPath(c.Ledger.CardDetailsFile)
}

// CardFuturePath returns the future movements statement path, or "" when unset.
func (c *Config) CardFuturePath() string {
	return c.inputPath(c.Ledger.CardFutureFile)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) inputPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Ledger.InputDir, name)
}

// ParseDate parses a YYYY-MM-DD date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(models.SortableDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
