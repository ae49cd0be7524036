package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func validConfig() Config {
	return Config{
		Ledger: LedgerConfig{
			WindowStart:      time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC),
			WindowEnd:        time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC),
			NextInvoiceDue:   time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC),
			FutureInvoiceDue: time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC),
			InvoiceThreshold: decimal.NewFromInt(1000),
			InputDir:         "data",
			DebitFiles:       []string{"dec_2025.txt"},
		},
		Log:    LogConfig{Level: "info", Format: "console"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, BodyLimitMB: 32},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if got := cfg.Ledger.WindowStart.Format(models.SortableDateLayout); got != "2025-12-26" {
		t.Errorf("WindowStart: got %s, want 2025-12-26", got)
	}
	if got := cfg.Ledger.FutureInvoiceDue.Format(models.SortableDateLayout); got != "2026-03-19" {
		t.Errorf("FutureInvoiceDue: got %s, want 2026-03-19", got)
	}
	if len(cfg.Ledger.DebitFiles) != 2 || cfg.Ledger.DebitFiles[1] != "jan_2026.txt" {
		t.Errorf("DebitFiles: got %v", cfg.Ledger.DebitFiles)
	}
	if !cfg.Ledger.InvoiceThreshold.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("InvoiceThreshold: got %s, want 1000", cfg.Ledger.InvoiceThreshold)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr: got %s", cfg.Addr())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER_WINDOW_START", "2026-01-01")
	t.Setenv("LEDGER_WINDOW_END", "2026-01-31")
	t.Setenv("LEDGER_DEBIT_FILES", " a.txt, ,b.pdf ")
	t.Setenv("LEDGER_INPUT_DIR", "/srv/statements")
	t.Setenv("LEDGER_INVOICE_THRESHOLD", "500.50")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := models.DateWindow{
		Start: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
	}
	if got := cfg.Window(); !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Errorf("Window: got %+v, want %+v", got, want)
	}
	paths := cfg.DebitPaths()
	if len(paths) != 2 || paths[1] != filepath.Join("/srv/statements", "b.pdf") {
		t.Errorf("DebitPaths: got %v", paths)
	}
	if !cfg.Ledger.InvoiceThreshold.Equal(decimal.RequireFromString("500.50")) {
		t.Errorf("InvoiceThreshold: got %s", cfg.Ledger.InvoiceThreshold)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port: got %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_InvalidDate(t *testing.T) {
	t.Setenv("LEDGER_WINDOW_END", "28/01/2026")

	_, err := Load()
	if !errors.Is(err, models.ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "LEDGER_WINDOW_END") {
		t.Errorf("error should name the variable, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "window start after end",
			mutate: func(c *Config) {
				c.Ledger.WindowStart = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
			},
			wantErr:     true,
			errorString: "window start 2026-02-01 is after window end 2026-01-28",
		},
		{
			name:        "missing anchors",
			mutate:      func(c *Config) { c.Ledger.NextInvoiceDue = time.Time{} },
			wantErr:     true,
			errorString: "invoice due dates must be set",
		},
		{
			name: "no inputs",
			mutate: func(c *Config) {
				c.Ledger.DebitFiles = nil
			},
			wantErr:     true,
			errorString: "no input files configured",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Server.Port = 70000 },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			wantErr:     true,
			errorString: `invalid log format "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, models.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_OptionalPaths(t *testing.T) {
	cfg := validConfig()
	if got := cfg.CardDetailsPath(); got != "" {
		t.Errorf("CardDetailsPath: got %q, want empty when unset", got)
	}
	cfg.Ledger.CardFutureFile = "cc_futuros.txt"
	if got := cfg.CardFuturePath(); got != filepath.Join("data", "cc_futuros.txt") {
		t.Errorf("CardFuturePath: got %q", got)
	}
}
