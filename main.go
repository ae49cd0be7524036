package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/logger"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

const version = "1.0.0"

func main() {
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of a one-shot run")
	outFlag := flag.String("out", "", "Output directory for the CSV and JSON artifacts (overrides LEDGER_OUTPUT_DIR)")
	headerFlag := flag.Bool("header", true, "Include reporting window metadata rows in CSV")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Ledger
by Insight Delivered

Turns checking-account and credit-card statement exports into one
dated ledger plus a month-by-month schedule of future installments.

Usage:
  statement-ledger [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Inputs (read from LEDGER_INPUT_DIR, .txt or .pdf):
  LEDGER_DEBIT_FILES        checking-account statements (default dec_2025.txt,jan_2026.txt)
  LEDGER_CARD_DETAILS_FILE  card invoice detail (default cc_details.txt)
  LEDGER_CARD_FUTURE_FILE   card future movements (default cc_futuros.txt)

Examples:
  # Build the ledger from the files in the current directory
  statement-ledger

  # Write artifacts somewhere else
  statement-ledger -out=./report

  # Serve POST /api/ledger on SERVER_HOST:SERVER_PORT
  statement-ledger -serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ledger v%s\n", version)
		os.Exit(0)
	}
	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}
	if *outFlag != "" {
		cfg.Ledger.OutputDir = *outFlag
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Configuration error: %v\n", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	opts := ledger.Options{
		Window:           cfg.Window(),
		NextInvoiceDue:   cfg.Ledger.NextInvoiceDue,
		FutureInvoiceDue: cfg.Ledger.FutureInvoiceDue,
		InvoiceThreshold: cfg.Ledger.InvoiceThreshold,
	}

	if *serveFlag {
		if err := serve(cfg, opts, log); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if err := run(cfg, opts, log, *headerFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, opts ledger.Options, log zerolog.Logger, includeHeader bool) error {
	in, err := loadInputs(cfg, log)
	if err != nil {
		return err
	}

	report, err := ledger.NewPipeline(opts, log).Run(in)
	if err != nil {
		if errors.Is(err, models.ErrNoInputs) {
			return fmt.Errorf("%w: none of the configured statements were found in %s", err, cfg.Ledger.InputDir)
		}
		return err
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteArtifacts(cfg.Ledger.OutputDir, report); err != nil {
		return fmt.Errorf("writing artifacts failed: %w", err)
	}

	printSummary(report, cfg.Ledger.OutputDir)
	return nil
}

// loadInputs reads every configured statement. Missing files are skipped
// with a warning so a partial set of exports still produces a report.
func loadInputs(cfg *config.Config, log zerolog.Logger) (ledger.Inputs, error) {
	var in ledger.Inputs

	load := func(path string) (*ledger.Statement, error) {
		if path == "" {
			return nil, nil
		}
		lines, err := extractor.LoadLines(path)
		if errors.Is(err, models.ErrMissingInput) {
			log.Warn().Str("path", path).Msg("statement not found, skipping")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &ledger.Statement{Name: path, Lines: lines}, nil
	}

	for _, path := range cfg.DebitPaths() {
		st, err := load(path)
		if err != nil {
			return in, err
		}
		if st != nil {
			in.Debit = append(in.Debit, *st)
		}
	}

	var err error
	if in.CardDetails, err = load(cfg.CardDetailsPath()); err != nil {
		return in, err
	}
	if in.CardFuture, err = load(cfg.CardFuturePath()); err != nil {
		return in, err
	}
	return in, nil
}

func printSummary(report *models.Report, outDir string) {
	s := report.Summary
	fmt.Printf("Window: %s to %s\n",
		report.Window.Start.Format(models.DisplayDateLayout), report.Window.End.Format(models.DisplayDateLayout))
	fmt.Printf("  Transactions:    %d\n", s.Count)
	fmt.Printf("  Pix:             %s\n", writer.FormatBRL(s.TotalPix))
	fmt.Printf("  Debit:           %s\n", writer.FormatBRL(s.TotalDebit))
	fmt.Printf("  Committed:       %s\n", writer.FormatBRL(s.TotalCommitted))
	if report.PaidInvoice != nil {
		fmt.Printf("  Invoice paid:    %s (%s)\n", writer.FormatBRL(report.PaidInvoice.Total), report.PaidInvoice.Label)
	}
	for _, b := range report.Buckets {
		fmt.Printf("  %-16s %s (%d installments)\n", b.Label+":", writer.FormatBRL(b.TotalDue), len(b.Obligations))
	}
	if len(report.Diagnostics) > 0 {
		fmt.Printf("  Dropped lines:   %d (see %s)\n", len(report.Diagnostics), writer.ReportFile)
	}
	fmt.Printf("  Output: %s\n", outDir)
}

func serve(cfg *config.Config, opts ledger.Options, log zerolog.Logger) error {
	h := &api.Handler{
		Options: opts,
		Log:     log.With().Str("component", "api").Logger(),
		Version: version,
	}
	app := api.NewApp(h, cfg.Server.BodyLimitMB)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.Addr()).Str("version", version).Msg("listening")
	return app.Listen(cfg.Addr())
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
