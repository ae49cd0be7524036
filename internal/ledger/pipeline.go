package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// Statement is one fully buffered statement export.
type Statement struct {
	Name  string
	Lines []string
}

// Inputs are the statements for one run. Absent statements are nil or empty.
type Inputs struct {
	Debit       []Statement
	CardDetails *Statement
	CardFuture  *Statement
}

func (in Inputs) empty() bool {
	return len(in.Debit) == 0 && in.CardDetails == nil && in.CardFuture == nil
}

// Options fixes the reporting window and the invoice anchors for a run.
type Options struct {
	Window           models.DateWindow
	NextInvoiceDue   time.Time
	FutureInvoiceDue time.Time
	InvoiceThreshold decimal.Decimal
}

// Validate checks that the window is well formed.
func (o Options) Validate() error {
	if o.Window.Start.IsZero() || o.Window.End.IsZero() {
		return fmt.Errorf("%w: reporting window is not set", models.ErrInvalidConfig)
	}
	if o.Window.Start.After(o.Window.End) {
		return fmt.Errorf("%w: window start %s is after end %s", models.ErrInvalidConfig,
			o.Window.Start.Format(models.SortableDateLayout), o.Window.End.Format(models.SortableDateLayout))
	}
	return nil
}

// Pipeline runs every extractor over its statements and aggregates the result.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
}

// NewPipeline creates a Pipeline for the given options.
func NewPipeline(opts Options, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		opts: opts,
		log:  log.With().Str("component", "ledger").Logger(),
	}
}

// Run transforms the inputs into a report. Line-level problems never abort the
// run; only a run with no statements at all fails.
func (p *Pipeline) Run(in Inputs) (*models.Report, error) {
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, models.ErrNoInputs
	}

	popts := parser.Options{Window: p.opts.Window, InvoiceThreshold: p.opts.InvoiceThreshold}
	var txns []models.Transaction
	var obligations []models.FutureObligation
	var dropped []models.DebugLine

	for _, st := range in.Debit {
		result, err := p.extract(parser.FormatDebit, popts, st)
		if err != nil {
			return nil, err
		}
		dropped = append(dropped, result.Dropped...)
		for _, m := range result.Matches {
			txns = append(txns, NewTransaction(m))
		}
	}

	if in.CardDetails != nil {
		result, err := p.extract(parser.FormatCardDetails, popts, *in.CardDetails)
		if err != nil {
			return nil, err
		}
		dropped = append(dropped, result.Dropped...)
		for _, m := range result.Matches {
			txns = append(txns, NewTransaction(m))
		}
	}

	if in.CardFuture != nil {
		result, err := p.extract(parser.FormatCardFuture, popts, *in.CardFuture)
		if err != nil {
			return nil, err
		}
		dropped = append(dropped, result.Dropped...)
		projector := &Projector{
			Window: p.opts.Window,
			Anchors: map[models.Section]time.Time{
				models.SectionNext:   p.opts.NextInvoiceDue,
				models.SectionFuture: p.opts.FutureInvoiceDue,
			},
		}
		projected, future := projector.Project(result.Matches)
		txns = append(txns, projected...)
		obligations = append(obligations, future...)
	}

	report := Aggregate(p.opts.Window, txns, obligations)
	report.Diagnostics = dropped

	p.log.Info().
		Int("transactions", len(report.Transactions)).
		Int("obligations", len(obligations)).
		Int("buckets", len(report.Buckets)).
		Int("dropped", len(dropped)).
		Msg("ledger built")
	return report, nil
}

func (p *Pipeline) extract(format parser.Format, opts parser.Options, st Statement) (*models.ExtractResult, error) {
	e, err := parser.New(format, opts)
	if err != nil {
		return nil, err
	}
	result := e.Extract(st.Name, st.Lines)
	for _, d := range result.Dropped {
		p.log.Debug().
			Str("source", d.Source).
			Int("line", d.LineNum).
			Str("result", d.Result).
			Str("reason", d.Reason).
			Msg("line dropped")
	}
	p.log.Debug().
		Str("extractor", e.Name()).
		Str("source", st.Name).
		Int("lines", len(st.Lines)).
		Int("matches", len(result.Matches)).
		Msg("statement extracted")
	return result, nil
}
