package parser

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Extractor defines the interface for statement line extractors.
type Extractor interface {
	// Extract scans the raw lines of one statement and returns the matched records.
	Extract(source string, lines []string) *models.ExtractResult
	// Name returns the human-readable format name.
	Name() string
}

// Format identifies a supported statement export.
type Format string

const (
	FormatDebit       Format = "debit"
	FormatCardDetails Format = "card_details"
	FormatCardFuture  Format = "card_future"
)

// DefaultInvoiceThreshold is the amount above which a card debit conversion is
// treated as an invoice payment.
var DefaultInvoiceThreshold = decimal.NewFromInt(1000)

// Options carries the run-wide settings every extractor needs.
type Options struct {
	Window           models.DateWindow
	InvoiceThreshold decimal.Decimal
}

// New returns the extractor for the given statement format.
func New(format Format, opts Options) (Extractor, error) {
	if opts.InvoiceThreshold.IsZero() {
		opts.InvoiceThreshold = DefaultInvoiceThreshold
	}
	switch format {
	case FormatDebit:
		return &DebitExtractor{opts: opts}, nil
	case FormatCardDetails:
		return &CardDetailsExtractor{opts: opts}, nil
	case FormatCardFuture:
		return &CardFutureExtractor{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %q", format)
	}
}

// Reasons a matched line is dropped without being an error.
var (
	errCreditFlag  = errors.New("credit-flagged amount")
	errBalanceLine = errors.New("running balance line")
	errNonCharge   = errors.New("refund or zero amount")
	errInvalidDate = errors.New("invalid calendar date")
)

// dropResult maps a line failure to the DebugLine result tag.
func dropResult(err error) string {
	switch {
	case errors.Is(err, errCreditFlag):
		return "credit"
	case errors.Is(err, errBalanceLine):
		return "balance"
	case errors.Is(err, errNonCharge):
		return "non_charge"
	case errors.Is(err, models.ErrOutOfWindow):
		return "out_of_window"
	case errors.Is(err, models.ErrCurrencyParse):
		return "currency_error"
	case errors.Is(err, errInvalidDate):
		return "invalid_date"
	default:
		return "dropped"
	}
}

// collect records a parsed line into result, or a DebugLine when it was dropped.
// Lines that do not match the format at all are skipped silently.
func collect(result *models.ExtractResult, m *models.RawMatch, err error, source string, lineNum int, line string) {
	if err == nil {
		result.Matches = append(result.Matches, *m)
		return
	}
	if errors.Is(err, models.ErrFormatMismatch) {
		return
	}
	result.Dropped = append(result.Dropped, models.DebugLine{
		Source:  source,
		LineNum: lineNum,
		Text:    line,
		Result:  dropResult(err),
		Reason:  err.Error(),
	})
}

// lineErr wraps err with the source position and the code for its category.
func lineErr(source string, lineNum int, err error) error {
	code := models.ErrCodeLineDropped
	switch {
	case errors.Is(err, errInvalidDate):
		code = models.ErrCodeInvalidDate
	case errors.Is(err, models.ErrCurrencyParse):
		code = models.ErrCodeCurrencyParse
	case errors.Is(err, models.ErrOutOfWindow):
		code = models.ErrCodeOutOfWindow
	case errors.Is(err, models.ErrFormatMismatch):
		code = models.ErrCodeFormatMismatch
	}
	return models.NewLineError(code, source, lineNum, err)
}
