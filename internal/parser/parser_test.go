package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format   Format
		wantName string
		wantErr  bool
	}{
		{FormatDebit, "Debit/Pix statement", false},
		{FormatCardDetails, "Credit card detail statement", false},
		{FormatCardFuture, "Credit card future movements", false},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			e, err := New(tt.format, Options{Window: testWindow})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Name() != tt.wantName {
				t.Errorf("got %q, want %q", e.Name(), tt.wantName)
			}
		})
	}
}

func TestNewDefaultsInvoiceThreshold(t *testing.T) {
	e, err := New(FormatDebit, Options{Window: testWindow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := e.(*DebitExtractor)
	if !d.opts.InvoiceThreshold.Equal(DefaultInvoiceThreshold) {
		t.Errorf("threshold = %s, want %s", d.opts.InvoiceThreshold, DefaultInvoiceThreshold)
	}
}

func TestLineErrCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.LineErrorCode
	}{
		{"invalid date", errInvalidDate, models.ErrCodeInvalidDate},
		{"currency", models.ErrCurrencyParse, models.ErrCodeCurrencyParse},
		{"out of window", models.ErrOutOfWindow, models.ErrCodeOutOfWindow},
		{"format", models.ErrFormatMismatch, models.ErrCodeFormatMismatch},
		{"unknown", errors.New("boom"), models.ErrCodeLineDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var le *models.LineError
			if !errors.As(lineErr("x.txt", 3, tt.err), &le) {
				t.Fatal("lineErr did not return a *LineError")
			}
			if le.Code != tt.want {
				t.Errorf("code: got %s, want %s", le.Code, tt.want)
			}
			if !errors.Is(le, tt.err) {
				t.Errorf("LineError does not unwrap to %v", tt.err)
			}
		})
	}
}
