// Package writer renders a ledger report as CSV and JSON artifacts.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Artifact file names written by WriteArtifacts.
const (
	TransactionsFile = "transactions.csv"
	ObligationsFile  = "obligations.csv"
	ReportFile       = "report.json"
)

// CSVWriter writes the ledger and the obligation schedule to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteTransactions writes the ordered transaction ledger.
func (w *CSVWriter) WriteTransactions(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)

	header := []string{"Date", "Display Date", "Description", "Installment Value", "Total Purchase Value", "Method", "Status", "Source Line"}
	w.writeWindow(writer, report.Window, len(header))
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range report.Transactions {
		row := []string{
			txn.Date.Format(models.SortableDateLayout),
			txn.Date.Format(models.DisplayDateLayout),
			txn.Description,
			txn.InstallmentValue.StringFixed(2),
			txn.TotalPurchaseValue.StringFixed(2),
			string(txn.PaymentMethod),
			string(txn.PaymentStatus),
			txn.SourceLine,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteObligations writes every projected installment, grouped by due month.
func (w *CSVWriter) WriteObligations(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)

	header := []string{"Due Month", "Due Date", "Purchase Date", "Description", "Installment", "Value", "Total", "Paid So Far", "Remaining After"}
	w.writeWindow(writer, report.Window, len(header))
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, bucket := range report.Buckets {
		for _, o := range bucket.Obligations {
			row := []string{
				bucket.Key,
				o.DueDate.Format(models.SortableDateLayout),
				o.PurchaseDate.Format(models.SortableDateLayout),
				o.Description,
				o.InstallmentLabel(),
				o.InstallmentValue.StringFixed(2),
				o.TotalPurchaseValue.StringFixed(2),
				o.AmountPaidSoFar.StringFixed(2),
				o.AmountRemainingAfterThis.StringFixed(2),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeWindow emits the metadata rows padded to width so every record has
// the same number of fields as the header.
func (w *CSVWriter) writeWindow(writer *csv.Writer, window models.DateWindow, width int) {
	if !w.IncludeHeader {
		return
	}
	rows := [][]string{
		{"# Window Start", window.Start.Format(models.SortableDateLayout)},
		{"# Window End", window.End.Format(models.SortableDateLayout)},
	}
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		writer.Write(padded)
	}
}

// WriteArtifacts writes the transaction CSV, the obligation CSV and the JSON
// report into dir, creating it when needed.
func (w *CSVWriter) WriteArtifacts(dir string, report *models.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %q: %w", dir, err)
	}

	writers := []struct {
		name  string
		write func(io.Writer, *models.Report) error
	}{
		{TransactionsFile, w.WriteTransactions},
		{ObligationsFile, w.WriteObligations},
		{ReportFile, WriteJSON},
	}
	for _, a := range writers {
		if err := writeFile(filepath.Join(dir, a.name), report, a.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, report *models.Report, write func(io.Writer, *models.Report) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := write(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return f.Close()
}
