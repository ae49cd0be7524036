package ledger

import (
	"testing"
	"time"

	"github.com/insightdelivered/statement-ledger/internal/calendar"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestAggregate_OrdersLedgerStably(t *testing.T) {
	day := calendar.Date(2026, time.January, 3)
	txns := []models.Transaction{
		{Description: "C", Date: calendar.Date(2026, time.January, 10), PaymentMethod: models.MethodPix, InstallmentValue: dec("1"), TotalPurchaseValue: dec("1")},
		{Description: "A", Date: day, PaymentMethod: models.MethodDebit, InstallmentValue: dec("2"), TotalPurchaseValue: dec("2")},
		{Description: "B", Date: day, PaymentMethod: models.MethodPix, InstallmentValue: dec("3"), TotalPurchaseValue: dec("3")},
		{Description: "Z", Date: calendar.Date(2025, time.December, 27), PaymentMethod: models.MethodDebit, InstallmentValue: dec("4"), TotalPurchaseValue: dec("4")},
	}

	report := Aggregate(testWindow, txns, nil)

	want := []string{"Z", "A", "B", "C"}
	for i, w := range want {
		if got := report.Transactions[i].Description; got != w {
			t.Errorf("Transactions[%d]: got %q, want %q", i, got, w)
		}
	}
	if txns[0].Description != "C" {
		t.Error("Aggregate reordered the caller's slice")
	}
	if report.Summary.Count != 4 {
		t.Errorf("Count: got %d, want 4", report.Summary.Count)
	}
	if !report.Summary.TotalPix.Equal(dec("4")) || !report.Summary.TotalDebit.Equal(dec("6")) {
		t.Errorf("totals: pix %s debit %s, want 4 and 6", report.Summary.TotalPix, report.Summary.TotalDebit)
	}
}

func TestAggregate_BucketsByDueMonth(t *testing.T) {
	m := futureMatch(calendar.Date(2026, time.January, 5), "LOJA XYZ - 1/3", "100.00",
		models.SectionNext, &models.Installment{Current: 1, Total: 3})
	single := futureMatch(calendar.Date(2026, time.January, 8), "MERCADO", "50.00", models.SectionNext, nil)
	single.LineNum = 9
	late := futureMatch(calendar.Date(2025, time.November, 10), "ELETRO - 3/4", "25.00",
		models.SectionFuture, &models.Installment{Current: 3, Total: 4})
	late.LineNum = 12

	txns, obligations := testProjector().Project([]models.RawMatch{m, single, late})
	report := Aggregate(testWindow, txns, obligations)

	tests := []struct {
		key   string
		label string
		total string
		count int
	}{
		{"2026-02", "Fevereiro 2026", "150", 2},
		{"2026-03", "Março 2026", "125", 2},
		{"2026-04", "Abril 2026", "125", 2},
	}

	if len(report.Buckets) != len(tests) {
		t.Fatalf("buckets: got %d, want %d", len(report.Buckets), len(tests))
	}
	for i, tt := range tests {
		b := report.Buckets[i]
		if b.Key != tt.key || b.Label != tt.label {
			t.Errorf("bucket[%d]: got %s %q, want %s %q", i, b.Key, b.Label, tt.key, tt.label)
		}
		if !b.TotalDue.Equal(dec(tt.total)) {
			t.Errorf("bucket[%d].TotalDue: got %s, want %s", i, b.TotalDue, tt.total)
		}
		if len(b.Obligations) != tt.count {
			t.Errorf("bucket[%d] obligations: got %d, want %d", i, len(b.Obligations), tt.count)
		}
	}

	if report.PaidInvoice != nil {
		t.Errorf("PaidInvoice: got %+v, want nil without invoice payments", report.PaidInvoice)
	}
	if len(report.Invoices) != 3 || report.Invoices[0].Label != "Fev/2026" {
		t.Errorf("Invoices: got %+v", report.Invoices)
	}
	if !report.Summary.TotalFutureDue.Equal(dec("400")) {
		t.Errorf("TotalFutureDue: got %s, want 400", report.Summary.TotalFutureDue)
	}
	if got := len(report.Obligations()); got != len(obligations) {
		t.Errorf("Obligations(): got %d, want %d", got, len(obligations))
	}
}

func TestAggregate_PaidInvoiceCard(t *testing.T) {
	txns := []models.Transaction{
		{Date: calendar.Date(2026, time.January, 5), PaymentMethod: models.MethodInvoicePayment, InstallmentValue: dec("2345.67"), TotalPurchaseValue: dec("2345.67")},
		{Date: calendar.Date(2026, time.January, 6), PaymentMethod: models.MethodDebit, InstallmentValue: dec("99"), TotalPurchaseValue: dec("99")},
	}

	report := Aggregate(testWindow, txns, nil)

	if report.PaidInvoice == nil {
		t.Fatal("PaidInvoice: got nil")
	}
	card := report.PaidInvoice
	if !card.IsPast || card.Label != "Jan/2026" || !card.Total.Equal(dec("2345.67")) {
		t.Errorf("PaidInvoice: got %+v", card)
	}
	if len(report.Invoices) != 1 || !report.Invoices[0].IsPast {
		t.Errorf("Invoices: got %+v, want the paid card first", report.Invoices)
	}
	if !report.Summary.TotalCommitted.Equal(dec("99")) {
		t.Errorf("TotalCommitted: got %s, want 99 without invoice payments", report.Summary.TotalCommitted)
	}
	if !report.Summary.TotalInvoicePaid.Equal(dec("2345.67")) {
		t.Errorf("TotalInvoicePaid: got %s", report.Summary.TotalInvoicePaid)
	}
}
