package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var monthShortNames = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// Aggregate orders the ledger by date and groups obligations into due-month buckets.
func Aggregate(window models.DateWindow, txns []models.Transaction, obligations []models.FutureObligation) *models.Report {
	ledger := make([]models.Transaction, len(txns))
	copy(ledger, txns)
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Date.Before(ledger[j].Date)
	})

	report := &models.Report{
		Window:       window,
		Transactions: ledger,
		Buckets:      bucketByMonth(obligations),
	}

	paid := decimal.Zero
	for _, t := range ledger {
		if t.PaymentMethod == models.MethodInvoicePayment {
			paid = paid.Add(t.InstallmentValue)
		}
	}
	if paid.IsPositive() {
		report.PaidInvoice = &models.InvoiceCard{
			Year:   window.End.Year(),
			Month:  window.End.Month(),
			Label:  shortLabel(window.End.Year(), window.End.Month()),
			Total:  paid,
			IsPast: true,
		}
		report.Invoices = append(report.Invoices, *report.PaidInvoice)
	}
	for _, b := range report.Buckets {
		report.Invoices = append(report.Invoices, models.InvoiceCard{
			Year:  b.Year,
			Month: b.Month,
			Label: shortLabel(b.Year, b.Month),
			Total: b.TotalDue,
		})
	}

	report.Summary = summarize(ledger, report.Buckets)
	report.Summary.TotalInvoicePaid = paid
	return report
}

func bucketByMonth(obligations []models.FutureObligation) []models.MonthBucket {
	index := make(map[string]int)
	var buckets []models.MonthBucket
	for _, o := range obligations {
		key := o.DueDate.Format(models.MonthKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, models.MonthBucket{
				Key:      key,
				Year:     o.DueDate.Year(),
				Month:    o.DueDate.Month(),
				Label:    longLabel(o.DueDate.Year(), o.DueDate.Month()),
				TotalDue: decimal.Zero,
			})
		}
		buckets[i].TotalDue = buckets[i].TotalDue.Add(o.InstallmentValue)
		buckets[i].Obligations = append(buckets[i].Obligations, o)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// summarize computes the spending totals. Invoice payments settle earlier
// charges, so they stay out of committed spending.
func summarize(ledger []models.Transaction, buckets []models.MonthBucket) models.Summary {
	s := models.Summary{
		TotalPix:       decimal.Zero,
		TotalDebit:     decimal.Zero,
		TotalCommitted: decimal.Zero,
		TotalFutureDue: decimal.Zero,
		Count:          len(ledger),
	}
	for _, t := range ledger {
		switch t.PaymentMethod {
		case models.MethodPix:
			s.TotalPix = s.TotalPix.Add(t.InstallmentValue)
			s.TotalCommitted = s.TotalCommitted.Add(t.InstallmentValue)
		case models.MethodDebit:
			s.TotalDebit = s.TotalDebit.Add(t.InstallmentValue)
			s.TotalCommitted = s.TotalCommitted.Add(t.InstallmentValue)
		case models.MethodCredit:
			s.TotalCommitted = s.TotalCommitted.Add(t.TotalPurchaseValue)
		}
	}
	for _, b := range buckets {
		s.TotalFutureDue = s.TotalFutureDue.Add(b.TotalDue)
	}
	return s
}

func longLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

func shortLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s/%d", monthShortNames[month-1], year)
}
