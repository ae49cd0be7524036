package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateWindow is an inclusive [Start, End] reporting interval.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window, comparing calendar days only.
func (w DateWindow) Contains(d time.Time) bool {
	day := truncateDay(d)
	return !day.Before(truncateDay(w.Start)) && !day.After(truncateDay(w.End))
}

func (w DateWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"start": w.Start.Format(SortableDateLayout),
		"end":   w.End.Format(SortableDateLayout),
	})
}

func truncateDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// MonthBucket groups the obligations that fall due in one billing month.
type MonthBucket struct {
	Key         string             `json:"key"` // YYYY-MM
	Year        int                `json:"year"`
	Month       time.Month         `json:"month"`
	Label       string             `json:"label"`
	TotalDue    decimal.Decimal    `json:"totalDue"`
	Obligations []FutureObligation `json:"obligations"`
}

// InvoiceCard is one monthly invoice total, either already paid or still due.
type InvoiceCard struct {
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Label  string          `json:"label"`
	Total  decimal.Decimal `json:"total"`
	IsPast bool            `json:"isPast"`
}

// Summary holds the spending totals shown above the ledger.
type Summary struct {
	TotalPix         decimal.Decimal `json:"totalPix"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCommitted   decimal.Decimal `json:"totalCommitted"`
	TotalInvoicePaid decimal.Decimal `json:"totalInvoicePaid"`
	TotalFutureDue   decimal.Decimal `json:"totalFutureDue"`
	Count            int             `json:"count"`
}

// Report is the structured output handed to the rendering layer.
type Report struct {
	Window       DateWindow    `json:"window"`
	Transactions []Transaction `json:"transactions"`
	Buckets      []MonthBucket `json:"buckets"`
	Invoices     []InvoiceCard `json:"invoices"`
	PaidInvoice  *InvoiceCard  `json:"paidInvoice,omitempty"`
	Summary      Summary       `json:"summary"`
	Diagnostics  []DebugLine   `json:"diagnostics,omitempty"`
}

// Obligations flattens the buckets back into due-date order.
func (r *Report) Obligations() []FutureObligation {
	var out []FutureObligation
	for _, b := range r.Buckets {
		out = append(out, b.Obligations...)
	}
	return out
}
