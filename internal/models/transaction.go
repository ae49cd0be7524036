package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Date layouts used in serialized records.
const (
	SortableDateLayout = "2006-01-02"
	DisplayDateLayout  = "02/01/2006"
	MonthKeyLayout     = "2006-01"
)

// PaymentMethod is the derived payment category of a ledger entry.
type PaymentMethod string

const (
	MethodPix            PaymentMethod = "Pix"
	MethodDebit          PaymentMethod = "Debit"
	MethodCredit         PaymentMethod = "Credit"
	MethodInvoicePayment PaymentMethod = "InvoicePayment"
)

// PaymentStatus tells whether money already left the account or is still owed.
type PaymentStatus string

const (
	StatusPaid PaymentStatus = "Paid"
	StatusOwed PaymentStatus = "Owed"
)

// Section identifies which part of a future-movements statement a line came from.
type Section string

const (
	SectionNone   Section = ""
	SectionNext   Section = "NEXT"
	SectionFuture Section = "FUTURE"
)

// Installment is a "current/total" marker found in a description.
type Installment struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

func (i Installment) String() string {
	return fmt.Sprintf("%d/%d", i.Current, i.Total)
}

// Transaction is a single ledger-worthy movement. Built once, never mutated.
type Transaction struct {
	ID                 uuid.UUID
	Date               time.Time
	Description        string
	InstallmentValue   decimal.Decimal
	TotalPurchaseValue decimal.Decimal
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus
	SourceLine         string
	Source             string
}

type transactionJSON struct {
	ID                 uuid.UUID       `json:"id"`
	Date               string          `json:"date"`
	DisplayDate        string          `json:"displayDate"`
	Description        string          `json:"description"`
	InstallmentValue   decimal.Decimal `json:"installmentValue"`
	TotalPurchaseValue decimal.Decimal `json:"totalPurchaseValue"`
	PaymentMethod      PaymentMethod   `json:"paymentMethod"`
	PaymentStatus      PaymentStatus   `json:"paymentStatus"`
	SourceLine         string          `json:"sourceLine"`
	Source             string          `json:"source,omitempty"`
}

// MarshalJSON emits the date in both sortable and display form.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:                 t.ID,
		Date:               t.Date.Format(SortableDateLayout),
		DisplayDate:        t.Date.Format(DisplayDateLayout),
		Description:        t.Description,
		InstallmentValue:   t.InstallmentValue,
		TotalPurchaseValue: t.TotalPurchaseValue,
		PaymentMethod:      t.PaymentMethod,
		PaymentStatus:      t.PaymentStatus,
		SourceLine:         t.SourceLine,
		Source:             t.Source,
	})
}

// FutureObligation is one projected installment of a multi-part credit purchase.
type FutureObligation struct {
	ID                       uuid.UUID
	PurchaseDate             time.Time
	Description              string
	InstallmentValue         decimal.Decimal
	DueDate                  time.Time
	InstallmentIndex         int
	InstallmentCount         int
	TotalPurchaseValue       decimal.Decimal
	AmountPaidSoFar          decimal.Decimal
	AmountRemainingAfterThis decimal.Decimal
}

type obligationJSON struct {
	ID                       uuid.UUID       `json:"id"`
	PurchaseDate             string          `json:"purchaseDate"`
	Description              string          `json:"description"`
	InstallmentValue         decimal.Decimal `json:"installmentValue"`
	DueDate                  string          `json:"dueDate"`
	DueMonth                 string          `json:"dueMonth"`
	Installment              string          `json:"installment"`
	InstallmentIndex         int             `json:"installmentIndex"`
	InstallmentCount         int             `json:"installmentCount"`
	TotalPurchaseValue       decimal.Decimal `json:"totalPurchaseValue"`
	AmountPaidSoFar          decimal.Decimal `json:"amountPaidSoFar"`
	AmountRemainingAfterThis decimal.Decimal `json:"amountRemainingAfterThis"`
}

// MarshalJSON adds the due month key and the "index/count" label.
func (o FutureObligation) MarshalJSON() ([]byte, error) {
	return json.Marshal(obligationJSON{
		ID:                       o.ID,
		PurchaseDate:             o.PurchaseDate.Format(SortableDateLayout),
		Description:              o.Description,
		InstallmentValue:         o.InstallmentValue,
		DueDate:                  o.DueDate.Format(SortableDateLayout),
		DueMonth:                 o.DueDate.Format(MonthKeyLayout),
		Installment:              o.InstallmentLabel(),
		InstallmentIndex:         o.InstallmentIndex,
		InstallmentCount:         o.InstallmentCount,
		TotalPurchaseValue:       o.TotalPurchaseValue,
		AmountPaidSoFar:          o.AmountPaidSoFar,
		AmountRemainingAfterThis: o.AmountRemainingAfterThis,
	})
}

// InstallmentLabel returns the position in the series, e.g. "3/10".
func (o FutureObligation) InstallmentLabel() string {
	return Installment{Current: o.InstallmentIndex, Total: o.InstallmentCount}.String()
}

// RawMatch is what a line extractor yields for a matched statement line.
type RawMatch struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    PaymentMethod
	Installment *Installment
	Section     Section
	CardSuffix  string
	Source      string
	LineNum     int
	SourceLine  string
}

// DebugLine captures a line that matched a pattern but was dropped.
type DebugLine struct {
	Source  string `json:"source"`
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "credit", "balance", "out_of_window", "currency_error", ...
	Reason  string `json:"reason,omitempty"`
}

// ExtractResult holds everything one extractor pass produced.
type ExtractResult struct {
	Format  string
	Matches []RawMatch
	Dropped []DebugLine
}
