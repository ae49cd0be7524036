package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/calendar"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// Projector expands future-movement lines into ledger entries and the
// installment schedule. Anchors give the invoice due date per section.
type Projector struct {
	Window  models.DateWindow
	Anchors map[models.Section]time.Time
}

// Project returns the reporting-window transactions and every remaining
// obligation for the given future-movement matches.
func (p *Projector) Project(matches []models.RawMatch) ([]models.Transaction, []models.FutureObligation) {
	var txns []models.Transaction
	var obligations []models.FutureObligation

	for _, m := range matches {
		inWindow := p.Window.Contains(m.Date)
		// A series already past its first installment was counted in an earlier period.
		if inWindow && (m.Installment == nil || m.Installment.Current == 1) {
			txns = append(txns, NewTransaction(m))
		}

		anchor, ok := p.Anchors[m.Section]
		if !ok || anchor.IsZero() {
			continue
		}
		if m.Installment == nil {
			obligations = append(obligations, single(m, anchor))
			continue
		}
		obligations = append(obligations, series(m, anchor)...)
	}
	return txns, obligations
}

// single is a one-shot purchase charged entirely on the anchor invoice.
func single(m models.RawMatch, anchor time.Time) models.FutureObligation {
	return models.FutureObligation{
		ID:                       obligationID(m, 1),
		PurchaseDate:             m.Date,
		Description:              m.Description,
		InstallmentValue:         m.Amount,
		DueDate:                  anchor,
		InstallmentIndex:         1,
		InstallmentCount:         1,
		TotalPurchaseValue:       m.Amount,
		AmountPaidSoFar:          decimal.Zero,
		AmountRemainingAfterThis: decimal.Zero,
	}
}

// series projects installments current..total onto consecutive invoices
// starting at the anchor. The remaining amount excludes the installment being
// charged, so the last one always reaches zero.
func series(m models.RawMatch, anchor time.Time) []models.FutureObligation {
	inst := *m.Installment
	value := m.Amount
	total := value.Mul(decimal.NewFromInt(int64(inst.Total)))
	desc := parser.StripInstallment(m.Description)

	remaining := inst.Total - inst.Current + 1
	out := make([]models.FutureObligation, 0, remaining)
	for i := 0; i < remaining; i++ {
		index := inst.Current + i
		n := decimal.NewFromInt(int64(index))
		out = append(out, models.FutureObligation{
			ID:                       obligationID(m, index),
			PurchaseDate:             m.Date,
			Description:              desc,
			InstallmentValue:         value,
			DueDate:                  calendar.AddMonths(anchor, i),
			InstallmentIndex:         index,
			InstallmentCount:         inst.Total,
			TotalPurchaseValue:       total,
			AmountPaidSoFar:          decimal.NewFromInt(int64(index - 1)).Mul(value),
			AmountRemainingAfterThis: total.Sub(n.Mul(value)),
		})
	}
	return out
}
