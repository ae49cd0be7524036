// Package ledger turns extracted statement lines into the transaction ledger
// and the projected schedule of future card installments.
package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// idNamespace scopes the name-based IDs so identical input always yields identical IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("statement-ledger"))

// Classify maps a payment method to its payment status. Pix and debit leave
// the account immediately; card charges and invoice payments are tracked as owed.
func Classify(method models.PaymentMethod) models.PaymentStatus {
	switch method {
	case models.MethodPix, models.MethodDebit:
		return models.StatusPaid
	default:
		return models.StatusOwed
	}
}

// NewTransaction builds the ledger entry for a matched line. An installment
// purchase carries the full price as its total.
func NewTransaction(m models.RawMatch) models.Transaction {
	return models.Transaction{
		ID:                 transactionID(m),
		Date:               m.Date,
		Description:        m.Description,
		InstallmentValue:   m.Amount,
		TotalPurchaseValue: purchaseTotal(m.Amount, m.Installment),
		PaymentMethod:      m.Category,
		PaymentStatus:      Classify(m.Category),
		SourceLine:         m.SourceLine,
		Source:             m.Source,
	}
}

func purchaseTotal(amount decimal.Decimal, inst *models.Installment) decimal.Decimal {
	if inst == nil {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(int64(inst.Total)))
}

func transactionID(m models.RawMatch) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("tx|%s|%d", m.Source, m.LineNum)))
}

func obligationID(m models.RawMatch, index int) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("ob|%s|%d|%d", m.Source, m.LineNum, index)))
}
