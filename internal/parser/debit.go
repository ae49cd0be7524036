package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// DebitExtractor handles checking-account exports with Pix and debit card movements.
//
// Lines carry a year-less date and a flagged amount:
//   DD/MM  DESCRIPTION  R$ 1.234,56D
//
// D marks an outflow, C an inflow. Only outflows reach the ledger.
type DebitExtractor struct {
	opts Options
}

func (e *DebitExtractor) Name() string {
	return "Debit/Pix statement"
}

var debitTxnPattern = regexp.MustCompile(
	`(\d{2}/\d{2})\s+(.*?)\s+(R\$\s?\d[\d.]*,\d{2})([DC])`,
)

const (
	invoicePaymentSuffix = " (Pagamento Fatura Cartão)"
	dailyBalanceKeyword  = "SALDO DO DIA"
	cardKeyword          = "MASTERCARD"
	debitConvKeyword     = "DEB.CONV.DEMAIS EMPRESAS"
)

func (e *DebitExtractor) Extract(source string, lines []string) *models.ExtractResult {
	result := &models.ExtractResult{Format: string(FormatDebit)}
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		m, err := e.parseLine(source, i+1, line)
		collect(result, m, err, source, i+1, line)
	}
	return result
}

func (e *DebitExtractor) parseLine(source string, lineNum int, line string) (*models.RawMatch, error) {
	g := debitTxnPattern.FindStringSubmatch(line)
	if g == nil {
		return nil, models.ErrFormatMismatch
	}
	dateStr, desc, amountStr, flag := g[1], g[2], g[3], g[4]

	date, ok := parseShortDate(dateStr, e.opts.Window)
	if !ok {
		return nil, lineErr(source, lineNum, errInvalidDate)
	}
	if !e.opts.Window.Contains(date) {
		return nil, lineErr(source, lineNum, models.ErrOutOfWindow)
	}
	if flag == "C" {
		return nil, errCreditFlag
	}
	folded := Fold(desc)
	if strings.Contains(folded, dailyBalanceKeyword) {
		return nil, errBalanceLine
	}

	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, lineErr(source, lineNum, err)
	}

	category := models.MethodDebit
	if strings.Contains(folded, "PIX") {
		category = models.MethodPix
	}
	if isInvoicePayment(folded) && amount.GreaterThan(e.opts.InvoiceThreshold) {
		desc += invoicePaymentSuffix
		category = models.MethodInvoicePayment
	}

	return &models.RawMatch{
		Date:        date,
		Description: normalizeSpace(desc),
		Amount:      amount,
		Category:    category,
		Source:      source,
		LineNum:     lineNum,
		SourceLine:  line,
	}, nil
}

// isInvoicePayment matches the debit conversion the bank uses when the card
// invoice is paid from the checking account.
func isInvoicePayment(folded string) bool {
	return strings.Contains(folded, cardKeyword) && strings.Contains(folded, debitConvKeyword)
}
