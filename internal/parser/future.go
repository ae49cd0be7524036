package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// CardFutureExtractor handles the "future movements" card export, which lists
// the upcoming invoice and the installments already scheduled beyond it:
//   MOVIMENTOS PARA A PRÓXIMA FATURA
//   05/01/2026  LOJA XYZ - 1/3   1234  R$ 100,00
//   PARCELADOS COM VENCIMENTO FUTURO
//   10/11/2025  ELETRO ABC - 3/10  1234  R$ 250,00
//
// Every positive match is emitted, including purchases made before the
// reporting window, because their remaining installments are still owed.
type CardFutureExtractor struct {
	opts Options
}

func (e *CardFutureExtractor) Name() string {
	return "Credit card future movements"
}

var cardFutureTxnPattern = regexp.MustCompile(
	`(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(\d{4})\s+(R\$\s?-?\d[\d.]*,\d{2})`,
)

const (
	nextInvoiceMarker = "MOVIMENTOS PARA A PROXIMA FATURA"
	futureDueMarker   = "PARCELADOS COM VENCIMENTO FUTURO"
)

func (e *CardFutureExtractor) Extract(source string, lines []string) *models.ExtractResult {
	result := &models.ExtractResult{Format: string(FormatCardFuture)}
	section := models.SectionNone

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		folded := StripAccents(line)
		if strings.Contains(folded, nextInvoiceMarker) {
			section = models.SectionNext
			continue
		}
		if strings.Contains(folded, futureDueMarker) {
			section = models.SectionFuture
			continue
		}

		m, err := e.parseLine(source, i+1, line, section)
		collect(result, m, err, source, i+1, line)
	}
	return result
}

func (e *CardFutureExtractor) parseLine(source string, lineNum int, line string, section models.Section) (*models.RawMatch, error) {
	g := cardFutureTxnPattern.FindStringSubmatch(line)
	if g == nil {
		return nil, models.ErrFormatMismatch
	}
	dateStr, desc, card, amountStr := g[1], g[2], g[3], g[4]

	date, ok := parseFullDate(dateStr)
	if !ok {
		return nil, lineErr(source, lineNum, errInvalidDate)
	}

	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, lineErr(source, lineNum, err)
	}
	if !amount.IsPositive() {
		return nil, errNonCharge
	}

	desc = normalizeSpace(desc)
	return &models.RawMatch{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    models.MethodCredit,
		Installment: ParseInstallment(desc, dashInstallmentPattern),
		Section:     section,
		CardSuffix:  card,
		Source:      source,
		LineNum:     lineNum,
		SourceLine:  line,
	}, nil
}
