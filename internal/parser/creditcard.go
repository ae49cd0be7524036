package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// CardDetailsExtractor handles the credit-card invoice detail export.
//
// Charges are listed between a "GASTOS DE ..." header and the financial
// charges or total block:
//   GASTOS DE FULANO (FINAL 1234)
//   27/12 RESTAURANTE ABC 89,90
//   02/01 LOJA XYZ 02/05 150,00
//   ENCARGOS FINANCEIROS
type CardDetailsExtractor struct {
	opts Options
}

func (e *CardDetailsExtractor) Name() string {
	return "Credit card detail statement"
}

var cardDetailsTxnPattern = regexp.MustCompile(
	`(\d{2}/\d{2})\s+(.*?)\s+(\d[\d.]*,\d{2})$`,
)

const (
	chargesStartMarker     = "GASTOS DE"
	financialChargesMarker = "ENCARGOS FINANCEIROS"
	totalMarker            = "TOTAL"
)

// sectionState tracks whether the scanner is inside the charges block.
type sectionState int

const (
	stateOutside sectionState = iota
	stateInside
)

// next returns the state after line and whether the line was a marker.
// Markers are upper case in the export, so "Posto Total" is a charge.
func (s sectionState) next(line string) (sectionState, bool) {
	if strings.Contains(line, chargesStartMarker) {
		return stateInside, true
	}
	if strings.Contains(line, financialChargesMarker) || strings.Contains(line, totalMarker) {
		return stateOutside, true
	}
	return s, false
}

func (e *CardDetailsExtractor) Extract(source string, lines []string) *models.ExtractResult {
	result := &models.ExtractResult{Format: string(FormatCardDetails)}
	state := stateOutside

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		var marker bool
		state, marker = state.next(StripAccents(line))
		if marker || state == stateOutside {
			continue
		}

		m, err := e.parseLine(source, i+1, line)
		collect(result, m, err, source, i+1, line)
	}
	return result
}

func (e *CardDetailsExtractor) parseLine(source string, lineNum int, line string) (*models.RawMatch, error) {
	g := cardDetailsTxnPattern.FindStringSubmatch(line)
	if g == nil {
		return nil, models.ErrFormatMismatch
	}
	dateStr, desc, amountStr := g[1], g[2], g[3]

	date, ok := parseShortDate(dateStr, e.opts.Window)
	if !ok {
		return nil, lineErr(source, lineNum, errInvalidDate)
	}
	if !e.opts.Window.Contains(date) {
		return nil, lineErr(source, lineNum, models.ErrOutOfWindow)
	}

	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, lineErr(source, lineNum, err)
	}

	return &models.RawMatch{
		Date:        date,
		Description: normalizeSpace(desc),
		Amount:      amount,
		Category:    models.MethodCredit,
		Installment: ParseInstallment(desc, installmentPattern),
		Source:      source,
		LineNum:     lineNum,
		SourceLine:  line,
	}, nil
}
