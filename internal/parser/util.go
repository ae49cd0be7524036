package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/insightdelivered/statement-ledger/internal/calendar"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

var (
	// Installment marker anywhere in a description: "3/10".
	installmentPattern = regexp.MustCompile(`(\d+)/(\d+)`)
	// Future-movements marker is dash-prefixed: "LOJA X - 3/10".
	dashInstallmentPattern = regexp.MustCompile(`-\s*(\d+)/(\d+)`)

	numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// ParseAmount converts a Brazilian-formatted token like "R$ 1.234,56D" or
// "R$-12,00" to a decimal. The currency symbol, grouping dots and one
// trailing D/C flag are removed and a leading minus is kept.
func ParseAmount(s string) (decimal.Decimal, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	if strings.HasSuffix(s, "D") || strings.HasSuffix(s, "C") {
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	if !numericPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", models.ErrCurrencyParse, orig)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", models.ErrCurrencyParse, orig, err)
	}
	return d, nil
}

// ParseInstallment finds a "current/total" marker in desc. Markers that
// cannot describe a series (zero total, current past total) are ignored.
func ParseInstallment(desc string, pattern *regexp.Regexp) *models.Installment {
	m := pattern.FindStringSubmatch(desc)
	if m == nil {
		return nil
	}
	current, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil
	}
	if total < 1 || current < 1 || current > total {
		return nil
	}
	return &models.Installment{Current: current, Total: total}
}

// StripInstallment removes the dash-prefixed marker from a future-movements description.
func StripInstallment(desc string) string {
	return normalizeSpace(dashInstallmentPattern.ReplaceAllString(desc, ""))
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold upper-cases s and drops accents so "Débito" and "DEBITO" compare equal.
func Fold(s string) string {
	return strings.ToUpper(StripAccents(s))
}

// StripAccents drops combining marks and keeps case, so section markers stay
// case-sensitive while "PRÓXIMA" and "PROXIMA" still compare equal.
func StripAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// inferYear resolves a year-less DD/MM date against the window. Months at or
// after the window's first month belong to its first year, earlier months to
// the following one.
func inferYear(month time.Month, window models.DateWindow) int {
	if month >= window.Start.Month() {
		return window.Start.Year()
	}
	return window.Start.Year() + 1
}

// parseShortDate parses "DD/MM" using the window to pick the year.
func parseShortDate(s string, window models.DateWindow) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	year := inferYear(time.Month(month), window)
	if !calendar.ValidDay(year, time.Month(month), day) {
		return time.Time{}, false
	}
	return calendar.Date(year, time.Month(month), day), true
}

// parseFullDate parses "DD/MM/YYYY".
func parseFullDate(s string) (time.Time, bool) {
	t, err := time.Parse(models.DisplayDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return calendar.Date(t.Year(), t.Month(), t.Day()), true
}
