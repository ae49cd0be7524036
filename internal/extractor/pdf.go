package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadablePDF is returned when no extraction method yields statement text.
var ErrUnreadablePDF = errors.New("no readable text could be extracted from PDF")

// ExtractText reads a PDF statement and returns the text of each page. The
// library is tried first; pdftotext (poppler-utils) is the fallback.
func ExtractText(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pages, libErr := ExtractTextFromReader(f, info.Size())
	if libErr == nil {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && IsReadableText(popplerPages) {
		return popplerPages, nil
	}
	return nil, libErr
}

// ExtractTextFromReader extracts page text from an in-memory PDF, such as an
// upload. Only the library methods are available here.
func ExtractTextFromReader(r io.ReaderAt, size int64) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("%w: pdf library crashed: %v", ErrUnreadablePDF, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrUnreadablePDF)
	}

	pages = extractByRow(reader, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}

	// Row grouping fails on some exports that place each glyph separately.
	pages = extractByContent(reader, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}

	plain := extractByReaderPlainText(reader)
	if IsReadableText([]string{plain}) {
		return []string{plain}, nil
	}
	return nil, ErrUnreadablePDF
}

// statementWords appear in virtually every exported bank or card statement.
var statementWords = []string{
	"saldo", "fatura", "lancamento", "lançamento", "data", "valor",
	"total", "pix", "cartao", "cartão", "compra", "extrato", "parcela",
	"vencimento", "movimentos", "gastos",
}

// IsReadableText reports whether the pages look like real statement text
// and not font-encoding garbage. It requires more than 50 characters, a
// mostly readable character mix and at least one statement word.
func IsReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of readable characters to all characters.
// Latin letters count, so Portuguese accents do not lower the score.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			switch {
			case unicode.Is(unicode.Latin, r), unicode.IsDigit(r), unicode.IsSpace(r):
				readable++
			case strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r):
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", filePath).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if !strings.HasPrefix(line, "Pages:") {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
				numPages = n
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", page, "-l", page, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent rebuilds rows from text positions. PDF Y grows upwards,
// so rows are emitted by descending Y and items within a row by ascending X.
// A wide horizontal gap becomes a double space, which the line patterns
// treat as ordinary whitespace between date, description and amount.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type item struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]item)
		for _, t := range content.Text {
			// Glyphs arrive one at a time, so spaces are kept as items.
			if t.S == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], item{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.SliceStable(items, func(a, b int) bool { return items[a].x < items[b].x })

			var b strings.Builder
			var prevX float64
			for j, it := range items {
				if j > 0 && it.x-prevX > 15 {
					b.WriteString("  ")
				}
				b.WriteString(it.s)
				prevX = it.x
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
