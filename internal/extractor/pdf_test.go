package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ledongthuc/pdf"
)

func TestIsReadableText(t *testing.T) {
	statement := strings.Repeat("26/12 Pix enviado FULANO R$ 120,00D\n", 3) + "SALDO DO DIA R$ 3.450,00"

	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"statement text", []string{statement}, true},
		{"accented statement", []string{strings.Repeat("LANÇAMENTOS FUTUROS ", 5) + "cartão de crédito"}, true},
		{"too short", []string{"saldo 10,00"}, false},
		{"garbage", []string{strings.Repeat("\u0001\u0002\u0003☃❤", 30)}, false},
		{"no statement words", []string{strings.Repeat("lorem ipsum dolor sit amet ", 5)}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadableText(tt.pages); got != tt.want {
				t.Errorf("IsReadableText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextQuality(t *testing.T) {
	if q := textQuality([]string{"Março Ação 123"}); q != 1 {
		t.Errorf("textQuality(accented) = %v, want 1", q)
	}
	if q := textQuality(nil); q != 0 {
		t.Errorf("textQuality(nil) = %v, want 0", q)
	}
}

// buildPDF renders lines as a single-page PDF with one text object per line,
// top to bottom, using a WinAnsi-encoded base font.
func buildPDF(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 10 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 50 %d Tm\n(%s) Tj\n", 750-i*14, line)
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

var statementLines = []string{
	"EXTRATO CONTA CORRENTE",
	"26/12 Pix enviado FULANO R$ 120,00D",
	"05/01 TARIFA PACOTE R$ 39,90D",
}

func TestExtractTextFromReader(t *testing.T) {
	data := buildPDF(statementLines)

	pages, err := ExtractTextFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ExtractTextFromReader() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages: got %d, want 1", len(pages))
	}
	if diff := cmp.Diff(statementLines, strings.Split(pages[0], "\n")); diff != "" {
		t.Errorf("page text mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractByRow(t *testing.T) {
	data := buildPDF(statementLines)
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("pdf.NewReader() error = %v", err)
	}

	pages := extractByRow(reader, reader.NumPage())
	if len(pages) != 1 {
		t.Fatalf("pages: got %d, want 1", len(pages))
	}
	if diff := cmp.Diff(statementLines, strings.Split(pages[0], "\n")); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractByContent(t *testing.T) {
	data := buildPDF(statementLines)
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("pdf.NewReader() error = %v", err)
	}

	pages := extractByContent(reader, reader.NumPage())
	if len(pages) != 1 {
		t.Fatalf("pages: got %d, want 1", len(pages))
	}
	if diff := cmp.Diff(statementLines, strings.Split(pages[0], "\n")); diff != "" {
		t.Errorf("content rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytes_PDF(t *testing.T) {
	lines, err := LoadBytes("jan_2026.pdf", buildPDF(statementLines))
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	if diff := cmp.Diff(statementLines, lines); diff != "" {
		t.Errorf("LoadBytes() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytes_UnreadablePDFText(t *testing.T) {
	_, err := LoadBytes("scan.pdf", buildPDF([]string{"lorem ipsum"}))
	if !errors.Is(err, ErrUnreadablePDF) {
		t.Errorf("LoadBytes() error = %v, want ErrUnreadablePDF", err)
	}
}

func TestLoadLines_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jan_2026.pdf")
	if err := os.WriteFile(path, buildPDF(statementLines), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := LoadLines(path)
	if err != nil {
		t.Fatalf("LoadLines() error = %v", err)
	}
	if diff := cmp.Diff(statementLines, lines); diff != "" {
		t.Errorf("LoadLines() mismatch (-want +got):\n%s", diff)
	}
}
