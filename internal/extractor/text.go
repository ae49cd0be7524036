// Package extractor loads statement exports as lines of text. Plain text
// files are read directly; PDF exports go through text extraction first.
package extractor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// maxLineSize bounds a single statement line. PDF text layers can emit a
// whole page without line breaks.
const maxLineSize = 1 << 20

// LoadLines reads a statement file into lines. A missing file is reported
// as models.ErrMissingInput so callers can treat it as an absent input.
func LoadLines(path string) ([]string, error) {
	if IsPDF(path) {
		pages, err := ExtractText(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", models.ErrMissingInput, path)
			}
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}
		return SplitPages(pages), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingInput, path)
		}
		return nil, err
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// ReadLines splits r into lines, dropping any trailing carriage return.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadBytes turns an uploaded statement into lines, extracting text when the
// payload is a PDF.
func LoadBytes(name string, data []byte) ([]string, error) {
	if IsPDF(name) || bytes.HasPrefix(data, []byte("%PDF")) {
		pages, err := ExtractTextFromReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		return SplitPages(pages), nil
	}
	return ReadLines(bytes.NewReader(data))
}

// SplitPages flattens extracted pages into one slice of lines.
func SplitPages(pages []string) []string {
	var lines []string
	for _, p := range pages {
		for _, line := range strings.Split(p, "\n") {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}

// IsPDF reports whether the file name has a .pdf extension.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
