package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultColumns are the zero-based spreadsheet columns holding words.
var DefaultColumns = []int{1, 6}

// ReadWords reads raw candidate words from a vocabulary file. Spreadsheets
// (.xlsx, .xlsm) and .csv files use the given zero-based columns of every row
// after the header. Any other file is read as a plain word list.
func ReadWords(path string, columns []int) ([]string, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(path, columns)
	case ".csv":
		return readCSV(path, columns)
	default:
		return readWordList(path)
	}
}

func readSpreadsheet(path string, columns []int) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return pickColumns(rows, columns), nil
}

func readCSV(path string, columns []int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}

	return pickColumns(rows, columns), nil
}

// pickColumns skips the header row and collects non-blank cells.
func pickColumns(rows [][]string, columns []int) []string {
	var words []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		for _, col := range columns {
			if col < 0 || col >= len(row) {
				continue
			}
			if cell := strings.TrimSpace(row[col]); cell != "" {
				words = append(words, cell)
			}
		}
	}
	return words
}

// readWordList reads one word per line. Blank lines and lines starting with
// '#' are ignored; for "word = translation" lines the left side is taken.
func readWordList(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	var words []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if left, _, ok := strings.Cut(line, "="); ok {
			line = strings.TrimSpace(left)
			// "= translation" carries no word
			if line == "" {
				continue
			}
		}
		words = append(words, line)
	}

	return words, nil
}
