package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Table is one parsed indicator source: a header row plus string records.
// Name is the base filename for CSV sources or the table name for database
// sources; it is the source half of a catalog key.
type Table struct {
	Name    string
	Path    string
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// LoadCSV parses a CSV file into a Table. Lines beginning with '#' are
// provenance comments and are skipped before the header row is read.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := newReader(file, ',')

	headers, err := reader.Read()
	if err != nil {
		// Retry with semicolon separator before giving up.
		if _, serr := file.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("failed to read headers: %v", err)
		}
		reader = newReader(file, ';')
		headers, err = reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read headers: %v", err)
		}
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed record: %v", err)
		}
		rows = append(rows, record)
	}

	return &Table{
		Name:    filepath.Base(path),
		Path:    path,
		Headers: headers,
		Rows:    rows,
	}, nil
}

func newReader(file *os.File, comma rune) *csv.Reader {
	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.Comment = '#'
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true    // Allow bare quotes in non-quoted fields
	reader.TrimLeadingSpace = true
	return reader
}

// ListCSVFiles returns the CSV paths in dir sorted by filename so that scans
// of the same directory contents are deterministic.
func ListCSVFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
