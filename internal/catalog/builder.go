package catalog

import (
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"

	"nationaldynamics/internal/dataset"
)

const yearColumn = "year"

// Builder turns tables into catalogs. Curated labels are injected so
// presentation naming stays out of the parsing path.
type Builder struct {
	labels LabelTable
	logger *zap.Logger
}

func NewBuilder(labels LabelTable, logger *zap.Logger) *Builder {
	if labels == nil {
		labels = DefaultLabels()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{labels: labels, logger: logger}
}

// BuildDir scans every CSV in dir plus any extra tables (e.g. from Postgres)
// and returns the catalog. Missing or unparseable sources are skipped with a
// warning; the worst outcome is an empty catalog.
func (b *Builder) BuildDir(dir string, extra ...*dataset.Table) *Catalog {
	cat := newCatalog()

	if _, err := os.Stat(dir); err != nil {
		b.logger.Warn("data directory not found", zap.String("dir", dir), zap.Error(err))
	} else {
		paths, err := dataset.ListCSVFiles(dir)
		if err != nil {
			b.logger.Warn("data directory scan failed", zap.String("dir", dir), zap.Error(err))
		}
		for _, path := range paths {
			table, err := dataset.LoadCSV(path)
			if err != nil {
				b.logger.Warn("skipping dataset", zap.String("path", path), zap.Error(err))
				continue
			}
			b.addTable(cat, table)
		}
	}

	for _, table := range extra {
		b.addTable(cat, table)
	}

	cat.sortByLabel()
	return cat
}

func (b *Builder) addTable(cat *Catalog, t *dataset.Table) {
	if t.Empty() {
		return
	}

	years := usableYears(t)

	for colIdx, name := range t.Headers {
		if !isNumericColumn(t, colIdx) {
			continue
		}

		key := Key{Source: t.Name, Column: name}
		v := &Variable{Key: key, Label: b.labels.Resolve(key)}
		if years != nil {
			v.Years = []int{}
		}

		for rowIdx, row := range t.Rows {
			cell := cellAt(row, colIdx)
			if cell == "" {
				continue // missing value, drop the row
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
				continue // NaN and Inf tokens parse but count as missing
			}
			v.Values = append(v.Values, value)
			if years != nil {
				v.Years = append(v.Years, years[rowIdx])
			}
		}

		cat.add(v)
	}
}

// usableYears returns the per-row year values when the table carries a usable
// integer year column, else nil. Partial-year tables (any row missing a year)
// are treated as year-less.
func usableYears(t *dataset.Table) []int {
	idx := t.ColumnIndex(yearColumn)
	if idx < 0 {
		return nil
	}

	years := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		cell := cellAt(row, idx)
		if cell == "" {
			return nil
		}
		year, err := strconv.Atoi(cell)
		if err != nil {
			return nil
		}
		years[i] = year
	}
	return years
}

// isNumericColumn reports whether every present value in the column parses as
// a number. NaN and Inf tokens parse, so they do not disqualify a column; they
// are dropped as missing when the Variable is filled. A column with no present
// values still qualifies; it produces an empty Variable that the comparison
// engine rejects as insufficient data.
func isNumericColumn(t *dataset.Table, colIdx int) bool {
	for _, row := range t.Rows {
		cell := cellAt(row, colIdx)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
