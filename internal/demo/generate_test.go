package demo

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nationaldynamics/internal/dataset"
)

var demoFiles = []string{
	"marriage_rate_demo.csv",
	"median_income_demo.csv",
	"unemployment_rate_demo.csv",
	"cpi_index_demo.csv",
	"violent_crime_demo.csv",
	"mass_shootings_demo.csv",
	"mental_health_demo.csv",
	"household_types_demo.csv",
	"religion_trends_demo.csv",
}

func TestWriteAll_ProducesNineDatasets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dir))

	for _, name := range demoFiles {
		table, err := dataset.LoadCSV(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Len(t, table.Rows, 25, name)

		yearIdx := table.ColumnIndex("year")
		require.GreaterOrEqual(t, yearIdx, 0, name)
		for i, row := range table.Rows {
			year, err := strconv.Atoi(row[yearIdx])
			require.NoError(t, err, name)
			assert.Equal(t, 2000+i, year, name)
		}
	}
}

func TestWriteAll_StartsWithProvenanceComment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dir))

	data, err := os.ReadFile(filepath.Join(dir, "marriage_rate_demo.csv"))
	require.NoError(t, err)
	assert.Equal(t, byte('#'), data[0])
}

func TestWriteAll_DeterministicForSeed(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dirA))
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dirB))

	for _, name := range demoFiles {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestWriteAll_DifferentSeedsDiffer(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	require.NoError(t, NewGenerator(1, nil).WriteAll(dirA))
	require.NoError(t, NewGenerator(2, nil).WriteAll(dirB))

	a, err := os.ReadFile(filepath.Join(dirA, "marriage_rate_demo.csv"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "marriage_rate_demo.csv"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWriteAll_SeriesStayNumericAndBounded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dir))

	checkColumn := func(file, column string, lo, hi float64) {
		t.Helper()
		table, err := dataset.LoadCSV(filepath.Join(dir, file))
		require.NoError(t, err)
		idx := table.ColumnIndex(column)
		require.GreaterOrEqual(t, idx, 0, "%s missing %s", file, column)
		for _, row := range table.Rows {
			v, err := strconv.ParseFloat(row[idx], 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, lo, "%s %s", file, column)
			assert.LessOrEqual(t, v, hi, "%s %s", file, column)
		}
	}

	checkColumn("unemployment_rate_demo.csv", "unemployment_rate_pct", 3.2, 20)
	checkColumn("median_income_demo.csv", "median_income", 30000, 150000)
	checkColumn("mass_shootings_demo.csv", "incidents", 2, 200)
	checkColumn("religion_trends_demo.csv", "christian_pct", 50, 90)
	checkColumn("religion_trends_demo.csv", "catholic_pct", 15, 30)
	checkColumn("religion_trends_demo.csv", "unaffiliated_pct", 5, 40)
}

func TestWriteAll_CPIIsMonotonic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerator(DefaultSeed, nil).WriteAll(dir))

	table, err := dataset.LoadCSV(filepath.Join(dir, "cpi_index_demo.csv"))
	require.NoError(t, err)
	idx := table.ColumnIndex("cpi_index")
	require.GreaterOrEqual(t, idx, 0)

	prev := 0.0
	for _, row := range table.Rows {
		v, err := strconv.ParseFloat(row[idx], 64)
		require.NoError(t, err)
		assert.Greater(t, v, prev)
		prev = v
	}
}
