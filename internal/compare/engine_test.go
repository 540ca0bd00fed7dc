package compare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nationaldynamics/internal/catalog"
)

func yearVar(source, column string, years []int, values []float64) *catalog.Variable {
	return &catalog.Variable{
		Key:    catalog.Key{Source: source, Column: column},
		Label:  source + " — " + column,
		Years:  years,
		Values: values,
	}
}

func plainVar(source, column string, values []float64) *catalog.Variable {
	return &catalog.Variable{
		Key:    catalog.Key{Source: source, Column: column},
		Label:  source + " — " + column,
		Values: values,
	}
}

func key(source, column string) catalog.Key {
	return catalog.Key{Source: source, Column: column}
}

func TestCompare_IdenticalSelection(t *testing.T) {
	cat := catalog.New(plainVar("a.csv", "x", []float64{1, 2, 3}))

	_, err := Compare(cat, key("a.csv", "x"), key("a.csv", "x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIdenticalSelection))
}

func TestCompare_UnknownVariable(t *testing.T) {
	cat := catalog.New(plainVar("a.csv", "x", []float64{1, 2, 3}))

	_, err := Compare(cat, key("a.csv", "x"), key("missing.csv", "z"))
	require.Error(t, err)

	var unknown *UnknownVariableError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, key("missing.csv", "z"), unknown.Key)
}

func TestCompare_SingleOverlappingYear(t *testing.T) {
	cat := catalog.New(
		yearVar("a.csv", "x", []int{2000, 2001, 2002}, []float64{1, 2, 3}),
		yearVar("b.csv", "y", []int{2002, 2003, 2004}, []float64{4, 5, 6}),
	)

	_, err := Compare(cat, key("a.csv", "x"), key("b.csv", "y"))
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 1, insufficient.Points)
}

func TestAlign_YearInnerJoin(t *testing.T) {
	// B's years are deliberately unsorted and partially overlapping.
	a := yearVar("a.csv", "x", []int{2000, 2001, 2002, 2003}, []float64{10, 11, 12, 13})
	b := yearVar("b.csv", "y", []int{2003, 2001, 2002, 2010}, []float64{23, 21, 22, 30})

	alignment := Align(a, b)
	require.True(t, alignment.HasYears)
	require.Len(t, alignment.Points, 3)

	aYears := map[int]bool{2000: true, 2001: true, 2002: true, 2003: true}
	bYears := map[int]bool{2003: true, 2001: true, 2002: true, 2010: true}

	prev := alignment.Points[0].Year
	for i, p := range alignment.Points {
		assert.True(t, aYears[p.Year], "year %d not in A", p.Year)
		assert.True(t, bYears[p.Year], "year %d not in B", p.Year)
		if i > 0 {
			assert.Greater(t, p.Year, prev, "years must ascend")
			prev = p.Year
		}
	}

	assert.Equal(t, Point{A: 11, B: 21, Year: 2001}, alignment.Points[0])
	assert.Equal(t, Point{A: 12, B: 22, Year: 2002}, alignment.Points[1])
	assert.Equal(t, Point{A: 13, B: 23, Year: 2003}, alignment.Points[2])
	assert.LessOrEqual(t, len(alignment.Points), min(a.Len(), b.Len()))
}

func TestAlign_PositionalFallback(t *testing.T) {
	a := plainVar("a.csv", "x", []float64{1, 2, 3, 4, 5})
	b := plainVar("b.csv", "y", []float64{2, 4, 6, 8, 10})

	alignment := Align(a, b)
	assert.False(t, alignment.HasYears)
	require.Len(t, alignment.Points, 5)
	for i, p := range alignment.Points {
		assert.Equal(t, a.Values[i], p.A)
		assert.Equal(t, b.Values[i], p.B)
	}
}

func TestAlign_PositionalTruncatesToShorter(t *testing.T) {
	a := plainVar("a.csv", "x", []float64{1, 2, 3, 4, 5, 6, 7})
	b := plainVar("b.csv", "y", []float64{9, 8, 7})

	alignment := Align(a, b)
	assert.Len(t, alignment.Points, 3)
}

func TestAlign_MixedYearsFallsBackToPosition(t *testing.T) {
	a := yearVar("a.csv", "x", []int{2000, 2001}, []float64{1, 2})
	b := plainVar("b.csv", "y", []float64{5, 6, 7})

	alignment := Align(a, b)
	assert.False(t, alignment.HasYears)
	assert.Len(t, alignment.Points, 2)
}

func TestCompare_NoYearResultOmitsYearRange(t *testing.T) {
	cat := catalog.New(
		plainVar("a.csv", "x", []float64{1, 2, 3, 4, 5}),
		plainVar("b.csv", "y", []float64{2, 4, 6, 8, 10}),
	)

	result, err := Compare(cat, key("a.csv", "x"), key("b.csv", "y"))
	require.NoError(t, err)
	assert.Nil(t, result.YearRange)
	assert.Len(t, result.Alignment.Points, 5)
	assert.Contains(t, result.Summary, "Across available records")
}

func TestPearson_SymmetryAndSelf(t *testing.T) {
	a := []float64{3.1, 4.7, 2.2, 9.0, 5.5}
	b := []float64{1.0, 2.5, 0.4, 7.7, 3.3}

	forward := make([]Point, len(a))
	backward := make([]Point, len(a))
	self := make([]Point, len(a))
	for i := range a {
		forward[i] = Point{A: a[i], B: b[i]}
		backward[i] = Point{A: b[i], B: a[i]}
		self[i] = Point{A: a[i], B: a[i]}
	}

	rAB, ok := pearson(forward)
	require.True(t, ok)
	rBA, ok := pearson(backward)
	require.True(t, ok)
	assert.InDelta(t, rAB, rBA, 1e-12)

	rAA, ok := pearson(self)
	require.True(t, ok)
	assert.InDelta(t, 1.0, rAA, 1e-12)
}

func TestPearson_ZeroVarianceUndefined(t *testing.T) {
	points := []Point{{A: 5, B: 1}, {A: 5, B: 2}, {A: 5, B: 3}}
	_, ok := pearson(points)
	assert.False(t, ok)
}

func TestLeastSquares_TwoPointsExactFit(t *testing.T) {
	points := []Point{{A: 1, B: 3}, {A: 4, B: 9}}
	slope, intercept := leastSquares(points)

	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)
	for _, p := range points {
		assert.InDelta(t, p.B, slope*p.A+intercept, 1e-12)
	}
}

func TestCompare_TwoPointsZeroResiduals(t *testing.T) {
	cat := catalog.New(
		yearVar("a.csv", "x", []int{2000, 2001}, []float64{1, 4}),
		yearVar("b.csv", "y", []int{2000, 2001}, []float64{3, 9}),
	)

	result, err := Compare(cat, key("a.csv", "x"), key("b.csv", "y"))
	require.NoError(t, err)
	require.Len(t, result.Outliers, 2)
	for _, o := range result.Outliers {
		assert.InDelta(t, 0, o.Residual, 1e-9)
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		r         float64
		defined   bool
		strength  string
		direction string
	}{
		{"just below weak/moderate", 0.29, true, "weak", "positive"},
		{"weak/moderate boundary", 0.30, true, "moderate", "positive"},
		{"just below moderate/strong", 0.59, true, "moderate", "positive"},
		{"moderate/strong boundary", 0.60, true, "strong", "positive"},
		{"perfect", 1.0, true, "strong", "positive"},
		{"negative moderate", -0.45, true, "moderate", "negative"},
		{"zero collapses", 0.0, true, NoClear, NoClear},
		{"undefined collapses", 0.8, false, NoClear, NoClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := classify(tt.r, tt.defined)
			assert.Equal(t, tt.strength, rel.Strength)
			assert.Equal(t, tt.direction, rel.Direction)
		})
	}
}

func TestRankOutliers_OrderAndCap(t *testing.T) {
	// Fit line y = 0 makes each residual equal to |B|.
	points := []Point{
		{A: 0, B: 1}, {A: 1, B: 5}, {A: 2, B: 2}, {A: 3, B: 9}, {A: 4, B: 3},
	}

	outliers := rankOutliers(points, 0, 0)
	require.Len(t, outliers, 3)
	assert.Equal(t, 9.0, outliers[0].Residual)
	assert.Equal(t, 5.0, outliers[1].Residual)
	assert.Equal(t, 3.0, outliers[2].Residual)
}

func TestRankOutliers_StableTies(t *testing.T) {
	points := []Point{
		{A: 0, B: 4}, {A: 1, B: 4}, {A: 2, B: 4}, {A: 3, B: 1},
	}

	outliers := rankOutliers(points, 0, 0)
	require.Len(t, outliers, 3)
	// Ties keep original row order.
	assert.Equal(t, 0.0, outliers[0].A)
	assert.Equal(t, 1.0, outliers[1].A)
	assert.Equal(t, 2.0, outliers[2].A)
}

func TestRankOutliers_FewerThanThree(t *testing.T) {
	points := []Point{{A: 0, B: 1}, {A: 1, B: 2}}
	assert.Len(t, rankOutliers(points, 0, 0), 2)
}

func TestCompare_ZeroVarianceReportsNoClear(t *testing.T) {
	cat := catalog.New(
		yearVar("a.csv", "x", []int{2000, 2001, 2002}, []float64{5, 5, 5}),
		yearVar("b.csv", "y", []int{2000, 2001, 2002}, []float64{1, 2, 3}),
	)

	result, err := Compare(cat, key("a.csv", "x"), key("b.csv", "y"))
	require.NoError(t, err)
	assert.False(t, result.RDefined)
	assert.Equal(t, NoClear, result.Relationship.Strength)
	assert.Equal(t, NoClear, result.Relationship.Direction)
	assert.Contains(t, result.Summary, "no clear correlation")
	assert.Contains(t, result.Summary, "(r = n/a)")
}

func TestCompare_SummaryWithYearRange(t *testing.T) {
	cat := catalog.New(
		yearVar("a.csv", "x", []int{2000, 2001, 2002, 2003}, []float64{1, 2, 3, 4}),
		yearVar("b.csv", "y", []int{2000, 2001, 2002, 2003}, []float64{2, 4, 6, 8}),
	)

	result, err := Compare(cat, key("a.csv", "x"), key("b.csv", "y"))
	require.NoError(t, err)
	require.NotNil(t, result.YearRange)
	assert.Equal(t, 2000, result.YearRange.Min)
	assert.Equal(t, 2003, result.YearRange.Max)
	assert.Equal(t,
		"In year range 2000–2003, a.csv — x and b.csv — y show a strong positive (r = 1.00).",
		result.Summary)
}
