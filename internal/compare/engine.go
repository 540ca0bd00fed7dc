package compare

import (
	"fmt"
	"math"
	"sort"

	"nationaldynamics/internal/catalog"
)

// minAlignedPoints is the smallest alignment the statistics are defined over.
const minAlignedPoints = 2

// maxOutliers caps how many largest-residual points are reported.
const maxOutliers = 3

// NoClear is the collapsed classification used when the correlation is zero
// or undefined.
const NoClear = "no clear"

// Point is one aligned row: a value from each variable plus the shared year
// when the alignment carries years.
type Point struct {
	A    float64
	B    float64
	Year int
}

// Alignment is the paired subset of two variables usable for statistics.
type Alignment struct {
	Points   []Point
	HasYears bool
}

// YearRange is the inclusive year span of a year-bearing alignment.
type YearRange struct {
	Min int
	Max int
}

// Outlier is an aligned point ranked by absolute deviation from the fit.
type Outlier struct {
	Point
	Residual float64
}

// Relationship classifies correlation strength and direction. When the
// direction is unclear the strength collapses to the same label.
type Relationship struct {
	Strength  string
	Direction string
}

// Descriptor renders the classification for narrative text.
func (r Relationship) Descriptor() string {
	if r.Direction == NoClear {
		return "no clear correlation"
	}
	return r.Strength + " " + r.Direction
}

// Result is everything the presentation layer needs to render a comparison:
// scatter points, fit line, outlier markers, classification, and summary.
type Result struct {
	LabelA       string
	LabelB       string
	Alignment    Alignment
	R            float64
	RDefined     bool
	Slope        float64
	Intercept    float64
	Outliers     []Outlier
	Relationship Relationship
	YearRange    *YearRange
	Summary      string
}

// Compare aligns two catalog variables, correlates and regresses them, ranks
// outliers, and produces the narrative summary. It is a pure function of the
// catalog contents.
func Compare(cat *catalog.Catalog, keyA, keyB catalog.Key) (*Result, error) {
	if keyA == keyB {
		return nil, ErrIdenticalSelection
	}

	varA, ok := cat.Get(keyA)
	if !ok {
		return nil, &UnknownVariableError{Key: keyA}
	}
	varB, ok := cat.Get(keyB)
	if !ok {
		return nil, &UnknownVariableError{Key: keyB}
	}

	alignment := Align(varA, varB)
	if len(alignment.Points) < minAlignedPoints {
		return nil, &InsufficientDataError{Points: len(alignment.Points)}
	}

	r, rDefined := pearson(alignment.Points)
	slope, intercept := leastSquares(alignment.Points)

	result := &Result{
		LabelA:       varA.Label,
		LabelB:       varB.Label,
		Alignment:    alignment,
		R:            r,
		RDefined:     rDefined,
		Slope:        slope,
		Intercept:    intercept,
		Outliers:     rankOutliers(alignment.Points, slope, intercept),
		Relationship: classify(r, rDefined),
	}

	if alignment.HasYears {
		result.YearRange = &YearRange{
			Min: alignment.Points[0].Year,
			Max: alignment.Points[len(alignment.Points)-1].Year,
		}
	}

	result.Summary = summarize(result)
	return result, nil
}

// Align pairs two variables' values. Year-bearing pairs inner-join on year,
// ordered ascending; otherwise values pair positionally, truncated to the
// shorter series. Positional pairing of mismatched year-less series is
// intentional: index i of A pairs with index i of B regardless of what the
// rows represent.
func Align(a, b *catalog.Variable) Alignment {
	if a.HasYears() && b.HasYears() {
		return alignByYear(a, b)
	}

	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{A: a.Values[i], B: b.Values[i]}
	}
	return Alignment{Points: points}
}

func alignByYear(a, b *catalog.Variable) Alignment {
	bByYear := make(map[int]float64, b.Len())
	for i, year := range b.Years {
		if _, dup := bByYear[year]; !dup {
			bByYear[year] = b.Values[i]
		}
	}

	points := []Point{}
	seen := make(map[int]bool)
	for i, year := range a.Years {
		bVal, ok := bByYear[year]
		if !ok || seen[year] {
			continue
		}
		seen[year] = true
		points = append(points, Point{A: a.Values[i], B: bVal, Year: year})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return Alignment{Points: points, HasYears: true}
}

// pearson computes the correlation coefficient over the aligned pairs. The
// second return is false when either series has zero variance, in which case
// the correlation is undefined rather than NaN.
func pearson(points []Point) (float64, bool) {
	n := float64(len(points))
	if n == 0 {
		return 0, false
	}

	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for _, p := range points {
		sumX += p.A
		sumY += p.B
		sumXY += p.A * p.B
		sumX2 += p.A * p.A
		sumY2 += p.B * p.B
	}

	den := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if den == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / den, true
}

// leastSquares fits B on A via the normal equations. With a zero-variance A
// the slope is taken as zero and the intercept as the mean of B.
func leastSquares(points []Point) (slope, intercept float64) {
	n := float64(len(points))
	if n == 0 {
		return 0, 0
	}

	sumX, sumY, sumXY, sumX2 := 0.0, 0.0, 0.0, 0.0
	for _, p := range points {
		sumX += p.A
		sumY += p.B
		sumXY += p.A * p.B
		sumX2 += p.A * p.A
	}

	den := n*sumX2 - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// rankOutliers returns up to three points with the largest absolute residual
// against the fitted line, descending, ties kept in original row order.
func rankOutliers(points []Point, slope, intercept float64) []Outlier {
	outliers := make([]Outlier, len(points))
	for i, p := range points {
		outliers[i] = Outlier{
			Point:    p,
			Residual: math.Abs(p.B - (slope*p.A + intercept)),
		}
	}

	sort.SliceStable(outliers, func(i, j int) bool {
		return outliers[i].Residual > outliers[j].Residual
	})

	if len(outliers) > maxOutliers {
		outliers = outliers[:maxOutliers]
	}
	return outliers
}

func classify(r float64, defined bool) Relationship {
	if !defined || r == 0 {
		return Relationship{Strength: NoClear, Direction: NoClear}
	}

	magnitude := math.Abs(r)
	strength := "strong"
	if magnitude < 0.3 {
		strength = "weak"
	} else if magnitude < 0.6 {
		strength = "moderate"
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return Relationship{Strength: strength, Direction: direction}
}

func summarize(res *Result) string {
	scope := "Across available records"
	if res.YearRange != nil {
		scope = fmt.Sprintf("In year range %d–%d", res.YearRange.Min, res.YearRange.Max)
	}

	rText := "n/a"
	if res.RDefined {
		rText = fmt.Sprintf("%.2f", res.R)
	}

	return fmt.Sprintf("%s, %s and %s show a %s (r = %s).",
		scope, res.LabelA, res.LabelB, res.Relationship.Descriptor(), rText)
}
