package models

// CatalogEntry is one selectable variable in label order.
type CatalogEntry struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Points  int    `json:"points"`
	HasYear bool   `json:"has_year"`
}

// CatalogResponse is returned by /api/catalog.
type CatalogResponse struct {
	Variables []CatalogEntry `json:"variables"`
	Total     int            `json:"total"`
}

// ComparePoint is one aligned scatter point.
type ComparePoint struct {
	A    float64 `json:"a"`
	B    float64 `json:"b"`
	Year *int    `json:"year,omitempty"`
}

// CompareOutlier is an aligned point flagged by residual size.
type CompareOutlier struct {
	ComparePoint
	Residual float64 `json:"residual"`
}

// Relationship carries the correlation classification labels.
type Relationship struct {
	Strength   string `json:"strength"`
	Direction  string `json:"direction"`
	Descriptor string `json:"descriptor"`
}

// YearRange is the inclusive year span of a year-aligned comparison.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CompareResponse is returned by /api/compare. PearsonR is null when the
// correlation is undefined (fewer than two distinct values in a series).
type CompareResponse struct {
	KeyA         string           `json:"key_a"`
	KeyB         string           `json:"key_b"`
	LabelA       string           `json:"label_a"`
	LabelB       string           `json:"label_b"`
	Points       []ComparePoint   `json:"points"`
	PearsonR     *float64         `json:"pearson_r"`
	Slope        float64          `json:"slope"`
	Intercept    float64          `json:"intercept"`
	Outliers     []CompareOutlier `json:"outliers"`
	Relationship Relationship     `json:"relationship"`
	YearRange    *YearRange       `json:"year_range,omitempty"`
	Summary      string           `json:"summary"`
}

// ErrorResponse maps recoverable errors to user-facing guidance.
type ErrorResponse struct {
	Error    string `json:"error"`
	Guidance string `json:"guidance"`
}

// KPITile is one overview headline metric. Value and Year are null when the
// backing dataset is missing, which the client renders as a placeholder.
type KPITile struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Year  *int     `json:"year"`
}

// TrendLine is one named series within a trend chart.
type TrendLine struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// TrendSeries is a year-joined multi-line chart for the overview page.
type TrendSeries struct {
	Title  string      `json:"title"`
	Years  []int       `json:"years"`
	Series []TrendLine `json:"series"`
}

// KPIResponse is returned by /api/kpis.
type KPIResponse struct {
	Tiles  []KPITile     `json:"tiles"`
	Trends []TrendSeries `json:"trends"`
}

// SourceStatus describes one loaded dataset file.
type SourceStatus struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	DataDir   string         `json:"data_dir"`
	Sources   []SourceStatus `json:"sources"`
	Variables int            `json:"variables"`
}
