package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nationaldynamics/internal/catalog"
	"nationaldynamics/internal/compare"
	"nationaldynamics/internal/dataset"
	"nationaldynamics/internal/models"
)

// tileSpec names a headline dataset column for the overview KPI row.
type tileSpec struct {
	Name   string
	Label  string
	Source string
	Column string
}

// trendSpec pairs two headline variables into a year-joined overview chart.
type trendSpec struct {
	Title string
	A     tileSpec
	B     tileSpec
}

var overviewTiles = []tileSpec{
	{"marriage_rate", "Marriage rate (per 1,000)", "marriage_rate_demo.csv", "marriage_rate_per_1000"},
	{"median_income", "Median income (USD)", "median_income_demo.csv", "median_income"},
	{"violent_crime", "Violent crime (per 100k)", "violent_crime_demo.csv", "violent_crime_rate_per_100k"},
	{"suicide_rate", "Suicide rate (per 100k)", "mental_health_demo.csv", "suicide_rate_per_100k"},
}

var overviewTrends = []trendSpec{
	{"Socio-economic trends (demo)", overviewTiles[0], overviewTiles[1]},
	{"Crime and mental health trends (demo)", overviewTiles[2], overviewTiles[3]},
}

type Handler struct {
	cache   *catalog.Cache
	dataDir string
	logger  *zap.Logger
}

func NewHandler(cache *catalog.Cache, dataDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cache: cache, dataDir: dataDir, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/api/catalog", h.GetCatalog)
	r.Get("/api/compare", h.GetComparison)
	r.Get("/api/kpis", h.GetKPIs)
	r.Get("/api/status", h.GetStatus)
	r.Get("/api/preview", h.GetPreview)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Catalog
// ============================================================================

// GetCatalog returns every selectable variable, sorted by display label.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cat := h.cache.Catalog()

	entries := []models.CatalogEntry{}
	for _, v := range cat.Variables() {
		entries = append(entries, models.CatalogEntry{
			Key:     v.Key.String(),
			Label:   v.Label,
			Points:  v.Len(),
			HasYear: v.HasYears(),
		})
	}

	h.writeJSON(w, models.CatalogResponse{Variables: entries, Total: len(entries)})
}

// ============================================================================
// Comparison
// ============================================================================

// GetComparison runs the comparison engine for the two variables named by the
// a and b query parameters. Selection and insufficient-data errors come back
// as 400s with guidance text; they are expected conditions, not faults.
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	rawA := r.URL.Query().Get("a")
	rawB := r.URL.Query().Get("b")
	if rawA == "" || rawB == "" {
		writeError(w, http.StatusBadRequest, "missing variable selection",
			"Pick two variables to generate the scatter plot and summary.")
		return
	}

	keyA, okA := catalog.ParseKey(rawA)
	keyB, okB := catalog.ParseKey(rawB)
	if !okA || !okB {
		writeError(w, http.StatusBadRequest, "malformed variable key",
			"Variable keys use the form source:column. Choose variables from the catalog list.")
		return
	}

	result, err := compare.Compare(h.cache.Catalog(), keyA, keyB)
	if err != nil {
		h.writeCompareError(w, err)
		return
	}

	h.writeJSON(w, toCompareResponse(keyA, keyB, result))
}

func (h *Handler) writeCompareError(w http.ResponseWriter, err error) {
	var unknown *compare.UnknownVariableError
	var insufficient *compare.InsufficientDataError

	switch {
	case errors.Is(err, compare.ErrIdenticalSelection):
		writeError(w, http.StatusBadRequest, err.Error(),
			"Please select two different variables.")
	case errors.As(err, &unknown):
		writeError(w, http.StatusBadRequest, err.Error(),
			"Selected variables could not be loaded. Please choose another combination.")
	case errors.As(err, &insufficient):
		writeError(w, http.StatusBadRequest, err.Error(),
			"Not enough overlapping data points to compute the correlation. Try another pair.")
	default:
		h.logger.Error("comparison failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "comparison failed",
			"Something went wrong computing the comparison.")
	}
}

func toCompareResponse(keyA, keyB catalog.Key, result *compare.Result) models.CompareResponse {
	resp := models.CompareResponse{
		KeyA:      keyA.String(),
		KeyB:      keyB.String(),
		LabelA:    result.LabelA,
		LabelB:    result.LabelB,
		Points:    []models.ComparePoint{},
		Slope:     result.Slope,
		Intercept: result.Intercept,
		Outliers:  []models.CompareOutlier{},
		Relationship: models.Relationship{
			Strength:   result.Relationship.Strength,
			Direction:  result.Relationship.Direction,
			Descriptor: result.Relationship.Descriptor(),
		},
		Summary: result.Summary,
	}

	if result.RDefined {
		r := result.R
		resp.PearsonR = &r
	}
	if result.YearRange != nil {
		resp.YearRange = &models.YearRange{Min: result.YearRange.Min, Max: result.YearRange.Max}
	}

	for _, p := range result.Alignment.Points {
		resp.Points = append(resp.Points, toComparePoint(p, result.Alignment.HasYears))
	}
	for _, o := range result.Outliers {
		resp.Outliers = append(resp.Outliers, models.CompareOutlier{
			ComparePoint: toComparePoint(o.Point, result.Alignment.HasYears),
			Residual:     o.Residual,
		})
	}
	return resp
}

func toComparePoint(p compare.Point, hasYears bool) models.ComparePoint {
	point := models.ComparePoint{A: p.A, B: p.B}
	if hasYears {
		year := p.Year
		point.Year = &year
	}
	return point
}

// ============================================================================
// KPIs
// ============================================================================

// GetKPIs returns the overview headline tiles (most recent year per dataset)
// and the two year-joined trend charts. Missing datasets produce placeholder
// tiles rather than errors.
func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	cat := h.cache.Catalog()

	resp := models.KPIResponse{Tiles: []models.KPITile{}, Trends: []models.TrendSeries{}}

	for _, spec := range overviewTiles {
		tile := models.KPITile{Name: spec.Name, Label: spec.Label}
		if v, ok := cat.Get(catalog.Key{Source: spec.Source, Column: spec.Column}); ok {
			if value, year, ok := latestValue(v); ok {
				tile.Value = &value
				tile.Year = &year
			}
		}
		resp.Tiles = append(resp.Tiles, tile)
	}

	for _, spec := range overviewTrends {
		varA, okA := cat.Get(catalog.Key{Source: spec.A.Source, Column: spec.A.Column})
		varB, okB := cat.Get(catalog.Key{Source: spec.B.Source, Column: spec.B.Column})
		if !okA || !okB || !varA.HasYears() || !varB.HasYears() {
			continue
		}

		alignment := compare.Align(varA, varB)
		if len(alignment.Points) == 0 {
			continue
		}

		trend := models.TrendSeries{
			Title: spec.Title,
			Years: make([]int, len(alignment.Points)),
			Series: []models.TrendLine{
				{Name: spec.A.Label, Values: make([]float64, len(alignment.Points))},
				{Name: spec.B.Label, Values: make([]float64, len(alignment.Points))},
			},
		}
		for i, p := range alignment.Points {
			trend.Years[i] = p.Year
			trend.Series[0].Values[i] = p.A
			trend.Series[1].Values[i] = p.B
		}
		resp.Trends = append(resp.Trends, trend)
	}

	h.writeJSON(w, resp)
}

// latestValue returns the value at the variable's most recent year.
func latestValue(v *catalog.Variable) (float64, int, bool) {
	if !v.HasYears() || v.Len() == 0 {
		return 0, 0, false
	}

	bestIdx := 0
	for i, year := range v.Years {
		if year > v.Years[bestIdx] {
			bestIdx = i
		}
	}
	return v.Values[bestIdx], v.Years[bestIdx], true
}

// ============================================================================
// Status / Preview
// ============================================================================

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{
		DataDir:   h.dataDir,
		Sources:   []models.SourceStatus{},
		Variables: h.cache.Catalog().Len(),
	}

	paths, err := dataset.ListCSVFiles(h.dataDir)
	if err != nil {
		h.logger.Warn("status scan failed", zap.String("dir", h.dataDir), zap.Error(err))
	}
	for _, path := range paths {
		table, err := dataset.LoadCSV(path)
		if err != nil {
			continue
		}
		resp.Sources = append(resp.Sources, models.SourceStatus{
			Name:    table.Name,
			Rows:    len(table.Rows),
			Columns: len(table.Headers),
		})
	}

	h.writeJSON(w, resp)
}

// GetPreview returns the first rows of one CSV source as keyed records.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" || source != filepath.Base(source) {
		writeError(w, http.StatusBadRequest, "invalid source",
			"Pass a dataset filename from /api/status as the source parameter.")
		return
	}
	rows := getIntParam(r, "rows", 10)

	table, err := dataset.LoadCSV(filepath.Join(h.dataDir, source))
	if err != nil {
		writeError(w, http.StatusNotFound, "source not loaded",
			"The requested dataset is missing or unreadable. Check /api/status for available sources.")
		return
	}

	limit := rows
	if limit < 0 {
		limit = 0
	}
	if limit > len(table.Rows) {
		limit = len(table.Rows)
	}

	data := make([]map[string]interface{}, limit)
	for i := 0; i < limit; i++ {
		record := make(map[string]interface{})
		for j, header := range table.Headers {
			if j < len(table.Rows[i]) {
				record[header] = table.Rows[i][j]
			} else {
				record[header] = ""
			}
		}
		data[i] = record
	}

	h.writeJSON(w, data)
}

// ============================================================================
// Helpers
// ============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message, guidance string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, Guidance: guidance})
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
