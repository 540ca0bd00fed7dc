package demo

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// DefaultSeed keeps demo output stable across regenerations.
const DefaultSeed = 42

const commentHeader = "# SYNTHETIC demo data for illustration only. Generated by the seed command."

// Generator produces the synthetic indicator CSVs used to populate the demo
// dashboard. All series derive from three latent drivers so that cross-dataset
// correlations exist to find.
type Generator struct {
	rng    *rand.Rand
	logger *zap.Logger
}

func NewGenerator(seed int64, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), logger: logger}
}

type drivers struct {
	economicStress []float64
	socialCohesion []float64
	secularization []float64
}

// WriteAll writes the nine demo datasets, covering 2000 through 2024, to dir.
func (g *Generator) WriteAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	years := yearSpan(2000, 2024)
	d := g.makeDrivers(years)

	files := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{"marriage_rate_demo.csv", []string{"year", "marriage_rate_per_1000"}, g.marriageRate(years, d)},
		{"median_income_demo.csv", []string{"year", "median_income"}, g.medianIncome(years, d)},
		{"unemployment_rate_demo.csv", []string{"year", "unemployment_rate_pct"}, g.unemployment(years, d)},
		{"cpi_index_demo.csv", []string{"year", "cpi_index"}, g.cpi(years)},
		{"violent_crime_demo.csv", []string{"year", "violent_crime_rate_per_100k"}, g.violentCrime(years, d)},
		{"mass_shootings_demo.csv", []string{"year", "incidents"}, g.massShootings(years, d)},
		{"mental_health_demo.csv", []string{"year", "depression_rate_pct", "anxiety_rate_pct", "suicide_rate_per_100k"}, g.mentalHealth(years, d)},
		{"household_types_demo.csv", []string{"year", "married_couple_households", "single_parent_households", "cohabiting_couple_households", "other_households"}, g.householdTypes(years)},
		{"religion_trends_demo.csv", []string{"year", "christian_pct", "catholic_pct", "unaffiliated_pct"}, g.religionTrends(years, d)},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.headers, f.rows); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		g.logger.Info("wrote demo dataset", zap.String("path", path), zap.Int("rows", len(f.rows)))
	}
	return nil
}

func (g *Generator) makeDrivers(years []int) drivers {
	n := len(years)
	y0 := float64(years[0])
	centered := make([]float64, n)
	mean := 0.0
	for _, y := range years {
		mean += float64(y)
	}
	mean /= float64(n)
	for i, y := range years {
		centered[i] = float64(y) - mean
	}
	sd := stddev(centered)

	stress := make([]float64, n)
	cohesion := make([]float64, n)
	secular := make([]float64, n)
	for i, y := range years {
		fy := float64(y)
		recession2008 := 1.4 * math.Exp(-0.5*math.Pow((fy-2009)/1.2, 2))
		recession2020 := 1.6 * math.Exp(-0.5*math.Pow((fy-2020)/0.9, 2))
		stress[i] = 0.1*centered[i]/sd + recession2008 + recession2020 + g.normal(0, 0.15)

		socialTrend := -0.012 * (fy - y0)
		post2010 := -0.0015 * math.Pow(math.Max(0, fy-2010), 1.2)
		cohesion[i] = 1.0 + socialTrend + post2010 + g.normal(0, 0.02)

		secularCurve := 1 / (1 + math.Exp(-0.25*(fy-2012)))
		secular[i] = 0.3 + 0.6*secularCurve + g.normal(0, 0.02)
	}

	return drivers{economicStress: stress, socialCohesion: cohesion, secularization: secular}
}

func (g *Generator) marriageRate(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0 := float64(years[0])
	for i, y := range years {
		fy := float64(y)
		decline := 8.6 - 0.1*(fy-y0)
		curvature := -0.08 * math.Pow((fy-2012)/8, 2)
		rate := decline + curvature - 0.25*d.economicStress[i] + g.normal(0, 0.05)
		rows[i] = []string{itoa(y), ftoa(rate, 2)}
	}
	return rows
}

func (g *Generator) medianIncome(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0, yN := float64(years[0]), float64(years[len(years)-1])
	for i, y := range years {
		fy := float64(y)
		base := 45000 + (fy-y0)*(72000-45000)/(yN-y0)
		midAccel := 1400 * math.Max(0, fy-2013) / (yN - 2013)
		income := base + midAccel - 2500*d.economicStress[i] + g.normal(0, 900)
		income = math.Max(income, 30000)
		rows[i] = []string{itoa(y), itoa(int(math.Round(income)))}
	}
	return rows
}

func (g *Generator) unemployment(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0 := float64(years[0])
	for i, y := range years {
		fy := float64(y)
		base := 4.6 + 0.05*math.Sin(0.5*(fy-y0))
		spikes := 3.8*math.Exp(-0.5*math.Pow(fy-2009, 2)) + 3.5*math.Exp(-0.5*math.Pow((fy-2020)/0.8, 2))
		rate := base + spikes + 0.6*d.economicStress[i] + g.normal(0, 0.25)
		rate = math.Max(rate, 3.2)
		rows[i] = []string{itoa(y), ftoa(rate, 2)}
	}
	return rows
}

func (g *Generator) cpi(years []int) [][]string {
	rows := make([][]string, len(years))
	y0, yN := float64(years[0]), float64(years[len(years)-1])
	index := 100.0
	for i, y := range years {
		fy := float64(y)
		growth := 1.7 + 0.03*(fy-y0)/(yN-y0)
		if fy >= 2020 {
			growth += 0.8
		}
		growth += g.normal(0.05, 0.03)
		growth = math.Max(growth, 0.5)
		index += growth
		rows[i] = []string{itoa(y), ftoa(index, 2)}
	}
	return rows
}

func (g *Generator) violentCrime(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0, yN := float64(years[0]), float64(years[len(years)-1])
	for i, y := range years {
		fy := float64(y)
		decline := 500 - (fy-y0)*(140/(yN-y0))
		slowdown := 8 * math.Log1p(math.Max(0, fy-2010))
		leveling := math.Sqrt(6 * math.Max(0, fy-2015))
		rate := decline + slowdown + 0.8*d.economicStress[i]*10 + leveling + g.normal(0, 8)
		rows[i] = []string{itoa(y), ftoa(rate, 1)}
	}
	return rows
}

func (g *Generator) massShootings(years []int, d drivers) [][]string {
	minSecular := math.Inf(1)
	for _, s := range d.secularization {
		minSecular = math.Min(minSecular, s)
	}

	rows := make([][]string, len(years))
	y0 := float64(years[0])
	for i, y := range years {
		fy := float64(y)
		base := 6 + 1.9*math.Pow(fy-y0, 1.05)/10
		incidents := base + 4*d.economicStress[i] + 5*(d.secularization[i]-minSecular) + g.normal(0, 3.0)
		incidents = math.Max(math.Round(incidents), 2)
		rows[i] = []string{itoa(y), itoa(int(incidents))}
	}
	return rows
}

func (g *Generator) mentalHealth(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0 := float64(years[0])
	for i, y := range years {
		fy := float64(y)
		depression := 6.2 + 0.22*(fy-y0)/1.2 +
			0.9*d.economicStress[i] + 1.1*(d.secularization[i]-0.3) + g.normal(0, 0.2)
		anxiety := 8.5 + 0.32*(fy-y0)/1.15 +
			1.0*d.economicStress[i] + 1.4*(d.secularization[i]-0.35) + g.normal(0, 0.25)
		suicide := 10.2 + 0.18*(fy-y0) +
			0.55*d.economicStress[i] + 0.25*(d.secularization[i]-0.3) + g.normal(0, 0.3)
		rows[i] = []string{itoa(y), ftoa(depression, 2), ftoa(anxiety, 2), ftoa(suicide, 2)}
	}
	return rows
}

func (g *Generator) householdTypes(years []int) [][]string {
	n := len(years)
	y0 := float64(years[0])

	total := make([]float64, n)
	married := make([]float64, n)
	singleParent := make([]float64, n)
	cohabiting := make([]float64, n)
	rawOther := make([]float64, n)
	rawOtherMean := 0.0

	for i, y := range years {
		fy := float64(y)
		total[i] = 79_500_000 + 480_000*(fy-y0) + 120_000*math.Sin(0.3*(fy-y0))
		married[i] = 0.56 - 0.005*(fy-y0) - 0.0002*math.Pow(fy-2010, 2)/100
		singleParent[i] = 0.15 + 0.0018*(fy-y0) + 0.0006*math.Pow(fy-2010, 2)/150
		cohabiting[i] = 0.06 + 0.0025*(fy-y0) + 0.0008*(fy-2012)
		rawOther[i] = 1 - (married[i] + singleParent[i] + cohabiting[i])
		rawOtherMean += rawOther[i]
	}
	rawOtherMean /= float64(n)

	rows := make([][]string, n)
	for i, y := range years {
		adjustment := rawOtherMean - rawOther[i]
		marriedShare := married[i] + 0.25*adjustment
		singleShare := singleParent[i] + 0.15*adjustment
		cohabShare := cohabiting[i] + 0.15*adjustment

		marriedN := int(math.Round(total[i] * marriedShare))
		singleN := int(math.Round(total[i] * singleShare))
		cohabN := int(math.Round(total[i] * cohabShare))
		otherN := int(math.Max(total[i]-float64(marriedN+singleN+cohabN), 0))

		rows[i] = []string{itoa(y), itoa(marriedN), itoa(singleN), itoa(cohabN), itoa(otherN)}
	}
	return rows
}

func (g *Generator) religionTrends(years []int, d drivers) [][]string {
	rows := make([][]string, len(years))
	y0 := float64(years[0])
	for i, y := range years {
		fy := float64(y)
		christian := 78 - 0.55*(fy-y0) - 0.08*math.Pow(fy-2010, 2)/50 -
			0.8*(d.secularization[i]-0.3)*10
		catholic := 24 - 0.1*(fy-y0) + math.Sin(0.15*(fy-y0)) -
			0.1*(d.secularization[i]-0.3)*5
		unaffiliated := 12 + 16/(1+math.Exp(-0.2*(fy-2012))) +
			1.2*(d.secularization[i]-0.3)*10

		christian = clamp(christian, 50, 90)
		catholic = clamp(catholic, 15, 30)
		unaffiliated = clamp(unaffiliated, 5, 40)

		rows[i] = []string{itoa(y), ftoa(christian, 2), ftoa(catholic, 2), ftoa(unaffiliated, 2)}
	}
	return rows
}

func (g *Generator) normal(mean, sd float64) float64 {
	return g.rng.NormFloat64()*sd + mean
}

func writeCSV(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, commentHeader); err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func yearSpan(first, last int) []int {
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

func stddev(vals []float64) float64 {
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(vals)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}
