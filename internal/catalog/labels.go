package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LabelTable maps variable keys to curated display names. Absence is not an
// error: unlisted variables fall back to "{source} — {column}".
type LabelTable map[Key]string

// Resolve returns the curated label for key, or the synthesized default.
func (t LabelTable) Resolve(key Key) string {
	if label, ok := t[key]; ok {
		return label
	}
	return fmt.Sprintf("%s — %s", key.Source, key.Column)
}

// DefaultLabels covers the demo and fetched datasets shipped with the app.
func DefaultLabels() LabelTable {
	return LabelTable{
		{"unemployment_rate_demo.csv", "unemployment_rate_pct"}:       "Unemployment rate (demo, %)",
		{"unemployment_rate_real.csv", "unemployment_rate_pct"}:       "Unemployment rate (BLS, %)",
		{"median_income_demo.csv", "median_income"}:                   "Median household income (demo, $)",
		{"cpi_index_demo.csv", "cpi_index"}:                           "CPI (price index, demo)",
		{"violent_crime_demo.csv", "violent_crime_rate_per_100k"}:     "Violent crime rate (demo, per 100,000)",
		{"mass_shootings_demo.csv", "incidents"}:                      "Mass incidents (demo, count)",
		{"marriage_rate_demo.csv", "marriage_rate_per_1000"}:          "Marriage rate (demo, per 1,000)",
		{"marriage_rate_real.csv", "marriage_rate_per_1000_population"}: "Marriage rate (CDC, per 1,000)",
		{"mental_health_demo.csv", "depression_rate_pct"}:             "Depression rate (demo, %)",
		{"mental_health_demo.csv", "anxiety_rate_pct"}:                "Anxiety rate (demo, %)",
		{"mental_health_demo.csv", "suicide_rate_per_100k"}:           "Suicide rate (demo, per 100,000)",
		{"household_types_demo.csv", "married_couple_households"}:     "Married couple households (demo)",
		{"household_types_demo.csv", "single_parent_households"}:      "Single parent households (demo)",
		{"household_types_demo.csv", "cohabiting_couple_households"}:  "Cohabiting couple households (demo)",
		{"household_types_demo.csv", "other_households"}:              "Other households (demo)",
		{"religion_trends_demo.csv", "christian_pct"}:                 "Christian identification (demo, %)",
		{"religion_trends_demo.csv", "catholic_pct"}:                  "Catholic identification (demo, %)",
		{"religion_trends_demo.csv", "unaffiliated_pct"}:              "Unaffiliated (demo, %)",
	}
}

type labelEntry struct {
	Source string `yaml:"source"`
	Column string `yaml:"column"`
	Label  string `yaml:"label"`
}

// LoadLabels reads curated labels from a YAML file and overlays them on the
// defaults. The file is a list of {source, column, label} entries.
func LoadLabels(path string) (LabelTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []labelEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse labels file: %w", err)
	}

	table := DefaultLabels()
	for _, e := range entries {
		if e.Source == "" || e.Column == "" || e.Label == "" {
			return nil, fmt.Errorf("labels file: entry missing source, column, or label")
		}
		table[Key{Source: e.Source, Column: e.Column}] = e.Label
	}
	return table, nil
}
