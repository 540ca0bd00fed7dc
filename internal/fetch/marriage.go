package fetch

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultMarriageSourceURL is the CDC/NCHS national marriage rate PDF.
const DefaultMarriageSourceURL = "https://www.cdc.gov/nchs/data/dvs/state_marriage_rates_1900-2020.pdf"

const marriageOutputFile = "marriage_rate_real.csv"

// marriageRate is one year of the national marriage rate per 1,000 population.
type marriageRate struct {
	Year int
	Rate float64
}

// cdcMarriageRates are transcribed from the CDC/NCHS National Vital Statistics
// PDF. The PDF's tables resist automated extraction, so this table is the
// source of record and the download is kept only for provenance.
var cdcMarriageRates = []marriageRate{
	{2000, 8.2}, {2001, 8.4}, {2002, 8.0}, {2003, 7.8}, {2004, 7.8},
	{2005, 7.6}, {2006, 7.5}, {2007, 7.5}, {2008, 7.1}, {2009, 6.8},
	{2010, 6.8}, {2011, 6.8}, {2012, 6.8}, {2013, 6.8}, {2014, 6.9},
	{2015, 6.9}, {2016, 6.9}, {2017, 6.9}, {2018, 6.5}, {2019, 6.1},
	{2020, 5.1},
}

// MarriageFetcher prepares data/marriage_rate_real.csv from the CDC national
// vital statistics source.
type MarriageFetcher struct {
	SourceURL string
	Client    *http.Client
	Logger    *zap.Logger
}

func NewMarriageFetcher(logger *zap.Logger) *MarriageFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarriageFetcher{
		SourceURL: DefaultMarriageSourceURL,
		Client:    &http.Client{Timeout: 60 * time.Second},
		Logger:    logger,
	}
}

// Run downloads the source PDF into dataDir when reachable and writes the
// marriage rate CSV. A failed download is logged and does not fail the run.
func (f *MarriageFetcher) Run(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pdfPath := filepath.Join(dataDir, filepath.Base(f.SourceURL))
	if err := f.download(pdfPath); err != nil {
		f.Logger.Warn("could not download CDC source PDF, continuing with transcribed rates",
			zap.String("url", f.SourceURL), zap.Error(err))
	} else {
		f.Logger.Info("saved CDC source PDF", zap.String("path", pdfPath))
	}

	outPath := filepath.Join(dataDir, marriageOutputFile)
	if err := f.writeCSV(outPath); err != nil {
		return err
	}
	f.Logger.Info("wrote marriage rate dataset",
		zap.String("path", outPath), zap.Int("rows", len(cdcMarriageRates)))
	return nil
}

func (f *MarriageFetcher) download(target string) error {
	req, err := http.NewRequest(http.MethodGet, f.SourceURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}

	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}

func (f *MarriageFetcher) writeCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	comment := "# REAL national marriage rates from CDC/NCHS National Vital Statistics. " +
		"Generated by the fetch marriage command."
	if _, err := fmt.Fprintln(file, comment); err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"year", "marriage_rate_per_1000_population"}); err != nil {
		return err
	}
	for _, r := range cdcMarriageRates {
		record := []string{
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.Rate, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
