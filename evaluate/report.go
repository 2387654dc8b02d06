package evaluate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// summaryHeader mirrors the columns downstream spreadsheets expect.
var summaryHeader = []string{
	"dataset_id",
	"titulo",
	"organizacao",
	"status",
	"valid",
	"errors_count",
	"warnings_count",
	"errors",
	"warnings",
	"error",
}

const (
	summaryListLimit = 5
	summaryFieldCap  = 500
)

// writeReports writes the JSON results, the CSV summary and one .ttl per
// successfully converted dataset.
func (p *Pipeline) writeReports(report *RunReport, outputDir string) error {
	if outputDir == "" {
		outputDir = "results"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	stamp := p.now().Format("20060102_150405")

	report.ResultsPath = filepath.Join(outputDir, "validation_results_"+stamp+".json")
	if err := writeJSON(report.ResultsPath, report); err != nil {
		return err
	}

	report.SummaryPath = filepath.Join(outputDir, "validation_summary_"+stamp+".csv")
	if err := writeSummaryCSV(report.SummaryPath, report); err != nil {
		return err
	}

	report.RDFDir = filepath.Join(outputDir, "rdf_files")
	if err := os.MkdirAll(report.RDFDir, 0o755); err != nil {
		return fmt.Errorf("creating RDF directory: %w", err)
	}
	for _, result := range report.Results {
		path := filepath.Join(report.RDFDir, result.DatasetID+".ttl")
		if err := os.WriteFile(path, []byte(result.RDF), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func writeJSON(path string, report *RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reportJSON(report)); err != nil {
		return fmt.Errorf("writing results JSON: %w", err)
	}
	return f.Close()
}

// reportJSON keeps the results/errors arrays non-null in the output even
// when empty.
func reportJSON(report *RunReport) map[string]any {
	results := report.Results
	if results == nil {
		results = []Result{}
	}
	errs := report.Errors
	if errs == nil {
		errs = []Result{}
	}
	return map[string]any{
		"metadata": report.Metadata,
		"results":  results,
		"errors":   errs,
	}
}

func writeSummaryCSV(path string, report *RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}

	for _, result := range report.Results {
		v := result.Validation
		row := []string{
			result.DatasetID,
			result.Titulo,
			result.Organizacao,
			result.Status,
			strconv.FormatBool(v.Valid),
			strconv.Itoa(v.ErrorsCount),
			strconv.Itoa(v.WarningsCount),
			summarizeList(v.Errors),
			summarizeList(v.Warnings),
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for _, result := range report.Errors {
		row := []string{
			result.DatasetID,
			result.Titulo,
			"",
			result.Status,
			"", "", "", "", "",
			result.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing summary CSV: %w", err)
	}
	return f.Close()
}

// summarizeList joins the first few messages and caps the field length so
// the summary stays readable in a spreadsheet.
func summarizeList(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	shown := messages
	if len(shown) > summaryListLimit {
		shown = shown[:summaryListLimit]
	}
	s := strings.Join(shown, "; ")
	if len(messages) > summaryListLimit {
		s += fmt.Sprintf(" ... (+%d more)", len(messages)-summaryListLimit)
	}
	if len(s) > summaryFieldCap {
		s = s[:summaryFieldCap] + "..."
	}
	return s
}
