// Package evaluate runs the CSV-to-RDF validation pipeline: read dataset
// rows, convert each to a DCAT-BR graph, validate against the SHACL shape
// set, and write the run reports.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opendata-br/dcatbr/convert"
	"github.com/opendata-br/dcatbr/dataset"
	"github.com/opendata-br/dcatbr/shacl"
)

// Publisher receives per-dataset outcomes as they are produced. A nil
// publisher disables publishing.
type Publisher interface {
	PublishResult(ctx context.Context, result Result) error
}

// Options controls one pipeline run.
type Options struct {
	// OutputDir receives the reports; created with parents when absent.
	OutputDir string
	// Limit caps the number of rows processed. Zero means process
	// nothing (header-only summary); negative means all rows.
	Limit int
}

// Validation is the per-dataset SHACL outcome.
type Validation struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	ErrorsCount   int      `json:"errors_count"`
	WarningsCount int      `json:"warnings_count"`
}

// Result is the outcome for one dataset row. Status is "success" when the
// row converted and was validated (conforming or not), "error" when
// conversion or row decoding failed.
type Result struct {
	DatasetID   string      `json:"dataset_id"`
	Titulo      string      `json:"titulo"`
	Nome        string      `json:"nome"`
	Organizacao string      `json:"organizacao,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	RDF         string      `json:"rdf,omitempty"`
	Error       string      `json:"error,omitempty"`
	ProcessedAt string      `json:"processed_at"`
	Status      string      `json:"status"`
}

// Metadata summarizes a run.
type Metadata struct {
	RunID         string `json:"run_id"`
	TotalDatasets int    `json:"total_datasets"`
	Successful    int    `json:"successful"`
	Errors        int    `json:"errors"`
	ValidCount    int    `json:"valid_count"`
	InvalidCount  int    `json:"invalid_count"`
	ProcessedAt   string `json:"processed_at"`
}

// RunReport is the full outcome of one run, as written to disk.
type RunReport struct {
	Metadata Metadata `json:"metadata"`
	Results  []Result `json:"results"`
	Errors   []Result `json:"errors"`

	// Output paths, filled in after writing.
	ResultsPath string `json:"-"`
	SummaryPath string `json:"-"`
	RDFDir      string `json:"-"`
}

// Pipeline wires the converter and validator together.
type Pipeline struct {
	converter *convert.Converter
	validator *shacl.Validator
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// New builds a pipeline. publisher may be nil.
func New(converter *convert.Converter, validator *shacl.Validator, publisher Publisher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		converter: converter,
		validator: validator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes csvPath and writes the reports under opts.OutputDir.
// Validation failures never fail the run; only an unreadable input or
// unwritable output does.
func (p *Pipeline) Run(ctx context.Context, csvPath string, opts Options) (*RunReport, error) {
	records, rowErrs, err := dataset.ReadCSVFile(csvPath)
	if err != nil {
		return nil, err
	}

	if opts.Limit >= 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}
	if opts.Limit == 0 {
		rowErrs = nil
	}

	report := &RunReport{
		Metadata: Metadata{
			RunID:         uuid.NewString(),
			TotalDatasets: len(records) + len(rowErrs),
		},
	}
	p.logger.Info("starting evaluation",
		"run_id", report.Metadata.RunID,
		"csv", csvPath,
		"datasets", report.Metadata.TotalDatasets)

	for _, rowErr := range rowErrs {
		report.Errors = append(report.Errors, Result{
			DatasetID:   rowErr.ID,
			Error:       rowErr.Err.Error(),
			ProcessedAt: p.now().Format(time.RFC3339),
			Status:      "error",
		})
		p.logger.Warn("skipping undecodable row", "line", rowErr.Line, "dataset", rowErr.ID, "error", rowErr.Err)
	}

	for idx, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation interrupted: %w", err)
		}
		result := p.evaluateRecord(rec)
		p.logger.Info("processed dataset",
			"index", idx+1,
			"total", len(records),
			"dataset", result.DatasetID,
			"status", result.Status,
			"valid", result.Validation != nil && result.Validation.Valid)

		if result.Status == "success" {
			report.Results = append(report.Results, result)
		} else {
			report.Errors = append(report.Errors, result)
		}
		p.publish(ctx, result)
	}

	report.Metadata.Successful = len(report.Results)
	report.Metadata.Errors = len(report.Errors)
	for _, r := range report.Results {
		if r.Validation != nil && r.Validation.Valid {
			report.Metadata.ValidCount++
		} else {
			report.Metadata.InvalidCount++
		}
	}
	report.Metadata.ProcessedAt = p.now().Format(time.RFC3339)

	if err := p.writeReports(report, opts.OutputDir); err != nil {
		return nil, err
	}
	p.logger.Info("evaluation finished",
		"run_id", report.Metadata.RunID,
		"successful", report.Metadata.Successful,
		"errors", report.Metadata.Errors,
		"valid", report.Metadata.ValidCount,
		"invalid", report.Metadata.InvalidCount)
	return report, nil
}

func (p *Pipeline) evaluateRecord(rec dataset.Record) Result {
	result := Result{
		DatasetID:   rec.ID,
		Titulo:      rec.Titulo,
		Nome:        rec.Nome,
		Organizacao: rec.Organizacao,
		ProcessedAt: p.now().Format(time.RFC3339),
	}

	graph, err := p.converter.Convert(rec)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	ttl := graph.Turtle()
	shaclReport := p.validator.Validate(graph)

	errs := shaclReport.Errors()
	warnings := shaclReport.Warnings()
	result.Status = "success"
	result.RDF = ttl
	result.Validation = &Validation{
		Valid:         shaclReport.Conforms,
		Errors:        errs,
		Warnings:      warnings,
		ErrorsCount:   len(errs),
		WarningsCount: len(warnings),
	}
	return result
}

func (p *Pipeline) publish(ctx context.Context, result Result) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishResult(ctx, result); err != nil {
		p.logger.Warn("publishing result failed", "dataset", result.DatasetID, "error", err)
	}
}
