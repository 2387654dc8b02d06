package commands

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opendata-br/dcatbr/config"
	"github.com/opendata-br/dcatbr/convert"
	"github.com/opendata-br/dcatbr/evaluate"
	"github.com/opendata-br/dcatbr/graph"
	"github.com/opendata-br/dcatbr/shacl"
)

func newEvaluateCmd(app *appContext) *cobra.Command {
	var (
		limit     int
		outputDir string
		shapesDir string
	)

	cmd := &cobra.Command{
		Use:   "evaluate <csv-path>",
		Short: "Convert and validate datasets from a flat CSV export",
		Long: `Evaluate reads a flat CSV export of portal dataset metadata, converts
each row to a DCAT-BR RDF graph, validates it against the SHACL shapes,
and writes a JSON report, a CSV summary, and one Turtle file per
successfully converted dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := app.cfg
			if outputDir == "" {
				outputDir = cfg.Output.Dir
			}
			if shapesDir == "" {
				shapesDir = cfg.Shapes.Dir
			}

			validator, err := shacl.Load(shapesDir)
			if err != nil {
				return fmt.Errorf("loading shapes: %w", err)
			}

			publisher, err := graph.Connect(cfg.NATS.URL, app.logger)
			if err != nil {
				return fmt.Errorf("connecting to NATS: %w", err)
			}
			defer publisher.Close()

			var sink evaluate.Publisher
			if publisher != nil {
				sink = publisher
			}

			pipeline := evaluate.New(converterFor(cfg), validator, sink, app.logger)
			report, err := pipeline.Run(ctx, args[0], evaluate.Options{
				OutputDir: outputDir,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			meta := report.Metadata
			fmt.Printf("Processed %d datasets: %d successful (%d valid, %d invalid), %d errors\n",
				meta.TotalDatasets, meta.Successful, meta.ValidCount, meta.InvalidCount, meta.Errors)
			fmt.Printf("Results: %s\n", report.ResultsPath)
			fmt.Printf("Summary: %s\n", report.SummaryPath)
			if report.RDFDir != "" {
				fmt.Printf("RDF files: %s\n", report.RDFDir)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", -1, "Number of datasets to process (negative for all)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for reports (default from config)")
	cmd.Flags().StringVar(&shapesDir, "shapes-dir", "", "Directory with SHACL shapes (default: embedded shapes)")
	return cmd
}

// converterFor derives the dataset IRI base from the configured portal URL.
func converterFor(cfg *config.Config) *convert.Converter {
	base := strings.TrimRight(cfg.Portal.BaseURL, "/") + "/dados/conjuntos-dados"
	return convert.New(base)
}
