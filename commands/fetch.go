package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opendata-br/dcatbr/portal"
)

func newFetchCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch dataset metadata from the portal API",
	}
	cmd.AddCommand(newFetchListCmd(app), newFetchDetailsCmd(app))
	return cmd
}

func newFetchListCmd(app *appContext) *cobra.Command {
	var (
		query   string
		max     int
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets from the portal search API",
		Long: `List pages through the portal search endpoint and writes the dataset
identifiers, titles, slugs and organizations to a CSV file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := portalClient(app)
			entries, err := client.FetchList(ctx, query, max)
			if err != nil {
				return err
			}
			if err := portal.WriteList(outPath, entries); err != nil {
				return err
			}
			fmt.Printf("Wrote %d datasets to %s\n", len(entries), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Filter datasets by name")
	cmd.Flags().IntVar(&max, "max", 0, "Maximum number of datasets to fetch (0 for all)")
	cmd.Flags().StringVar(&outPath, "output", "lista_conjuntos.csv", "Output CSV file")
	return cmd
}

func newFetchDetailsCmd(app *appContext) *cobra.Command {
	var (
		inPath  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Fetch full dataset details and flatten them to the 5k CSV layout",
		Long: `Details reads a dataset list produced by "fetch list", retrieves the
full metadata of each dataset and writes one flat CSV row per dataset.
Datasets whose detail request fails are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			entries, err := portal.ReadList(inPath)
			if err != nil {
				return fmt.Errorf("reading dataset list: %w", err)
			}

			client := portalClient(app)
			rows, err := client.FetchAllDetails(ctx, entries)
			if err != nil {
				return err
			}
			if err := portal.WriteRows(outPath, rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %d of %d datasets to %s\n", len(rows), len(entries), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "input", "lista_conjuntos.csv", "Dataset list CSV from \"fetch list\"")
	cmd.Flags().StringVar(&outPath, "output", "dados/dados_scraping.csv", "Output CSV file")
	return cmd
}

func portalClient(app *appContext) *portal.Client {
	cfg := app.cfg.Portal
	return portal.NewClient(portal.ClientConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		PageSize:  cfg.PageSize,
		PageDelay: cfg.PageDelay,
	}, app.logger)
}
