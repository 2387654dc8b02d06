package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opendata-br/dcatbr/rdf"
	"github.com/opendata-br/dcatbr/shacl"
)

func newValidateCmd(app *appContext) *cobra.Command {
	var shapesDir string

	cmd := &cobra.Command{
		Use:   "validate <rdf-file>",
		Short: "Validate a Turtle file against the DCAT-BR shapes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shapesDir == "" {
				shapesDir = app.cfg.Shapes.Dir
			}
			validator, err := shacl.Load(shapesDir)
			if err != nil {
				return fmt.Errorf("loading shapes: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			g, err := rdf.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			report := validator.Validate(g)
			for _, w := range report.Warnings() {
				fmt.Printf("WARNING: %s\n", w)
			}
			for _, e := range report.Errors() {
				fmt.Printf("VIOLATION: %s\n", e)
			}
			if !report.Conforms {
				return fmt.Errorf("%s does not conform (%d violations)", args[0], len(report.Errors()))
			}
			fmt.Printf("%s conforms\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&shapesDir, "shapes-dir", "", "Directory with SHACL shapes (default: embedded shapes)")
	return cmd
}
