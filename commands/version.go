package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(version, buildTime string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dcatbr version %s (build: %s)\n", version, buildTime)
		},
	}
}
