// Package main provides the dcatbr binary entry point.
// Dcatbr fetches dataset metadata from dados.gov.br style portals,
// converts it to DCAT-BR RDF and validates it with SHACL.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/opendata-br/dcatbr/commands"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.NewRoot(Version, BuildTime).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
