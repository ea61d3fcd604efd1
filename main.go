// =============================================================================
// SDMX Catalog Flattener - Main Entry Point
// =============================================================================
//
// This is the main entry point for the sdmx-flatten CLI. It hands control to
// the cmd package, which defines the Cobra commands.
//
// USAGE:
//   sdmx-flatten             - Flatten the catalog using config.yaml or defaults
//   sdmx-flatten flatten     - Same, with per-run flag overrides
//   sdmx-flatten validate    - Load and flatten without writing output
//   sdmx-flatten version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Document parsing, catalog model, flattening, sinks
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sdmx-catalog-flattener/cmd"
)

func main() {
	cmd.Execute()
}
