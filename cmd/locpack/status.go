package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"locpack/pkg/catalog"
	"locpack/pkg/config"
	"locpack/pkg/logger"
	"locpack/pkg/state"
	"locpack/pkg/ui"
)

var (
	statusLocations string
	statusState     string
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show distribution progress",
	Long: `Show how far the distribution has progressed: total locations,
completed locations, and a preview of the next batch. Read-only; no
folders are created and no state is written.`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusLocations, "locations", "", "path to the locations JSON file")
	statusCmd.Flags().StringVar(&statusState, "state", "", "path to the state file")
}

func runStatus(cmd *cobra.Command, args []string) {
	// Resolve paths through the usual chain, but only the catalog and
	// state paths matter here; no prompting, no full validation.
	cfg, err := config.Resolve(configFile)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if statusLocations != "" {
		cfg.Paths.LocationsFile = statusLocations
	}
	if statusState != "" {
		cfg.Paths.StateFile = statusState
	}

	if cfg.Paths.LocationsFile == "" {
		ui.PrintError("No locations file configured", "set LOCATIONS_JSON or pass --locations")
		os.Exit(1)
	}

	logger.Initialize(&config.LoggingConfig{Level: "error"})

	cat, err := catalog.Load(cfg.Paths.LocationsFile)
	if err != nil {
		ui.PrintError("Failed to load locations", err.Error())
		os.Exit(1)
	}

	store := state.NewStore(cfg.Paths.StateFile)
	if err := store.Load(); err != nil {
		ui.PrintError("Failed to load state", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Locations", fmt.Sprintf("%d", cat.Count()))
	ui.PrintInfo("Completed", fmt.Sprintf("%d", store.Count()))
	ui.PrintInfo("Remaining", fmt.Sprintf("%d", cat.Count()-store.Count()))

	var next []string
	for _, loc := range cat.All() {
		if len(next) >= cfg.Batch.BatchSize {
			break
		}
		if !store.IsComplete(loc) {
			next = append(next, loc)
		}
	}
	if len(next) == 0 {
		ui.PrintSuccess("All locations have been processed.")
		return
	}
	ui.PrintHighlight(fmt.Sprintf("Next batch (%d):", len(next)))
	for _, loc := range next {
		fmt.Printf("  %s\n", loc)
	}
}
