package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"locpack/pkg/config"
	"locpack/pkg/distributor"
	errs "locpack/pkg/errors"
	"locpack/pkg/logger"
	"locpack/pkg/ui"
)

var (
	// Run command flags
	sourceDir       string
	targetDir       string
	locationsFile   string
	stateFile       string
	batchSize       int
	imagesPerFolder int
	runAll          bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the next batch of locations",
	Long: `Process the next batch of unfinished locations: create one destination
folder per location under the target directory and copy images into it,
drawing evenly from the source folders.

Completed locations are persisted to the state file once per batch.
A destination folder that already exists is never overwritten; the
location is skipped with a warning and stays incomplete for a later run.

Configuration is resolved from flags, environment variables (SOURCE_DIR,
TARGET_DIR, LOCATIONS_JSON, STATE_FILE, BATCH_SIZE, IMAGES_PER_FOLDER),
a .env file, and an optional YAML config file, in that order of
precedence. Missing required paths are prompted for interactively.`,
	Example: `  # Process the next batch using environment configuration
  locpack run

  # Process every remaining batch in one invocation
  locpack run --all

  # Explicit paths and sizes
  locpack run --source ./originals --target ./out --locations locations.json \
      --batch-size 10 --images-per-folder 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runDistribution(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&sourceDir, "source", "", "source directory containing original folders")
	runCmd.Flags().StringVar(&targetDir, "target", "", "target directory for new location folders")
	runCmd.Flags().StringVar(&locationsFile, "locations", "", "path to the locations JSON file")
	runCmd.Flags().StringVar(&stateFile, "state", "", "path to the state file (default state.json)")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 0, "locations to process per batch")
	runCmd.Flags().IntVar(&imagesPerFolder, "images-per-folder", 0, "images to copy per location folder")
	runCmd.Flags().BoolVar(&runAll, "all", false, "process every remaining batch instead of one")
}

// buildFlagMap collects the run command's flag overrides for config.Load
func buildFlagMap() map[string]interface{} {
	flags := make(map[string]interface{})
	if sourceDir != "" {
		flags["source"] = sourceDir
	}
	if targetDir != "" {
		flags["target"] = targetDir
	}
	if locationsFile != "" {
		flags["locations"] = locationsFile
	}
	if stateFile != "" {
		flags["state"] = stateFile
	}
	if batchSize > 0 {
		flags["batch-size"] = batchSize
	}
	if imagesPerFolder > 0 {
		flags["images-per-folder"] = imagesPerFolder
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runDistribution(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, buildFlagMap())
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)
	logger.GetLogger().WithField("version", version).Info("locpack starting")

	ui.PrintInfo("Source", cfg.Paths.SourceDir)
	ui.PrintInfo("Target", cfg.Paths.TargetDir)

	d, err := distributor.New(cfg)
	if err != nil {
		exitFatal(err)
	}

	var summary *distributor.Summary
	if runAll {
		summary, err = d.RunAll()
	} else {
		summary, err = d.RunBatch()
	}
	if err != nil {
		exitFatal(err)
	}

	printSummary(summary)
}

// exitFatal reports a fatal error and aborts with a non-zero exit code
func exitFatal(err error) {
	var typed *errs.Error
	if errors.As(err, &typed) {
		ui.PrintError(fmt.Sprintf("Aborted (%s)", typed.Type), typed.Message)
	} else {
		ui.PrintError("Aborted", err.Error())
	}
	logger.GetLogger().WithError(err).Error("run aborted")
	os.Exit(1)
}

func printSummary(summary *distributor.Summary) {
	if summary.Selected == 0 {
		ui.PrintSuccess("All locations have been processed.")
		return
	}

	ui.PrintInfo("Locations completed", fmt.Sprintf("%d of %d selected", len(summary.Completed), summary.Selected))
	ui.PrintInfo("Images copied", fmt.Sprintf("%d", summary.ImagesCopied))
	if summary.Shortfalls > 0 {
		ui.PrintWarning(fmt.Sprintf("%d location(s) received fewer images than requested", summary.Shortfalls))
	}
	for _, loc := range summary.Skipped {
		ui.PrintWarning("Skipped (needs manual review)", loc)
	}
	if summary.Done || len(summary.Skipped) == 0 {
		ui.PrintSuccess("Batch processing complete.")
	}
}
