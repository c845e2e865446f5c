package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery/internal/cli"
)

var extractFlags struct {
	extractSettings
	output string
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract placements from a stage document or manifest",
	Long: `Extract every object placement from a stage document (XML) or a placement
manifest (JSON) and write one record per object.

The input format is detected from the file content. Stage documents use the
direct convention and manifests the remap convention unless --convention or
the configuration says otherwise. Objects that cannot be read are skipped
and reported on stderr.

Examples:
  # JSON lines on stdout
  scenery extract Stage.xml

  # Scenario 2 without two models, as YAML
  scenery extract Stage.xml --scenario 2 --exclude Rock01,SkyDome --format yaml

  # Manifest with malformed instance names skipped instead of fatal
  scenery extract Placement.json --lenient --output placements.jsonl

  # Report objects whose model file is missing
  scenery extract Stage.xml --check-assets`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().IntVarP(&extractFlags.scenario, "scenario", "s", 0, "1-based scenario to read (default from config)")
	extractCmd.Flags().StringSliceVarP(&extractFlags.exclude, "exclude", "x", nil, "model names to leave out")
	extractCmd.Flags().StringVar(&extractFlags.convention, "convention", "", "output convention: remap, direct")
	extractCmd.Flags().BoolVar(&extractFlags.lenient, "lenient", false, "skip malformed manifest instance names")
	extractCmd.Flags().StringVarP(&extractFlags.format, "format", "f", outputJSONL, "output format: jsonl, yaml")
	extractCmd.Flags().StringVarP(&extractFlags.output, "output", "o", "", "output file (default stdout)")
	extractCmd.Flags().BoolVar(&extractFlags.checkAssets, "check-assets", false, "warn about records without a model file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one input file")
	}
	path := args[0]

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.finish()

	w, err := openOutput(extractFlags.output, env.out)
	if err != nil {
		return cli.NewCommandError("extract", err)
	}

	res, err := env.extract(path, extractFlags.extractSettings, w)
	if err != nil {
		return cli.NewCommandError("extract", &cli.InputError{Path: path, Err: err})
	}

	env.logger.Debug("Extraction finished",
		"file", path,
		"records", len(res.Records),
		"warnings", len(res.Warnings),
	)
	return nil
}
