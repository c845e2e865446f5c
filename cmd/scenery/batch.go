package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery"
	"github.com/tsawler/scenery/internal/batch"
	"github.com/tsawler/scenery/internal/cli"
)

// inputExtensions are the files batch and watch pick up.
var inputExtensions = []string{".xml", ".json"}

var batchFlags struct {
	extractSettings
	outputDir string
	workers   int
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract placements from every document under a directory",
	Long: `Walk a directory for stage documents (.xml) and manifests (.json) and
extract each one independently on a pool of workers. Each input gets its own
record file in --output-dir; without it only the summary is printed.

A file that fails does not stop the others. The command fails if any file
failed.

Examples:
  scenery batch stages/ --output-dir out/

  # Eight workers, YAML output
  scenery batch stages/ --output-dir out/ --workers 8 --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFlags.outputDir, "output-dir", "o", "", "directory for record files")
	batchCmd.Flags().IntVarP(&batchFlags.workers, "workers", "w", 0, "files processed at once (default from config)")
	batchCmd.Flags().IntVarP(&batchFlags.scenario, "scenario", "s", 0, "1-based scenario to read (default from config)")
	batchCmd.Flags().StringSliceVarP(&batchFlags.exclude, "exclude", "x", nil, "model names to leave out")
	batchCmd.Flags().StringVar(&batchFlags.convention, "convention", "", "output convention: remap, direct")
	batchCmd.Flags().BoolVar(&batchFlags.lenient, "lenient", false, "skip malformed manifest instance names")
	batchCmd.Flags().StringVarP(&batchFlags.format, "format", "f", outputJSONL, "output format: jsonl, yaml")
	batchCmd.Flags().BoolVar(&batchFlags.checkAssets, "check-assets", false, "warn about records without a model file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one directory")
	}
	dir := args[0]

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.finish()

	files, err := batch.FindFiles(dir, inputExtensions...)
	if err != nil {
		return cli.NewCommandError("batch", fmt.Errorf("failed to scan %s: %w", dir, err))
	}
	if len(files) == 0 {
		fmt.Fprintf(env.out, "No stage documents or manifests found in %s\n", dir)
		return nil
	}

	workers := batchFlags.workers
	if workers <= 0 {
		workers = env.cfg.Workers
	}

	ctx, stop := cli.SetupSignalHandler(env.ctx)
	defer stop()

	env.logger.Info("Batch started", "dir", dir, "files", len(files), "workers", workers)
	results, summary := batch.Run(ctx, files, workers, func(_ context.Context, path string) (*scenery.Result, error) {
		return batchJob(env, path)
	})

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.out, "FAIL %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(env.out, "ok   %s: %d records, %d warnings\n", r.Path, len(r.Value.Records), len(r.Value.Warnings))
	}
	fmt.Fprintf(env.out, "%d succeeded, %d failed\n", summary.Success, summary.Failed)

	if summary.Failed > 0 {
		return cli.NewCommandError("batch", fmt.Errorf("%d of %d files failed", summary.Failed, len(files)))
	}
	return nil
}

// batchJob extracts one file into the output directory, or discards the
// records when no directory was given.
func batchJob(env *runEnv, path string) (*scenery.Result, error) {
	if batchFlags.outputDir == "" {
		return env.extract(path, batchFlags.extractSettings, io.Discard)
	}

	w, err := openOutput(outputPath(path, batchFlags.outputDir, batchFlags.format), os.Stdout)
	if err != nil {
		return nil, err
	}
	return env.extract(path, batchFlags.extractSettings, w)
}
