package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery/internal/cli"
	"github.com/tsawler/scenery/internal/watch"
)

var watchFlags struct {
	extractSettings
	outputDir string
}

var watchCmd = &cobra.Command{
	Use:   "watch <file|dir>",
	Short: "Re-extract placements whenever an input changes",
	Long: `Extract a stage document or manifest once, then again every time it
changes on disk. Given a directory, every .xml and .json file under it is
watched and extracted on change.

Records are written to <output-dir>/<input name>.jsonl (or .yaml); the
output directory defaults to the directory of each input. Changes are
debounced by watch_debounce from the configuration.

Examples:
  scenery watch Stage.xml

  scenery watch stages/ --output-dir out/ --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.outputDir, "output-dir", "o", "", "directory for record files (default next to each input)")
	watchCmd.Flags().IntVarP(&watchFlags.scenario, "scenario", "s", 0, "1-based scenario to read (default from config)")
	watchCmd.Flags().StringSliceVarP(&watchFlags.exclude, "exclude", "x", nil, "model names to leave out")
	watchCmd.Flags().StringVar(&watchFlags.convention, "convention", "", "output convention: remap, direct")
	watchCmd.Flags().BoolVar(&watchFlags.lenient, "lenient", false, "skip malformed manifest instance names")
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", outputJSONL, "output format: jsonl, yaml")
	watchCmd.Flags().BoolVar(&watchFlags.checkAssets, "check-assets", false, "warn about records without a model file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one file or directory")
	}
	path := args[0]

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return cli.NewCommandError("watch", &cli.InputError{Path: path, Err: err})
	}
	if !info.IsDir() {
		if err := watchExtract(env, path); err != nil {
			env.logger.Error("Extraction failed", "path", path, "error", err)
		}
	}

	w, err := watch.New(watch.Config{
		Path:       path,
		Debounce:   env.cfg.WatchDebounce,
		Extensions: inputExtensions,
	}, env.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx, stop := cli.SetupSignalHandler(env.ctx)
	defer stop()

	if err := w.Watch(ctx, func(changed string) error {
		return watchExtract(env, changed)
	}); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchExtract writes the records of one changed input and refreshes the
// metrics file.
func watchExtract(env *runEnv, path string) error {
	dir := watchFlags.outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	out := outputPath(path, dir, watchFlags.format)

	w, err := openOutput(out, os.Stdout)
	if err != nil {
		return err
	}
	res, err := env.extract(path, watchFlags.extractSettings, w)
	env.finish()
	if err != nil {
		return err
	}

	env.logger.Info("Records written", "input", path, "output", out, "records", len(res.Records))
	return nil
}
