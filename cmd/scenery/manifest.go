package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery/internal/cli"
	"github.com/tsawler/scenery/manifest"
)

var manifestFlags struct {
	strict bool
}

var manifestCmd = &cobra.Command{
	Use:   "manifest <file.json>",
	Short: "Check a placement manifest",
	Long: `List every instance of a placement manifest with the model name derived
from it, and flag instances that break the <ModelName>_<suffix> naming
convention or refer to a model missing from ExportedModels.

Examples:
  scenery manifest Placement.json

  # Fail when any instance is invalid or unlisted
  scenery manifest Placement.json --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().BoolVar(&manifestFlags.strict, "strict", false, "fail on invalid or unlisted instances")
}

// manifestReport summarizes a manifest check.
type manifestReport struct {
	Instances int
	Invalid   int
	Unlisted  int
}

func runManifest(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one manifest file")
	}
	path := args[0]

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.Load(path)
	if err != nil {
		return cli.NewCommandError("manifest", &cli.InputError{Path: path, Err: err})
	}

	report := checkManifest(env, m)
	env.logger.Debug("Manifest checked",
		"file", path,
		"instances", report.Instances,
		"invalid", report.Invalid,
		"unlisted", report.Unlisted,
	)

	if manifestFlags.strict && (report.Invalid > 0 || report.Unlisted > 0) {
		return cli.NewCommandError("manifest", &cli.InputError{
			Path: path,
			Err:  fmt.Errorf("%d invalid and %d unlisted instances", report.Invalid, report.Unlisted),
		})
	}
	return nil
}

// checkManifest prints one line per instance and returns the totals.
func checkManifest(env *runEnv, m *manifest.Manifest) manifestReport {
	var report manifestReport

	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE\tMODEL\tSTATUS")
	for _, instance := range m.Instances() {
		report.Instances++

		name, err := manifest.ModelNameFromInstance(instance)
		switch {
		case err != nil:
			report.Invalid++
			fmt.Fprintf(tw, "%s\t-\t%v\n", instance, err)
		case len(m.ExportedModels) > 0 && !m.HasModel(name):
			report.Unlisted++
			fmt.Fprintf(tw, "%s\t%s\tnot in ExportedModels\n", instance, name)
		default:
			fmt.Fprintf(tw, "%s\t%s\tok\n", instance, name)
		}
	}
	tw.Flush()

	fmt.Fprintf(env.out, "%d instances, %d invalid, %d unlisted\n",
		report.Instances, report.Invalid, report.Unlisted)
	return report
}
