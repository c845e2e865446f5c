package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery/internal/cli"
	"github.com/tsawler/scenery/reader"
	"github.com/tsawler/scenery/stage"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios <file.xml>",
	Short: "List the scenarios of a stage document",
	Long: `Print every scenario of a stage document with the number of objects it
places, so the right --scenario can be picked for extract.

Example:
  scenery scenarios Stage.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one stage document")
	}
	path := args[0]

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	root, err := reader.Open(path)
	if err != nil {
		return cli.NewCommandError("scenarios", &cli.InputError{Path: path, Err: err})
	}
	list, err := stage.ScenarioList(root)
	if err != nil {
		return cli.NewCommandError("scenarios", &cli.InputError{Path: path, Err: err})
	}

	count := list.Len()
	fmt.Fprintf(env.out, "%s: %d scenarios\n", path, count)
	for i := 1; i <= count; i++ {
		scenario, err := stage.SelectScenario(list, i)
		if err != nil {
			return cli.NewCommandError("scenarios", err)
		}
		ext := stage.NewExtractor(scenario, stage.WithExclude(env.cfg.ExcludeSet()))
		placements, diags := stage.Collect(ext.All())
		fmt.Fprintf(env.out, "  %d: %d objects, %d placed, %d skipped\n",
			i, ext.Stats().Entries, len(placements), len(diags))
	}
	return nil
}
