package cli

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load both datasets, then join and export",
	Long: `Runs the full pipeline: load followed by join, sharing one database
pool and one run id. The join only starts after the load has completed.`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.loader().Run(cmd.Context()); err != nil {
		rt.log.Error("Load failed", err, nil)
		return err
	}

	if err := rt.joiner().Run(cmd.Context()); err != nil {
		rt.log.Error("Join failed", err, nil)
		return err
	}
	return nil
}
