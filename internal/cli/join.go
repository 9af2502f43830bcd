package cli

import (
	"github.com/spf13/cobra"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Assign parcels to census blocks and export the result",
	Long: `Runs the spatial-intersection join against the loaded blocks and
parcels tables, materializing one assignment per parcel, then writes the
matched (parcel_id, block_geoid) pairs to the configured CSV file.
Requires a completed load.`,
	RunE: runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.joiner().Run(cmd.Context()); err != nil {
		rt.log.Error("Join failed", err, nil)
		return err
	}
	return nil
}
