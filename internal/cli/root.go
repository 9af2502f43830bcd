package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockjoin",
	Short: "Parcel-to-census-block spatial join ETL",
	Long: `blockjoin loads parcel points and census block polygons into PostGIS,
assigns each parcel to the block containing its centroid with a single
spatial join, and exports the matched pairs to a CSV file.

The load and join steps are separate commands; join assumes load has run
to completion. Use "run" for both in sequence.

Exit Codes:
  0  - Success
  1  - General error
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Spatial reference system mismatch
  13 - Attribute type coercion failed
  14 - Schema provisioning failed`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
