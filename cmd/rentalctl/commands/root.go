package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rentalctl",
	Short: "Operational tooling for the rentals platform",
	Long: `rentalctl performs administrative tasks against the rentals database
that have no place in the public HTTP API, such as bootstrapping the
first admin account.

Configuration comes from the same environment variables the api binary
reads (DATABASE_URL, DATA_BACKEND, ...).`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
