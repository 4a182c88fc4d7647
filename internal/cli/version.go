package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/talkincode/catalog/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Version)
	},
}
