package cli

import (
	"github.com/spf13/cobra"
	"github.com/talkincode/catalog/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Read-only product catalog HTTP API",
	Long:         "catalog serves a product catalog and a payment QR image over HTTP, seeding its SQLite store on first start",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "catalog.yml", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.AppConfig, error) {
	return config.LoadConfig(configFile)
}
