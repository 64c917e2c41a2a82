package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildwatch/wildwatch-go/cmd/serve"
	"github.com/wildwatch/wildwatch-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wildwatch",
		Short: "WildWatch alert service CLI",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		serve.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&settings.UseMockData, "mock", settings.UseMockData, "Serve the embedded mock snapshot instead of the live backend")
	rootCmd.PersistentFlags().StringVar(&settings.Backend.BaseURL, "backend-url", settings.Backend.BaseURL, "Base URL of the live detection backend")
	rootCmd.PersistentFlags().StringVar(&settings.Operator, "operator", settings.Operator, "Operator identity stamped on triggered alerts")
}
