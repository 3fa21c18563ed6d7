package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// configPath is the --config flag; empty means the default location.
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "chatlens",
		Short:         "chatlens - parse and analyse WhatsApp group chat exports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/chatlens/config.toml)")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
