package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/tui"
)

func dashboardCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse participants and their reports",
		Long:  `Opens a TUI panel listing Overall and every participant. Type to filter names; the right panel shows the selected report. Enter copies its one-line summary to the clipboard.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			records, err := a.records(file)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			return tui.RunDashboard(cmd.Context(), engine, records, a.reportOptions())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Chat export to read instead of the cached chat")

	return cmd
}
