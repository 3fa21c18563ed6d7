package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/render"
)

func statsCmd() *cobra.Command {
	var user, file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the full report for the chat or one participant",
		Long: `Prints message, word, media and link counts, the most active participants,
timelines, activity by weekday and month, the weekday/hour heatmap, the most
common words and emoji. --json emits the same report as JSON.`,
		Args: cobra.NoArgs,
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

			if user != "" && user != analytics.Overall && engine.View(records, user).Len() == 0 {
				a.logger.Warn("participant has no messages", zap.String("user", user))
			}

			report, err := engine.Report(cmd.Context(), records, user, a.reportOptions())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Print(render.RenderReport(report, termWidth()))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", analytics.Overall, "Participant to report on")
	cmd.Flags().StringVar(&file, "file", "", "Chat export to read instead of the cached chat")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
