package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/scan"
)

func importCmd() *cobra.Command {
	var convention string

	cmd := &cobra.Command{
		Use:   "import <export>",
		Short: "Parse a chat export (.txt, folder or .zip) and cache it",
		Long: `Parses a WhatsApp "Export chat" file and replaces the cached chat with it.
The export may be the .txt itself, the folder it was unpacked to, or the .zip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			conv := a.cfg.DateConvention()
			if convention != "" {
				if conv, err = parse.ParseConvention(convention); err != nil {
					return err
				}
			}

			src, err := scan.Locate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Importing %s (%s clock)...\n", src.Key(), conv.Name)
			records, stats, err := index.Import(a.db, src, conv, a.logger)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)

			if !analytics.Valid(records) {
				return fmt.Errorf("no messages found: %s is not a WhatsApp chat export, or its clock is not %s", src.Name(), conv.Name)
			}
			fmt.Fprintf(os.Stderr, "%d participants\n", len(analytics.Participants(records))-1)
			return nil
		},
	}

	cmd.Flags().StringVar(&convention, "convention", "", "Date convention of the export (12h/24h), overrides config")

	return cmd
}
