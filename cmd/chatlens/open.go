package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/open"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <seq>",
		Short: "Open the export in $EDITOR at a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid message number %q", args[0])
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			return open.OpenRecord(a.db, seq)
		},
	}
}
