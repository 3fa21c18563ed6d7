package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/render"
)

func previewCmd() *cobra.Command {
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <seq>",
		Short: "Preview the conversation around a message",
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

			out, _, err := render.RenderConversation(a.db, render.Options{
				HitSeq:  seq,
				Context: context,
				Query:   query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after the message to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
