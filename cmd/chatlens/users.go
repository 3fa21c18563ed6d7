package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
)

func usersCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the participants of the chat (Overall first)",
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

			for _, name := range analytics.Participants(records) {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Chat export to read instead of the cached chat")

	return cmd
}
