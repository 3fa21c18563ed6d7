package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/open"
	"github.com/Zuo-Peng/chatlens/internal/search"
	"github.com/Zuo-Peng/chatlens/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd() *cobra.Command {
	var user, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across the messages of the chat",
		Long: `Search message bodies using FTS5. Output is TSV for fzf integration:
  seq, timestamp, author, snippet

Recommended shell function (add to .zshrc):
  chatf() {
    chatlens search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=2.. \
      --preview 'chatlens preview {1} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --preview-debounce=150 \
      --bind 'enter:execute(chatlens open {1})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			// refresh the cache if the export changed
			if _, err := a.records(""); err != nil {
				return err
			}

			opts := search.Options{
				Author: user,
				Since:  since,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if isTerminal() {
				hit, err := tui.RunSearch(a.db, args[0], opts)
				if err != nil || hit == nil {
					return err
				}
				return open.OpenRecord(a.db, hit.Seq)
			}

			opts.Query = args[0]
			results, err := search.Search(a.db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				// first field (seq) stays plain for fzf {1}
				fmt.Printf("%d\t%s%s%s\t%s%s%s\t%s\n",
					r.Seq,
					sColorDim, strings.Replace(r.Timestamp, "T", " ", 1), sColorReset,
					sColorBlue, r.Author, sColorReset,
					colorizeSnippet(snippet),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Only messages from this participant")
	cmd.Flags().StringVar(&since, "since", "", "Only messages sent since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
