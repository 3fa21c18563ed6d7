package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/scan"
	"github.com/Zuo-Peng/chatlens/internal/stopwords"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, stop words, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.Path != "" {
				fmt.Printf("  File: %s\n", cfg.Path)
			} else {
				fmt.Println("  File: (none, using defaults)")
			}
			fmt.Printf("  Convention: %s\n", cfg.DateConvention().Name)
			fmt.Printf("  Log: %s/%s\n", cfg.LogLevel, cfg.LogFormat)

			fmt.Println("\n=== Stop Words ===")
			if stop, err := stopwords.Load(cfg.StopWords); err != nil {
				fmt.Printf("  %s: ERROR %v\n", cfg.StopWords, err)
			} else {
				fmt.Printf("  %s: %d words\n", cfg.StopWords, len(stop))
			}
			fmt.Printf("  Bundled: %s\n", strings.Join(stopwords.Names(), ", "))

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'chatlens import' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			chat, err := db.GetChat()
			if err != nil {
				return err
			}
			if chat == nil {
				fmt.Println("  Chat: none imported")
				return nil
			}

			messageCount, err := db.MessageCount()
			if err != nil {
				return err
			}

			fmt.Printf("  Chat: %s\n", chat.Name)
			fmt.Printf("  Source: %s\n", chat.SourceKey)
			fmt.Printf("  Imported: %s (%s clock)\n", chat.ImportedAt, chat.Convention)
			fmt.Printf("  Lines: %d  Messages: %d  Continuations: %d  Dropped: %d\n",
				chat.Lines, messageCount, chat.Continuations, chat.Dropped)
			checkSource(chat)

			fmt.Println("\n=== FTS5 ===")
			ftsCount, err := db.FTSCount()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == messageCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", messageCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkSource(chat *index.ChatInfo) {
	src, err := scan.Locate(chat.FilePath)
	switch {
	case err != nil:
		fmt.Printf("  Export: %s (NOT FOUND, cache only)\n", chat.FilePath)
	case src.Key() != chat.SourceKey || src.Mtime != chat.Mtime || src.Size != chat.Size:
		fmt.Printf("  Export: %s (CHANGED, re-parsed on next use)\n", chat.FilePath)
	default:
		fmt.Printf("  Export: %s (OK)\n", chat.FilePath)
	}
}
