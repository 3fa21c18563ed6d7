package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/config"
	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/logging"
	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/scan"
	"github.com/Zuo-Peng/chatlens/internal/stopwords"
)

// app bundles what every command needs: config, logger and the cache.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *index.DB
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) close() {
	a.db.Close()
	a.logger.Sync()
}

// records returns the chat to analyse. With a file it is synced into the
// cache first; without one the cached chat is used, refreshed if its
// export changed on disk.
func (a *app) records(file string) ([]parse.Record, error) {
	conv := a.cfg.DateConvention()

	var src *scan.Source
	if file != "" {
		var err error
		src, err = scan.Locate(file)
		if err != nil {
			return nil, err
		}
	} else {
		chat, err := a.db.GetChat()
		if err != nil {
			return nil, err
		}
		if chat == nil {
			return nil, fmt.Errorf("no chat imported; run 'chatlens import <export>' or pass --file")
		}
		src, err = scan.Locate(chat.FilePath)
		if err != nil {
			// the export moved away; the cache still holds it
			a.logger.Warn("export no longer readable, using cache", zap.String("path", chat.FilePath), zap.Error(err))
			return a.valid(a.db.LoadRecords())
		}
	}

	records, stats, err := index.Sync(a.db, src, conv, a.logger)
	if err != nil {
		return nil, err
	}
	if stats.Updated {
		fmt.Fprintf(os.Stderr, "Parsed %s: %s\n", src.Name(), stats)
	}
	return a.valid(records, nil)
}

func (a *app) valid(records []parse.Record, err error) ([]parse.Record, error) {
	if err != nil {
		return nil, err
	}
	if !analytics.Valid(records) {
		return nil, fmt.Errorf("no messages found: not a WhatsApp chat export, or the date convention is not %s", a.cfg.DateConvention().Name)
	}
	return records, nil
}

func (a *app) engine() (*analytics.Engine, error) {
	stop, err := stopwords.Load(a.cfg.StopWords)
	if err != nil {
		return nil, fmt.Errorf("stop words: %w", err)
	}
	return analytics.NewEngine(stop), nil
}

func (a *app) reportOptions() analytics.ReportOptions {
	return analytics.ReportOptions{TopUsers: a.cfg.TopUsers, TopWords: a.cfg.TopWords}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// termWidth is the width of stdout, or 80 when it is not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
