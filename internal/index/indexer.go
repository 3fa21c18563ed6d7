package index

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/scan"
)

type Stats struct {
	Updated       bool // false when the cache was already current
	Lines         int
	Records       int
	Continuations int
	Dropped       int
	Notifications int
}

func (s Stats) String() string {
	if !s.Updated {
		return fmt.Sprintf("up to date, %d messages", s.Records)
	}
	return fmt.Sprintf("lines=%d messages=%d continuations=%d dropped=%d notifications=%d",
		s.Lines, s.Records, s.Continuations, s.Dropped, s.Notifications)
}

// Sync makes sure the cache holds src parsed with conv and returns its
// records. The export is parsed again only when its size, mtime, identity
// or date convention changed since the last import.
func Sync(db *DB, src *scan.Source, conv parse.Convention, logger *zap.Logger) ([]parse.Record, Stats, error) {
	needs, err := needsUpdate(db, src, conv)
	if err != nil {
		return nil, Stats{}, err
	}
	if !needs {
		records, err := db.LoadRecords()
		if err != nil {
			return nil, Stats{}, err
		}
		logger.Debug("cache hit", zap.String("source", src.Key()), zap.Int("messages", len(records)))
		return records, Stats{Records: len(records)}, nil
	}
	return Import(db, src, conv, logger)
}

// Import parses src unconditionally and replaces the cached chat with it.
func Import(db *DB, src *scan.Source, conv parse.Convention, logger *zap.Logger) ([]parse.Record, Stats, error) {
	text, err := src.Read()
	if err != nil {
		return nil, Stats{}, errors.Wrapf(err, "read %s", src.Name())
	}

	result := parse.Parse(text, conv)
	ps := result.Stats
	stats := Stats{
		Updated:       true,
		Lines:         ps.Lines,
		Records:       ps.Records,
		Continuations: ps.Continuations,
		Dropped:       ps.Dropped,
		Notifications: ps.Notifications,
	}
	logger.Info("parsed export",
		zap.String("source", src.Key()),
		zap.String("convention", conv.Name),
		zap.Int("lines", ps.Lines),
		zap.Int("messages", ps.Records),
		zap.Int("continuations", ps.Continuations),
		zap.Int("dropped", ps.Dropped),
	)
	if ps.Records == 0 && ps.Lines > 0 {
		logger.Warn("no message headers recognised", zap.String("source", src.Key()), zap.String("convention", conv.Name))
	}

	info := ChatInfo{
		SourceKey:     src.Key(),
		FilePath:      src.Path,
		Entry:         src.Entry,
		Name:          src.Name(),
		Convention:    conv.Name,
		Mtime:         src.Mtime,
		Size:          src.Size,
		Lines:         ps.Lines,
		Continuations: ps.Continuations,
		Dropped:       ps.Dropped,
	}
	if err := db.ReplaceChat(info, result.Records); err != nil {
		return nil, stats, errors.Wrapf(err, "store %s", src.Name())
	}
	return result.Records, stats, nil
}

func needsUpdate(db *DB, src *scan.Source, conv parse.Convention) (bool, error) {
	info, err := db.GetChat()
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // nothing imported yet
	}
	return info.SourceKey != src.Key() ||
		info.Convention != conv.Name ||
		info.Mtime != src.Mtime ||
		info.Size != src.Size, nil
}
