package index

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/chatlens/internal/parse"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS chat (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    source_key    TEXT NOT NULL,
    file_path     TEXT NOT NULL,
    entry         TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL DEFAULT '',
    convention    TEXT NOT NULL,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0,
    imported_at   TEXT NOT NULL DEFAULT '',
    lines         INTEGER NOT NULL DEFAULT 0,
    continuations INTEGER NOT NULL DEFAULT 0,
    dropped       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    seq        INTEGER PRIMARY KEY,
    line       INTEGER NOT NULL,
    ts         TEXT NOT NULL,
    author     TEXT NOT NULL,
    body       TEXT NOT NULL,
    year       INTEGER NOT NULL,
    month      INTEGER NOT NULL,
    month_name TEXT NOT NULL,
    day        INTEGER NOT NULL,
    day_name   TEXT NOT NULL,
    period     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS messages_author ON messages(author);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    body,
    content=messages,
    content_rowid=seq,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, body) VALUES (new.seq, new.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.seq, old.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.seq, old.body);
    INSERT INTO messages_fts(rowid, body) VALUES (new.seq, new.body);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// tsLayout stores the export's wall-clock time; exports carry no zone.
const tsLayout = "2006-01-02T15:04:05"

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// schemaVersion should be bumped whenever parsing logic changes to force
// the cached chat to be parsed again.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "read schema version")
	}
	if ver == schemaVersion {
		return nil
	}
	// zeroing mtime/size makes the next sync re-parse the document
	if _, err := d.db.Exec("UPDATE chat SET mtime = 0, size = 0"); err != nil {
		return errors.Wrap(err, "reset chat")
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return errors.Wrap(err, "write schema version")
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// ChatInfo describes the cached document.
type ChatInfo struct {
	SourceKey     string
	FilePath      string
	Entry         string
	Name          string
	Convention    string
	Mtime         int64
	Size          int64
	ImportedAt    string
	Lines         int
	Continuations int
	Dropped       int
}

// GetChat returns the cached chat, or nil when nothing was imported.
func (d *DB) GetChat() (*ChatInfo, error) {
	var c ChatInfo
	err := d.db.QueryRow(`
		SELECT source_key, file_path, entry, name, convention, mtime, size,
		       imported_at, lines, continuations, dropped
		FROM chat WHERE id = 1`,
	).Scan(&c.SourceKey, &c.FilePath, &c.Entry, &c.Name, &c.Convention, &c.Mtime, &c.Size,
		&c.ImportedAt, &c.Lines, &c.Continuations, &c.Dropped)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get chat")
	}
	return &c, nil
}

// ReplaceChat discards the cached chat and stores info and records in
// its place. Only one document is ever held.
func (d *DB) ReplaceChat(info ChatInfo, records []parse.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return errors.Wrap(err, "clear messages")
	}
	if _, err := tx.Exec("DELETE FROM chat"); err != nil {
		return errors.Wrap(err, "clear chat")
	}

	if info.ImportedAt == "" {
		info.ImportedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = tx.Exec(`
		INSERT INTO chat (id, source_key, file_path, entry, name, convention, mtime, size,
		                  imported_at, lines, continuations, dropped)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.SourceKey, info.FilePath, info.Entry, info.Name, info.Convention, info.Mtime, info.Size,
		info.ImportedAt, info.Lines, info.Continuations, info.Dropped,
	)
	if err != nil {
		return errors.Wrap(err, "insert chat")
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (seq, line, ts, author, body, year, month, month_name, day, day_name, period)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		c := r.Calendar
		_, err := stmt.Exec(r.Seq, r.Line, r.Timestamp.Format(tsLayout), r.Author, r.Body,
			c.Year, c.Month, c.MonthName, c.Day, c.DayName, c.Period)
		if err != nil {
			return errors.Wrapf(err, "insert message %d", r.Seq)
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, errors.Wrap(err, "count messages")
}

// FTSCount reports how many rows the full-text index holds.
func (d *DB) FTSCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&n)
	return n, errors.Wrap(err, "count fts rows")
}

const selectMessages = `SELECT seq, line, ts, author, body, year, month, month_name, day, day_name, period FROM messages`

// LoadRecords returns every cached record in source order.
func (d *DB) LoadRecords() ([]parse.Record, error) {
	rows, err := d.db.Query(selectMessages + " ORDER BY seq")
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return scanRecords(rows)
}

// GetRecord returns one record, or nil if seq is out of range.
func (d *DB) GetRecord(seq int) (*parse.Record, error) {
	rows, err := d.db.Query(selectMessages+" WHERE seq = ?", seq)
	if err != nil {
		return nil, errors.Wrap(err, "get message")
	}
	recs, err := scanRecords(rows)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

// GetRecordsWindow returns the records within context positions of seq.
// hitIdx is seq's index in the window (-1 when seq is out of range, in
// which case the whole chat is returned), startPos the number of records
// before the window and totalCount the size of the chat.
func (d *DB) GetRecordsWindow(seq, context int) (records []parse.Record, hitIdx, startPos, totalCount int, err error) {
	totalCount, err = d.MessageCount()
	if err != nil {
		return nil, -1, 0, 0, err
	}

	startPos, endPos := 0, totalCount
	hitIdx = -1
	if seq >= 0 && seq < totalCount {
		startPos = seq - context
		if startPos < 0 {
			startPos = 0
		}
		endPos = seq + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		hitIdx = seq - startPos
	}

	rows, err := d.db.Query(selectMessages+" WHERE seq >= ? AND seq < ? ORDER BY seq", startPos, endPos)
	if err != nil {
		return nil, -1, 0, 0, errors.Wrap(err, "window messages")
	}
	records, err = scanRecords(rows)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	return records, hitIdx, startPos, totalCount, nil
}

func scanRecords(rows *sql.Rows) ([]parse.Record, error) {
	defer rows.Close()

	var records []parse.Record
	for rows.Next() {
		var r parse.Record
		var ts string
		c := &r.Calendar
		if err := rows.Scan(&r.Seq, &r.Line, &ts, &r.Author, &r.Body,
			&c.Year, &c.Month, &c.MonthName, &c.Day, &c.DayName, &c.Period); err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d timestamp", r.Seq)
		}
		r.Timestamp = t
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "iterate messages")
}
