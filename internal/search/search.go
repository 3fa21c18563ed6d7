package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chatlens/internal/extract"
	"github.com/Zuo-Peng/chatlens/internal/index"
)

type Result struct {
	Seq       int
	Line      int
	Timestamp string
	Author    string
	Snippet   string
	Rank      float64
}

type Options struct {
	Query  string
	Author string // "" = everyone
	Since  string // "" = no filter, e.g. "2023-01-01"
	Limit  int
}

// needsLike reports whether the query holds runes the unicode61 tokenizer
// cannot match: CJK ideographs and emoji.
func needsLike(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || extract.IsEmoji(r) {
			return true
		}
	}
	return false
}

// ftsQuery quotes each term so punctuation in chat text ("hello!", "3:30")
// is not read as FTS5 syntax. Boolean operators and trailing * prefixes
// are kept.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		switch t {
		case "AND", "OR", "NOT":
			continue
		}
		prefix := strings.HasSuffix(t, "*") && len(t) > 1
		t = strings.TrimSuffix(t, "*")
		t = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
		if prefix {
			t += "*"
		}
		terms[i] = t
	}
	return strings.Join(terms, " ")
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	runes := []rune(text)
	if idx < 0 || len(lower) != len(text) {
		// no match (or case folding moved offsets), return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + qLen + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// Search finds messages whose body matches opts.Query, best match first.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if needsLike(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

func filters(opts Options, conditions []string, args []interface{}) ([]string, []interface{}) {
	if opts.Author != "" {
		conditions = append(conditions, "m.author = ?")
		args = append(args, opts.Author)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts,
		[]string{"messages_fts MATCH ?"},
		[]interface{}{ftsQuery(opts.Query)})

	query := fmt.Sprintf(`
		SELECT
			m.seq,
			m.line,
			m.ts,
			m.author,
			snippet(messages_fts, 0, '>>>','<<<', '...', 24) as snip,
			bm25(messages_fts) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.seq
		WHERE %s
		ORDER BY rank, m.seq
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts,
		[]string{"m.body LIKE ?"},
		[]interface{}{"%" + opts.Query + "%"})

	query := fmt.Sprintf(`
		SELECT m.seq, m.line, m.ts, m.author, m.body
		FROM messages m
		WHERE %s
		ORDER BY m.seq
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var body string
		if err := rows.Scan(&r.Seq, &r.Line, &r.Timestamp, &r.Author, &body); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(body, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Seq, &r.Line, &r.Timestamp, &r.Author, &r.Snippet, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
