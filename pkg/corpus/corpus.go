// Package corpus stores Tatoeba sentence/translation pairs in SQLite and
// serves example lookups for card content.
package corpus

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sentences (
	id   INTEGER PRIMARY KEY,
	lang TEXT NOT NULL,
	text TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sentences_lang ON sentences(lang);
CREATE TABLE IF NOT EXISTS links (
	sentence_id    INTEGER NOT NULL,
	translation_id INTEGER NOT NULL,
	PRIMARY KEY (sentence_id, translation_id)
) WITHOUT ROWID;
`

// Corpus is a SQLite-backed example sentence store.
type Corpus struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the corpus database at path.
// Use ":memory:" for an ephemeral corpus.
func Open(path string) (*Corpus, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps in-memory databases coherent.
	db.SetMaxOpenConns(1)
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init corpus schema: %w", err)
		}
	}
	return &Corpus{db: db}, nil
}

// Close releases the underlying database.
func (c *Corpus) Close() error { return c.db.Close() }

// Example is one Japanese sentence with its English translation.
type Example struct {
	Text        string
	Translation string
}

// Examples returns up to limit Japanese sentences containing token, each
// joined to one English translation, shortest sentences first.
func (c *Corpus) Examples(token string, limit int) ([]Example, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := c.db.Query(`
		SELECT s.text, t.text
		FROM sentences s
		JOIN links l ON l.sentence_id = s.id
		JOIN sentences t ON t.id = l.translation_id AND t.lang = 'eng'
		WHERE s.lang = 'jpn' AND s.text LIKE '%' || ? || '%'
		GROUP BY s.id
		ORDER BY length(s.text) ASC
		LIMIT ?`, token, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Example
	for rows.Next() {
		var ex Example
		if err := rows.Scan(&ex.Text, &ex.Translation); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// SentenceCount reports the number of stored sentences.
func (c *Corpus) SentenceCount() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM sentences`).Scan(&n)
	return n, err
}

// Import loads the Tatoeba dumps: sentences as "id<TAB>lang<TAB>text" and
// links as "id<TAB>translation_id". Only Japanese and English sentences are
// kept, and only links joining a kept Japanese sentence to a kept English
// one. Returns the number of sentences stored.
func (c *Corpus) Import(ctx context.Context, sentences, links io.Reader) (int, error) {
	jpn := make(map[int64]bool)
	eng := make(map[int64]bool)

	bw := newBatchWriter(c.db, 500)
	stored := 0

	scanner := bufio.NewScanner(sentences)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		fields := strings.SplitN(scanner.Text(), "\t", 3)
		if len(fields) != 3 {
			continue
		}
		lang := fields[1]
		if lang != "jpn" && lang != "eng" {
			continue
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		if err := bw.exec(ctx, `INSERT OR IGNORE INTO sentences (id, lang, text) VALUES (?, ?, ?)`, id, lang, fields[2]); err != nil {
			return stored, err
		}
		if lang == "jpn" {
			jpn[id] = true
		} else {
			eng[id] = true
		}
		stored++
	}
	if err := scanner.Err(); err != nil {
		return stored, fmt.Errorf("read sentences dump: %w", err)
	}

	scanner = bufio.NewScanner(links)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		fields := strings.SplitN(scanner.Text(), "\t", 2)
		if len(fields) != 2 {
			continue
		}
		from, err1 := strconv.ParseInt(fields[0], 10, 64)
		to, err2 := strconv.ParseInt(fields[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if !jpn[from] || !eng[to] {
			continue
		}
		if err := bw.exec(ctx, `INSERT OR IGNORE INTO links (sentence_id, translation_id) VALUES (?, ?)`, from, to); err != nil {
			return stored, err
		}
	}
	if err := scanner.Err(); err != nil {
		return stored, fmt.Errorf("read links dump: %w", err)
	}

	return stored, bw.flush()
}
