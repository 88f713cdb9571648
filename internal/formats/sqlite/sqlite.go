// Package sqlite is the SQLite database codec.
//
// Schema:
//
//	info(name, value)
//	books(id, name, osis, testament, book_order)
//	verses(id, book_id, chapter, verse, text)
//	contents(testament, position, name)
//
// Chapter and verse numbers are stored as text exactly as they appeared in
// the source. verses.id preserves source order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	coresqlite "github.com/FocuswithJustin/gutenkjv/core/sqlite"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// SchemaVersion is stored in info.schema_version.
const SchemaVersion = "1"

var schema = []string{
	`CREATE TABLE info (name TEXT NOT NULL PRIMARY KEY, value TEXT NOT NULL)`,
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		osis TEXT,
		testament TEXT NOT NULL CHECK (testament IN ('old', 'new')),
		book_order INTEGER NOT NULL
	)`,
	`CREATE TABLE verses (
		id INTEGER PRIMARY KEY,
		book_id INTEGER NOT NULL REFERENCES books(id),
		chapter TEXT NOT NULL,
		verse TEXT NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE INDEX verses_ref ON verses (book_id, chapter, verse)`,
	`CREATE TABLE contents (
		testament TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (testament, position)
	)`,
}

// Codec implements formats.Codec and formats.Decoder.
type Codec struct{}

// Register registers this codec with the format registry.
func Register() {
	formats.Register(Codec{})
}

func init() {
	Register()
}

// Info implements formats.Codec.
func (Codec) Info() formats.Info {
	return formats.Info{
		Name:        "sqlite",
		Extensions:  []string{".db", ".sqlite", ".sqlite3"},
		Description: "SQLite database with books, verses and contents tables",
		CanDecode:   true,
	}
}

// Encode implements formats.Codec. The database is built in a temp file and
// then copied to w.
func (Codec) Encode(w io.Writer, doc *scripture.Document) error {
	dir, err := os.MkdirTemp("", "gutenkjv-sqlite-")
	if err != nil {
		return gkerrors.NewIO("create temp dir", os.TempDir(), err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "out.db")
	if err := WriteDB(context.Background(), path, doc); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return gkerrors.NewIO("open", path, err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// Decode implements formats.Decoder. r is spooled to a temp file because
// SQLite needs random access.
func (Codec) Decode(r io.Reader) (*scripture.Document, error) {
	f, err := os.CreateTemp("", "gutenkjv-sqlite-*.db")
	if err != nil {
		return nil, gkerrors.NewIO("create temp file in", os.TempDir(), err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, gkerrors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, gkerrors.NewIO("close", path, err)
	}
	return ReadDB(context.Background(), path)
}

// WriteDB creates a new database at path holding doc. An existing file is
// replaced. The database is bulk loaded, so path must not be read while
// WriteDB runs.
func WriteDB(ctx context.Context, path string, doc *scripture.Document) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return gkerrors.NewIO("remove", path, err)
	}

	db, err := coresqlite.OpenBulk(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	return coresqlite.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO info (name, value) VALUES ('schema_version', ?), ('generator', 'gutenkjv')`,
			SchemaVersion); err != nil {
			return fmt.Errorf("failed to write info: %w", err)
		}
		return insertDocument(ctx, tx, doc)
	})
}

func insertDocument(ctx context.Context, tx *sql.Tx, doc *scripture.Document) error {
	bookStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO books (id, name, osis, testament, book_order) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer bookStmt.Close()

	verseStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verses (book_id, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer verseStmt.Close()

	contentsStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contents (testament, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer contentsStmt.Close()

	for _, t := range []scripture.Testament{scripture.TestamentOld, scripture.TestamentNew} {
		for i, name := range doc.Contents(t) {
			if _, err := contentsStmt.ExecContext(ctx, string(t), i+1, name); err != nil {
				return fmt.Errorf("failed to insert contents entry %s: %w", name, err)
			}
		}
	}

	id := 0
	var insertErr error
	doc.Each(func(t scripture.Testament, b *scripture.Book) bool {
		id++
		var osis sql.NullString
		if cb, ok := scripture.LookupCanon(b.Name); ok {
			osis = sql.NullString{String: cb.OSIS, Valid: true}
		}
		if _, insertErr = bookStmt.ExecContext(ctx, id, b.Name, osis, string(t), id); insertErr != nil {
			insertErr = fmt.Errorf("failed to insert book %s: %w", b.Name, insertErr)
			return false
		}
		for _, ch := range b.Chapters {
			for _, v := range ch.Verses {
				if _, insertErr = verseStmt.ExecContext(ctx, id, ch.Number, v.Number, v.Text); insertErr != nil {
					insertErr = fmt.Errorf("failed to insert %s %s:%s: %w", b.Name, ch.Number, v.Number, insertErr)
					return false
				}
			}
		}
		return true
	})
	return insertErr
}

// ReadDB loads a document from the database at path.
func ReadDB(ctx context.Context, path string) (*scripture.Document, error) {
	db, err := coresqlite.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, `SELECT value FROM info WHERE name = 'schema_version'`).Scan(&version); err != nil {
		return nil, gkerrors.NewParse("sqlite", path, "not a gutenkjv database", err)
	}
	if version != SchemaVersion {
		return nil, gkerrors.NewParse("sqlite", path, "unsupported schema version "+version, nil)
	}

	doc := &scripture.Document{}
	if err := readContents(ctx, db, doc); err != nil {
		return nil, gkerrors.NewParse("sqlite", path, "reading contents", err)
	}
	if err := readBooks(ctx, db, doc); err != nil {
		return nil, gkerrors.NewParse("sqlite", path, "reading books", err)
	}
	return doc, nil
}

func readContents(ctx context.Context, db *sql.DB, doc *scripture.Document) error {
	rows, err := db.QueryContext(ctx, `SELECT testament, name FROM contents ORDER BY testament DESC, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t, name string
		if err := rows.Scan(&t, &name); err != nil {
			return err
		}
		if scripture.Testament(t) == scripture.TestamentNew {
			doc.NewContents = append(doc.NewContents, name)
		} else {
			doc.OldContents = append(doc.OldContents, name)
		}
	}
	return rows.Err()
}

func readBooks(ctx context.Context, db *sql.DB, doc *scripture.Document) error {
	rows, err := db.QueryContext(ctx, `
		SELECT b.id, b.name, b.testament, v.chapter, v.verse, v.text
		FROM books b LEFT JOIN verses v ON v.book_id = b.id
		ORDER BY b.book_order, v.id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		cur       *scripture.Book
		curID     int64 = -1
		curT      scripture.Testament
		flushBook = func() {
			if cur != nil {
				doc.Append(curT, *cur)
			}
		}
	)
	for rows.Next() {
		var (
			id                  int64
			name, t             string
			chapter, verse, txt sql.NullString
		)
		if err := rows.Scan(&id, &name, &t, &chapter, &verse, &txt); err != nil {
			return err
		}
		if id != curID {
			flushBook()
			cur, curID, curT = &scripture.Book{Name: name}, id, scripture.Testament(t)
		}
		if !chapter.Valid {
			continue
		}
		n := len(cur.Chapters)
		if n == 0 || cur.Chapters[n-1].Number != chapter.String {
			cur.Chapters = append(cur.Chapters, scripture.Chapter{Number: chapter.String})
			n++
		}
		cur.Chapters[n-1].Verses = append(cur.Chapters[n-1].Verses, scripture.Verse{Number: verse.String, Text: txt.String})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	flushBook()
	return nil
}
