package ingest

import (
	"database/sql"
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/legends/internal/graph"
)

const exportSchema = `
CREATE TABLE IF NOT EXISTS categories (
	name TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	first_id INTEGER NOT NULL,
	count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	category TEXT NOT NULL,
	id INTEGER NOT NULL,
	name TEXT,
	record JSON NOT NULL,
	PRIMARY KEY (category, id)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS links (
	figure_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	type TEXT NOT NULL,
	target_id INTEGER NOT NULL,
	strength INTEGER
);
CREATE INDEX IF NOT EXISTS idx_links_figure ON links(figure_id);

CREATE TABLE IF NOT EXISTS record_events (
	category TEXT NOT NULL,
	id INTEGER NOT NULL,
	event_id INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_record_events ON record_events(category, id);
`

var jsonOpts = &ojg.Options{Sort: true}

// SQLiteWriter exports an imported store to a SQLite snapshot. Each record is
// stored as JSON next to its category and identifier; links and event
// back-links get their own tables.
type SQLiteWriter struct {
	db        *sql.DB
	batchSize int
}

// NewSQLiteWriter opens (creating if needed) the database at dbPath and
// initializes the schema.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk load; the snapshot is rebuilt from the document on failure.
	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(exportSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteWriter{db: db, batchSize: 10000}, nil
}

// exportTx wraps a transaction with the prepared inserts and commits every
// batchSize rows.
type exportTx struct {
	w     *SQLiteWriter
	tx    *sql.Tx
	rec   *sql.Stmt
	link  *sql.Stmt
	event *sql.Stmt
	count int
}

func (w *SQLiteWriter) begin() (*exportTx, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return nil, err
	}
	t := &exportTx{w: w, tx: tx}
	if t.rec, err = tx.Prepare(`INSERT OR REPLACE INTO records (category, id, name, record) VALUES (?, ?, ?, ?)`); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if t.link, err = tx.Prepare(`INSERT INTO links (figure_id, kind, type, target_id, strength) VALUES (?, ?, ?, ?, ?)`); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if t.event, err = tx.Prepare(`INSERT INTO record_events (category, id, event_id) VALUES (?, ?, ?)`); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return t, nil
}

func (t *exportTx) commit() error {
	_ = t.rec.Close()
	_ = t.link.Close()
	_ = t.event.Close()
	return t.tx.Commit()
}

func (t *exportTx) rollback() {
	_ = t.tx.Rollback()
}

// tick counts a written row and rolls over to a new transaction when the
// batch is full.
func (t *exportTx) tick() error {
	t.count++
	if t.count%t.w.batchSize != 0 {
		return nil
	}
	if err := t.commit(); err != nil {
		return err
	}
	next, err := t.w.begin()
	if err != nil {
		return err
	}
	next.count = t.count
	*t = *next
	return nil
}

// Write replaces the database contents with the store. The previous contents
// are cleared in the first batch's transaction, so a failure within that batch
// leaves them intact. Later batches commit as they fill; a failure there
// leaves a partial snapshot that the next Write replaces.
func (w *SQLiteWriter) Write(store *graph.Store) error {
	t, err := w.begin()
	if err != nil {
		return err
	}
	for _, table := range []string{"categories", "records", "links", "record_events"} {
		if _, err := t.tx.Exec("DELETE FROM " + table); err != nil {
			t.rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for pos, name := range store.Categories() {
		cat, _ := store.Category(name)
		if _, err := t.tx.Exec(`INSERT INTO categories (name, position, first_id, count) VALUES (?, ?, ?, ?)`,
			name, pos, cat.Offset, len(cat.Records)); err != nil {
			t.rollback()
			return fmt.Errorf("insert category %s: %w", name, err)
		}
		for _, rec := range cat.Records {
			if err := t.writeRecord(rec); err != nil {
				t.rollback()
				return fmt.Errorf("insert %s %d: %w", name, rec.ID, err)
			}
		}
	}
	return t.commit()
}

func (t *exportTx) writeRecord(rec *graph.Record) error {
	var name sql.NullString
	if n, ok := rec.Text("name"); ok {
		name = sql.NullString{String: n, Valid: true}
	}
	if _, err := t.rec.Exec(rec.Category, rec.ID, name, oj.JSON(rec.Generic(), jsonOpts)); err != nil {
		return err
	}
	if err := t.tick(); err != nil {
		return err
	}

	for _, l := range rec.HFLinks {
		if err := t.writeLink(rec.ID, hfLinkTag, l); err != nil {
			return err
		}
	}
	for _, l := range rec.EntityLinks {
		if err := t.writeLink(rec.ID, entityLinkTag, l); err != nil {
			return err
		}
	}
	for _, ev := range rec.Events {
		if _, err := t.event.Exec(rec.Category, rec.ID, ev); err != nil {
			return err
		}
		if err := t.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (t *exportTx) writeLink(figureID int, kind string, l graph.Link) error {
	var strength sql.NullInt64
	if s, ok := l.Strength.Get(); ok {
		strength = sql.NullInt64{Int64: int64(s), Valid: true}
	}
	if _, err := t.link.Exec(figureID, kind, l.Type, l.ID, strength); err != nil {
		return err
	}
	return t.tick()
}

// Close closes the database.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
