package output

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/newsharvest/scraper"
)

// SQLiteWriter stores records of a crawl run in a SQLite table. Every run
// appends under its own run ID; links are not deduplicated across runs.
type SQLiteWriter struct {
	db       *sql.DB
	runID    uuid.UUID
	position int
}

// StoredRecord is a record read back from the store.
type StoredRecord struct {
	scraper.ArticleRecord
	RunID     uuid.UUID
	Position  int
	CreatedAt time.Time
}

// NewSQLiteWriter opens (or creates) the database at dbPath.
func NewSQLiteWriter(dbPath string, runID uuid.UUID) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteWriter{db: db, runID: runID}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the records table if it doesn't exist.
func (s *SQLiteWriter) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		date TEXT NOT NULL,
		summary TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RunID returns the run the writer stores records under.
func (s *SQLiteWriter) RunID() uuid.UUID {
	return s.runID
}

// Write inserts one record at the next position of the run.
func (s *SQLiteWriter) Write(record scraper.ArticleRecord) error {
	query := `INSERT INTO records (run_id, position, title, link, date, summary, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		s.runID.String(),
		s.position,
		record.Title,
		record.Link,
		record.PublishedDate,
		record.ShortDescription,
		record.FullDescription,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	s.position++
	return nil
}

// Records returns the records of a run in the order they were written.
func (s *SQLiteWriter) Records(runID uuid.UUID) ([]StoredRecord, error) {
	query := `SELECT position, title, link, date, summary, description, created_at
		FROM records WHERE run_id = ? ORDER BY position`

	rows, err := s.db.Query(query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var r StoredRecord
		var createdAt string
		err := rows.Scan(
			&r.Position,
			&r.Title,
			&r.Link,
			&r.PublishedDate,
			&r.ShortDescription,
			&r.FullDescription,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.RunID = runID
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}
