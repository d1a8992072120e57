// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mdhender/ccmsg"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a SQLite-backed history of parsed commit messages.
type SQLiteStore struct {
	db *sql.DB
}

// StoreConfig holds configuration for creating a SQLiteStore.
type StoreConfig struct {
	// Path is the file path for file-based SQLite.
	// If empty, an in-memory database is used.
	Path string

	// InitSchema controls whether to run schema initialization.
	// In-memory databases are always initialized.
	InitSchema bool
}

// Record is a commit message as it was saved.
type Record struct {
	ID        int64
	Hash      string
	Source    string
	Commit    ccmsg.Commit
	CreatedAt time.Time
}

// NewSQLiteStore creates a new in-memory SQLite store with schema loaded.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(StoreConfig{InitSchema: true})
}

// NewSQLiteStoreWithConfig creates a SQLite store based on the provided configuration.
// For file-based mode (Path is set), the database file MUST already exist.
// Use InitDatabase to create and initialize a new database file.
func NewSQLiteStoreWithConfig(cfg StoreConfig) (*SQLiteStore, error) {
	var dsn string

	if cfg.Path == "" {
		// every connection to ":memory:" is a separate database, so the pool is pinned to one
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database file does not exist: %s (run init-db command to create it)", cfg.Path)
		}
		dsn = fileDSN(cfg.Path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Path == "" {
		db.SetMaxOpenConns(1)
	}

	if cfg.InitSchema || cfg.Path == "" {
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// InitDatabase creates a new SQLite database file and initializes the schema.
// Returns an error if the file already exists.
func InitDatabase(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("database file already exists: %s", path)
	}

	db, err := sql.Open("sqlite", fileDSN(path))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	return nil
}

// fileDSN applies PRAGMA's per-connection via DSN so the pool always has them.
// modernc.org/sqlite supports repeated _pragma=... parameters.
func fileDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
		path,
	)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Hash returns the key a message is stored under: the hex BLAKE2b-256
// digest of the trimmed message text.
func Hash(source string) string {
	sum := blake2b.Sum256([]byte(ccmsg.Trim(source)))
	return hex.EncodeToString(sum[:])
}

// SaveCommit records a parsed message and its footers.
// If the message was saved before, the existing id is returned and nothing is written.
func (s *SQLiteStore) SaveCommit(ctx context.Context, source string, c *ccmsg.Commit) (int64, error) {
	hash := Hash(source)
	if id, err := s.commitID(ctx, hash); err != nil {
		return 0, err
	} else if id != 0 {
		return id, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &ErrDatabase{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	const commitQuery = `
		INSERT INTO commits (hash, source, type, scope, breaking, description, span_start, span_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, commitQuery,
		hash,
		ccmsg.Trim(source),
		c.Type,
		c.Scope,
		boolToInt(c.Breaking),
		c.Description,
		c.Span.Start,
		c.Span.End,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, &ErrDatabase{Op: "insert commit", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &ErrDatabase{Op: "get commit id", Err: err}
	}

	const footerQuery = `
		INSERT INTO footers (commit_id, seq, token, scope, separator, value, breaking, span_start, span_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for seq, f := range c.Footers {
		_, err := tx.ExecContext(ctx, footerQuery,
			id,
			seq,
			f.Token,
			f.Scope,
			f.Separator,
			f.Value,
			boolToInt(f.Breaking),
			f.Span.Start,
			f.Span.End,
		)
		if err != nil {
			return 0, &ErrDatabase{Op: "insert footer", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &ErrDatabase{Op: "commit", Err: err}
	}
	return id, nil
}

// commitID returns 0 if no commit has the hash.
func (s *SQLiteStore) commitID(ctx context.Context, hash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM commits WHERE hash = ?`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, &ErrDatabase{Op: "select commit id", Err: err}
	}
	return id, nil
}

// SaveFailure records a message that could not be parsed.
func (s *SQLiteStore) SaveFailure(ctx context.Context, source string, failure error) (int64, error) {
	var line, col int
	var ut *ccmsg.UnexpectedToken
	if errors.As(failure, &ut) {
		line, col = ut.Line, ut.Column
	}
	const query = `
		INSERT INTO parse_failures (hash, source, code, message, line, col, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		Hash(source),
		ccmsg.Trim(source),
		ErrorCode(failure),
		failure.Error(),
		line,
		col,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, &ErrDatabase{Op: "insert failure", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &ErrDatabase{Op: "get failure id", Err: err}
	}
	return id, nil
}

// CountFailures returns the number of failures recorded with the given code.
// An empty code counts every failure.
func (s *SQLiteStore) CountFailures(ctx context.Context, code string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parse_failures WHERE ? = '' OR code = ?`, code, code).Scan(&n)
	if err != nil {
		return 0, &ErrDatabase{Op: "count failures", Err: err}
	}
	return n, nil
}

// FindByHash returns the saved record for the hash, or nil if there is none.
func (s *SQLiteStore) FindByHash(ctx context.Context, hash string) (*Record, error) {
	const query = `
		SELECT id, hash, source, type, scope, breaking, description, span_start, span_end, created_at
		FROM commits
		WHERE hash = ?
	`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, &ErrDatabase{Op: "select commit", Err: err}
	}
	if err := s.loadFooters(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListCommits returns the most recently saved records, newest first.
// A limit of zero or less returns every record.
func (s *SQLiteStore) ListCommits(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats a negative limit as no limit
	}
	const query = `
		SELECT id, hash, source, type, scope, breaking, description, span_start, span_end, created_at
		FROM commits
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &ErrDatabase{Op: "query commits", Err: err}
	}
	defer rows.Close()

	var list []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &ErrDatabase{Op: "scan commit", Err: err}
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &ErrDatabase{Op: "query commits", Err: err}
	}
	// footers are loaded after the rows are closed since the pool may hold a single connection
	rows.Close()

	for _, rec := range list {
		if err := s.loadFooters(ctx, rec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *SQLiteStore) loadFooters(ctx context.Context, rec *Record) error {
	const query = `
		SELECT token, scope, separator, value, breaking, span_start, span_end
		FROM footers
		WHERE commit_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, rec.ID)
	if err != nil {
		return &ErrDatabase{Op: "query footers", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var f ccmsg.CommitFooter
		var breaking int
		if err := rows.Scan(&f.Token, &f.Scope, &f.Separator, &f.Value, &breaking, &f.Span.Start, &f.Span.End); err != nil {
			return &ErrDatabase{Op: "scan footer", Err: err}
		}
		f.Breaking = breaking == 1
		rec.Commit.Footers = append(rec.Commit.Footers, f)
	}
	if err := rows.Err(); err != nil {
		return &ErrDatabase{Op: "query footers", Err: err}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var breaking int
	var createdAt string
	err := row.Scan(
		&rec.ID,
		&rec.Hash,
		&rec.Source,
		&rec.Commit.Type,
		&rec.Commit.Scope,
		&breaking,
		&rec.Commit.Description,
		&rec.Commit.Span.Start,
		&rec.Commit.Span.End,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Commit.Breaking = breaking == 1
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
