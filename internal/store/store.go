package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for compiled programs.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Entry is one archived program row, body excluded.
type Entry struct {
	PatchID       string `json:"patch_id"`
	PatchRevision int64  `json:"patch_revision"`
	Digest        string `json:"digest"`
	IRVersion     string `json:"ir_version"`
	Seed          int64  `json:"seed"`
}

// Put archives a compiled program, replacing any existing row for the same
// (patch_id, patch_revision).
func (s *Store) Put(ctx context.Context, p *ir.CompiledProgram) (Entry, error) {
	body, err := ir.EncodeProgram(p, false)
	if err != nil {
		return Entry{}, fmt.Errorf("encode program: %w", err)
	}
	digest := ir.ProgramDigest(body)

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO programs (patch_id, patch_revision, digest, ir_version, seed, body)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.PatchID, p.PatchRevision, digest, p.IRVersion, p.Seed, string(body))
	if err != nil {
		return Entry{}, fmt.Errorf("insert program: %w", err)
	}
	return Entry{
		PatchID:       p.PatchID,
		PatchRevision: p.PatchRevision,
		Digest:        digest,
		IRVersion:     p.IRVersion,
		Seed:          p.Seed,
	}, nil
}

// Get loads the archived program for (patchID, revision).
// Returns sql.ErrNoRows wrapped when the row does not exist.
func (s *Store) Get(ctx context.Context, patchID string, revision int64) (*ir.CompiledProgram, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM programs WHERE patch_id = ? AND patch_revision = ?`,
		patchID, revision).Scan(&body)
	if err != nil {
		return nil, fmt.Errorf("get program %s@%d: %w", patchID, revision, err)
	}
	return ir.DecodeProgram([]byte(body))
}

// List returns archive entries for a patch in revision order, newest last.
// An empty patchID lists everything, ordered by (patch_id, revision).
func (s *Store) List(ctx context.Context, patchID string) ([]Entry, error) {
	query := `SELECT patch_id, patch_revision, digest, ir_version, seed FROM programs
	          ORDER BY patch_id, patch_revision`
	args := []any{}
	if patchID != "" {
		query = `SELECT patch_id, patch_revision, digest, ir_version, seed FROM programs
		         WHERE patch_id = ? ORDER BY patch_revision`
		args = append(args, patchID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PatchID, &e.PatchRevision, &e.Digest, &e.IRVersion, &e.Seed); err != nil {
			return nil, fmt.Errorf("scan program row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the highest archived revision for a patch.
func (s *Store) Latest(ctx context.Context, patchID string) (*ir.CompiledProgram, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM programs WHERE patch_id = ? ORDER BY patch_revision DESC LIMIT 1`,
		patchID).Scan(&body)
	if err != nil {
		return nil, fmt.Errorf("latest program for %s: %w", patchID, err)
	}
	return ir.DecodeProgram([]byte(body))
}
