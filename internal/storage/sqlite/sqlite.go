// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It is selected with storage.driver: sqlite and keeps exactly the same
// semantics as the JSON snapshot store: the registration number is the
// primary key, and every mutation is committed before it returns.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db         *sql.DB
	university string
	log        zerolog.Logger
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
func New(path, university string, log zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			reg_no     TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			program    TEXT NOT NULL,
			cgpa       REAL NOT NULL CHECK (cgpa >= 0 AND cgpa <= 10),
			university TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{
		Db:         db,
		university: university,
		log:        log.With().Str("component", "sqlite").Logger(),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// exists reports whether regNo has a row.
//
// COUNT(1) always returns exactly one row, so Scan never sees
// sql.ErrNoRows here: a missing key simply counts as 0.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) exists(regNo string) (bool, error) {
	var n int
	err := s.Db.QueryRow("SELECT COUNT(1) FROM students WHERE reg_no = ?", regNo).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("exists: scan: %w", err)
	}
	return n > 0, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Add inserts a new row into the students table.
//
// HOW PREPARED STATEMENTS KEEP INPUT OUT OF THE SQL:
// ───────────────────────────────────────────────────
// The ? placeholders are sent to SQLite separately from the values, so a
// name like "'); DROP TABLE students; --" is stored as plain text.
// A CGPA outside [0, 10] trips the table's CHECK constraint and comes
// back as an ErrPersistence failure.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Add(regNo, name, program string, cgpa float64) (types.Record, error) {
	found, err := s.exists(regNo)
	if err != nil {
		return types.Record{}, fmt.Errorf("Add: %w: %v", storage.ErrPersistence, err)
	}
	if found {
		return types.Record{}, fmt.Errorf("add %s: %w", regNo, storage.ErrDuplicateKey)
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO students (reg_no, name, program, cgpa, university) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return types.Record{}, fmt.Errorf("Add: prepare: %w: %v", storage.ErrPersistence, err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(regNo, name, program, cgpa, s.university); err != nil {
		return types.Record{}, fmt.Errorf("Add: exec: %w: %v", storage.ErrPersistence, err)
	}

	s.log.Info().Str("reg_no", regNo).Msg("record added")
	return types.Record{Name: name, Program: program, CGPA: cgpa, University: s.university}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// View fetches exactly one row matched by registration number.
//
// HOW QueryRow + Scan WORK:
// ──────────────────────────
// QueryRow never returns nil. If nothing matched, the error only shows
// up when Scan is called, as sql.ErrNoRows, which View turns into
// found == false rather than an error.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) View(regNo string) (types.Record, bool, error) {
	stmt, err := s.Db.Prepare(
		"SELECT name, program, cgpa, university FROM students WHERE reg_no = ? LIMIT 1",
	)
	if err != nil {
		return types.Record{}, false, fmt.Errorf("View: prepare: %w", err)
	}
	defer stmt.Close()

	var rec types.Record
	err = stmt.QueryRow(regNo).Scan(&rec.Name, &rec.Program, &rec.CGPA, &rec.University)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, false, nil
	}
	if err != nil {
		return types.Record{}, false, fmt.Errorf("View: scan: %w", err)
	}

	return rec, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update replaces name, program and cgpa. The university column is
// never touched.
//
// RowsAffected tells a missing key apart from a successful update: an
// UPDATE that matches nothing is not an error to SQLite, it just
// changes 0 rows.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Update(regNo, name, program string, cgpa float64) (types.Record, error) {
	stmt, err := s.Db.Prepare(
		"UPDATE students SET name = ?, program = ?, cgpa = ? WHERE reg_no = ?",
	)
	if err != nil {
		return types.Record{}, fmt.Errorf("Update: prepare: %w: %v", storage.ErrPersistence, err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(name, program, cgpa, regNo)
	if err != nil {
		return types.Record{}, fmt.Errorf("Update: exec: %w: %v", storage.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.Record{}, fmt.Errorf("Update: rows affected: %w: %v", storage.ErrPersistence, err)
	}
	if n == 0 {
		return types.Record{}, fmt.Errorf("update %s: %w", regNo, storage.ErrNotFound)
	}

	s.log.Info().Str("reg_no", regNo).Msg("record updated")

	// Re-fetch so the caller sees exactly what is stored.
	rec, _, err := s.View(regNo)
	return rec, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete removes a row by registration number. Like Update, 0 rows
// affected means the key was not there.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Delete(regNo string) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE reg_no = ?")
	if err != nil {
		return fmt.Errorf("Delete: prepare: %w: %v", storage.ErrPersistence, err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(regNo)
	if err != nil {
		return fmt.Errorf("Delete: exec: %w: %v", storage.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w: %v", storage.ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", regNo, storage.ErrNotFound)
	}

	s.log.Info().Str("reg_no", regNo).Msg("record deleted")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List returns all rows ordered by registration number.
//
// HOW Query + rows.Next() WORK:
// ──────────────────────────────
// Query returns a cursor over the result set. rows.Next advances it and
// returns false when exhausted; rows.Err then reports anything that
// went wrong mid-iteration. The slice starts non-nil so an empty table
// lists as [] rather than null.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) List() ([]types.Entry, error) {
	rows, err := s.Db.Query(
		"SELECT reg_no, name, program, cgpa, university FROM students ORDER BY reg_no",
	)
	if err != nil {
		return nil, fmt.Errorf("List: query: %w", err)
	}
	defer rows.Close()

	entries := make([]types.Entry, 0)
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.RegNo, &e.Name, &e.Program, &e.CGPA, &e.University); err != nil {
			return nil, fmt.Errorf("List: scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows iteration: %w", err)
	}

	return entries, nil
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

var _ storage.Storage = (*SQLite)(nil)
