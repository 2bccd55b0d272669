// Package jsonfile provides the default storage.Storage implementation:
// an in-memory map of registration number to record, mirrored to a
// single pretty-printed JSON snapshot file.
//
// Every successful mutation rewrites the whole snapshot. The write goes
// to a temporary file in the same directory which is then renamed over
// the snapshot, so a crash mid-write leaves the previous snapshot intact.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Store is the snapshot-file backed record store.
// It is not safe for concurrent use; the application drives it from the
// UI event thread only.
type Store struct {
	path       string
	university string
	records    map[string]types.Record
	log        zerolog.Logger
}

// New returns a store for the snapshot at path and loads it.
// university is stamped onto every record created through Add.
func New(path, university string, log zerolog.Logger) *Store {
	s := &Store{
		path:       path,
		university: university,
		log:        log.With().Str("component", "jsonfile").Logger(),
	}
	s.Load()
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Load replaces the in-memory records with the snapshot's contents.
//
// HOW A BAD SNAPSHOT IS HANDLED:
// ───────────────────────────────
// A missing file gives an empty store. So does one that cannot be read,
// does not decode as an object of records, or holds a CGPA outside
// [0, 10]. Each of those is logged at WARN and otherwise swallowed:
// the caller always gets a usable store, never an error.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Load() {
	s.records = make(map[string]types.Record)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Str("path", s.path).Msg("no snapshot, starting empty")
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("cannot read snapshot, starting empty")
		return
	}

	var records map[string]types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt snapshot, starting empty")
		return
	}
	for regNo, rec := range records {
		if rec.CGPA < 0 || rec.CGPA > 10 {
			s.log.Warn().
				Str("path", s.path).
				Str("reg_no", regNo).
				Float64("cgpa", rec.CGPA).
				Msg("snapshot cgpa out of range, starting empty")
			return
		}
	}
	if records != nil {
		s.records = records
	}

	s.log.Info().Str("path", s.path).Int("records", len(s.records)).Msg("snapshot loaded")
}

// ─────────────────────────────────────────────────────────────────────────────
// Save writes every record to the snapshot file, replacing it.
//
// HOW THE WRITE STAYS ATOMIC:
// ────────────────────────────
// The JSON goes to a temp file in the snapshot's own directory, and that
// file is renamed over the snapshot. A rename within one directory
// replaces the old file in a single step, so a reader sees either the
// previous snapshot or the new one, never half of each.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.records, "", "    ")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp makes the file 0600. Keep the snapshot's current mode,
	// or 0644 for a new one.
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: chmod: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: rename: %w", err)
	}

	return nil
}

// persist saves and, if that fails, runs undo so memory stays equal to
// the last snapshot on disk.
func (s *Store) persist(undo func()) error {
	if err := s.Save(); err != nil {
		undo()
		s.log.Error().Err(err).Str("path", s.path).Msg("save failed, mutation rolled back")
		return fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}
	return nil
}

func (s *Store) Add(regNo, name, program string, cgpa float64) (types.Record, error) {
	if _, ok := s.records[regNo]; ok {
		return types.Record{}, fmt.Errorf("add %s: %w", regNo, storage.ErrDuplicateKey)
	}

	rec := types.Record{
		Name:       name,
		Program:    program,
		CGPA:       cgpa,
		University: s.university,
	}
	s.records[regNo] = rec

	if err := s.persist(func() { delete(s.records, regNo) }); err != nil {
		return types.Record{}, err
	}

	s.log.Info().Str("reg_no", regNo).Msg("record added")
	return rec, nil
}

func (s *Store) View(regNo string) (types.Record, bool, error) {
	rec, ok := s.records[regNo]
	return rec, ok, nil
}

func (s *Store) Update(regNo, name, program string, cgpa float64) (types.Record, error) {
	old, ok := s.records[regNo]
	if !ok {
		return types.Record{}, fmt.Errorf("update %s: %w", regNo, storage.ErrNotFound)
	}

	rec := old
	rec.Name = name
	rec.Program = program
	rec.CGPA = cgpa
	s.records[regNo] = rec

	if err := s.persist(func() { s.records[regNo] = old }); err != nil {
		return types.Record{}, err
	}

	s.log.Info().Str("reg_no", regNo).Msg("record updated")
	return rec, nil
}

func (s *Store) Delete(regNo string) error {
	old, ok := s.records[regNo]
	if !ok {
		return fmt.Errorf("delete %s: %w", regNo, storage.ErrNotFound)
	}

	delete(s.records, regNo)

	if err := s.persist(func() { s.records[regNo] = old }); err != nil {
		return err
	}

	s.log.Info().Str("reg_no", regNo).Msg("record deleted")
	return nil
}

func (s *Store) List() ([]types.Entry, error) {
	entries := make([]types.Entry, 0, len(s.records))
	for regNo, rec := range s.records {
		entries = append(entries, types.Entry{RegNo: regNo, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RegNo < entries[j].RegNo })
	return entries, nil
}

// Close is a no-op; the snapshot is already on disk after each mutation.
func (s *Store) Close() error { return nil }

var _ storage.Storage = (*Store)(nil)
