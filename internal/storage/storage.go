// Package storage defines the Storage interface, the contract that any
// record backend must satisfy to work with the form controller.
//
// The controller depends only on this interface, so the JSON snapshot
// store and the SQLite store are interchangeable, and tests can run the
// same contract against both.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Sentinel errors. Backends wrap these with context; callers test them
// with errors.Is.
var (
	// ErrDuplicateKey is returned by Add when the registration number is
	// already in use.
	ErrDuplicateKey = errors.New("registration number already exists")

	// ErrNotFound is returned by Update and Delete when the registration
	// number is not in the store.
	ErrNotFound = errors.New("registration number not found")

	// ErrPersistence is returned when a mutation could not be written to
	// disk. The in-memory state is rolled back before it is returned.
	ErrPersistence = errors.New("could not persist records")
)

// ─────────────────────────────────────────────────────────────────────────────
// Storage is the record store contract.
// Any concrete type that implements all of these methods satisfies it
// implicitly; there is no "implements" keyword.
//
// Failures come back as errors wrapping the sentinels above:
//
//	if errors.Is(err, storage.ErrNotFound) { ... }
//
// ─────────────────────────────────────────────────────────────────────────────
type Storage interface {
	// Add inserts a new record under regNo with the store's fixed
	// university, and persists. Fails with ErrDuplicateKey if regNo exists.
	Add(regNo, name, program string, cgpa float64) (types.Record, error)

	// View is a pure lookup. The bool reports whether regNo was found.
	View(regNo string) (types.Record, bool, error)

	// Update replaces name, program and cgpa of an existing record in
	// place and persists. Fails with ErrNotFound if regNo is absent.
	// The registration number and university are never changed.
	Update(regNo, name, program string, cgpa float64) (types.Record, error)

	// Delete removes the record and persists. Fails with ErrNotFound if
	// regNo is absent.
	Delete(regNo string) error

	// List returns every record ordered by registration number.
	// Returns an empty slice (not nil) if there are no records.
	List() ([]types.Entry, error)

	// Close releases any resources held by the backend.
	Close() error
}
