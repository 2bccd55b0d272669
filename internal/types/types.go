// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// the form controller, the storage backends, and the GUI can all import
// types without depending on each other.
package types

// Record is one student's stored data. The registration number is not
// part of the record itself; it is the key the record is stored under.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     controls the key names in the snapshot file.
//  2. validate:"..." rules checked by go-playground/validator before a
//     record ever reaches a store. "program" is a custom rule registered
//     by the form controller against the configured program list.
type Record struct {
	Name       string  `json:"name"       validate:"required"`
	Program    string  `json:"program"    validate:"required,program"`
	CGPA       float64 `json:"cgpa"       validate:"gte=0,lte=10"`
	University string  `json:"university"`
}

// Entry pairs a record with its registration number, for listings.
type Entry struct {
	RegNo string `json:"registration_number"`
	Record
}

// Fields are the raw text values of the four form inputs.
// Nothing in here has been trimmed, parsed, or validated.
type Fields struct {
	RegNo   string
	Name    string
	Program string
	CGPA    string
}

// Input is the trimmed form of Fields that validation runs against.
// CGPA stays textual here; it is parsed only after the required checks.
type Input struct {
	RegNo   string `validate:"required"`
	Name    string `validate:"required"`
	Program string `validate:"required"`
	CGPA    string `validate:"required"`
}
