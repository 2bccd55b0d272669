// Package response builds the strings the form shows after an action:
// the one-line status bar text and the multi-line output area text.
//
// Keeping every message in one place means the wording of success and
// error results is consistent across add, view, update and delete.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Validation messages, one per failure kind.
const (
	MsgRegNoRequired  = "Registration Number is required."
	MsgFieldsRequired = "All fields must be filled for Add/Update."
	MsgCGPANotNumber  = "CGPA must be a valid number."
	MsgCGPAOutOfRange = "CGPA must be between 0.0 and 10.0."
	MsgInvalidProgram = "Program must be one of the listed programs."
)

// MsgDeleteCancelled is shown when the user declines a delete.
const MsgDeleteCancelled = "Deletion cancelled."

// Status prefixes a message for the status bar.
func Status(msg string) string {
	return "Status: " + msg
}

func Added(regNo, name string) string {
	return fmt.Sprintf("Success: Record for %s (%s) added.", name, regNo)
}

func Duplicate(regNo string) string {
	return fmt.Sprintf("Error: Registration No. %s already exists.", regNo)
}

func Updated(regNo string) string {
	return fmt.Sprintf("Success: Record for %s updated.", regNo)
}

func UpdateNotFound(regNo string) string {
	return fmt.Sprintf("Error: Registration No. %s not found for update.", regNo)
}

func Deleted(regNo string) string {
	return fmt.Sprintf("Success: Record %s deleted.", regNo)
}

func DeleteNotFound(regNo string) string {
	return fmt.Sprintf("Error: Registration No. %s not found for deletion.", regNo)
}

func ViewNotFound(regNo string) string {
	return fmt.Sprintf("Error: Registration No. %s not found.", regNo)
}

func Found(name string) string {
	return fmt.Sprintf("Found record for %s.", name)
}

// StorageError is shown when a backend fails for a reason other than a
// missing or duplicate key.
func StorageError(err error) string {
	return fmt.Sprintf("Error: %s", err.Error())
}

// DeletePrompt is the confirmation question asked before a delete.
func DeletePrompt(regNo string) string {
	return fmt.Sprintf("Are you sure you want to delete record for %s?", regNo)
}

// ─────────────────────────────────────────────────────────────────────────────
// Summary renders one record for the output area. CGPA is always shown
// with two decimals.
//
// Example output:
//
//	Registration No: AP2301
//	Name: Asha Rao
//	Program: B.Tech CSE
//	CGPA: 8.75
//	University: SRM University AP
//
// ─────────────────────────────────────────────────────────────────────────────
func Summary(regNo string, rec types.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Registration No: %s\n", regNo)
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Program: %s\n", rec.Program)
	fmt.Fprintf(&b, "CGPA: %.2f\n", rec.CGPA)
	fmt.Fprintf(&b, "University: %s", rec.University)
	return b.String()
}

func Listed(n int) string {
	if n == 1 {
		return "1 record."
	}
	return fmt.Sprintf("%d records.", n)
}

// Listing renders every entry on its own line.
func Listing(entries []types.Entry) string {
	if len(entries) == 0 {
		return "No records."
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %.2f", e.RegNo, e.Name, e.Program, e.CGPA))
	}
	return strings.Join(lines, "\n")
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// the single message the form shows.
//
// go-playground/validator returns one FieldError per failing struct
// field, in field order. The first failure of each kind wins, and a
// missing registration number beats everything else:
//
//	RegNo "required"          -> "Registration Number is required."
//	other "required"          -> "All fields must be filled for Add/Update."
//	"gte" / "lte" (CGPA)      -> "CGPA must be between 0.0 and 10.0."
//	"program"                 -> "Program must be one of the listed programs."
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) string {
	var msg string
	for _, e := range errs {
		switch {
		case e.Field() == "RegNo":
			return MsgRegNoRequired
		case e.ActualTag() == "required":
			msg = pick(msg, MsgFieldsRequired)
		case e.ActualTag() == "gte" || e.ActualTag() == "lte":
			msg = pick(msg, MsgCGPAOutOfRange)
		case e.ActualTag() == "program":
			msg = pick(msg, MsgInvalidProgram)
		default:
			msg = pick(msg, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return msg
}

func pick(current, next string) string {
	if current != "" {
		return current
	}
	return next
}
