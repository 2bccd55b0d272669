// Package form is the controller behind the student record form.
//
// Each action takes the raw text of the four inputs, parses and
// validates it into typed values, calls the store, and returns an
// Outcome describing what the form should show next: the message, the
// output area text, and the field values after the action.
//
// Nothing reaches the store unless validation passed.
package form

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Kind classifies an Outcome.
type Kind int

const (
	// Success means the store accepted the action.
	Success Kind = iota
	// Failure means the store rejected the action (missing or duplicate key).
	Failure
	// Invalid means validation failed and the store was never called.
	Invalid
	// Cancelled means the user declined the delete confirmation.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Invalid:
		return "invalid"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Outcome is the result of one form action.
type Outcome struct {
	Kind Kind

	// Message is the one-line result, shown in the status bar, or in an
	// error dialog when Kind is Invalid.
	Message string

	// Output is the text for the output area. Empty for Invalid and
	// Cancelled, which leave the output area alone.
	Output string

	// Fields are the input values the form should hold afterwards.
	Fields types.Fields
}

// Status is Message formatted for the status bar.
func (o Outcome) Status() string {
	return response.Status(o.Message)
}

// Confirmer asks the user a yes/no question and reports the answer
// through answer. It may call answer later, from the UI event loop.
type Confirmer func(prompt string, answer func(bool))

// Controller validates form input and drives a storage.Storage.
type Controller struct {
	store    storage.Storage
	programs []string
	validate *validator.Validate
	log      zerolog.Logger
}

// New returns a controller over store. programs is the enumerated
// program list; its first entry is the default selection. An empty list
// accepts any non-empty program.
func New(store storage.Storage, programs []string, log zerolog.Logger) *Controller {
	c := &Controller{
		store:    store,
		programs: programs,
		validate: validator.New(),
		log:      log.With().Str("component", "form").Logger(),
	}

	// Registration only fails for an empty tag or a nil func.
	_ = c.validate.RegisterValidation("program", func(fl validator.FieldLevel) bool {
		return len(c.programs) == 0 || slices.Contains(c.programs, fl.Field().String())
	})

	return c
}

// Programs is the enumerated program list, possibly empty.
func (c *Controller) Programs() []string {
	return c.programs
}

// Defaults are the field values of a freshly cleared form.
func (c *Controller) Defaults() types.Fields {
	var f types.Fields
	if len(c.programs) > 0 {
		f.Program = c.programs[0]
	}
	return f
}

func trim(f types.Fields) types.Input {
	return types.Input{
		RegNo:   strings.TrimSpace(f.RegNo),
		Name:    strings.TrimSpace(f.Name),
		Program: strings.TrimSpace(f.Program),
		CGPA:    strings.TrimSpace(f.CGPA),
	}
}

// regNo validates the registration number alone, for view and delete.
func (c *Controller) regNo(f types.Fields) (string, string) {
	in := trim(f)
	if err := c.validate.Var(in.RegNo, "required"); err != nil {
		return "", response.MsgRegNoRequired
	}
	return in.RegNo, ""
}

// ─────────────────────────────────────────────────────────────────────────────
// record parses and validates all four fields, for add and update.
// The last result is the validation message, empty when valid.
//
// PARSE THEN VALIDATE:
// ─────────────────────
//  1. Trim every field and check the required ones on types.Input.
//  2. Parse the CGPA text into a float64.
//  3. Build the typed types.Record and check its rules (CGPA range,
//     program list).
//
// Only a record that got through all three steps is handed to the store.
// ─────────────────────────────────────────────────────────────────────────────
func (c *Controller) record(f types.Fields) (string, types.Record, string) {
	in := trim(f)

	if err := c.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return "", types.Record{}, response.ValidationError(verrs)
		}
		return "", types.Record{}, err.Error()
	}

	cgpa, msg := parseCGPA(in.CGPA)
	if msg != "" {
		return "", types.Record{}, msg
	}

	rec := types.Record{Name: in.Name, Program: in.Program, CGPA: cgpa}
	if err := c.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return "", types.Record{}, response.ValidationError(verrs)
		}
		return "", types.Record{}, err.Error()
	}

	return in.RegNo, rec, ""
}

// ─────────────────────────────────────────────────────────────────────────────
// parseCGPA turns the CGPA text into a number.
//
// strconv.ParseFloat accepts more than a person types into a form: hex
// floats ("0x1p3") are refused here as not a number. A decimal that
// overflows float64 ("1e400") comes back as ±Inf with ErrRange; it is
// still a number, so it is reported as out of range instead.
// ─────────────────────────────────────────────────────────────────────────────
func parseCGPA(text string) (float64, string) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "0x") {
		return 0, response.MsgCGPANotNumber
	}

	cgpa, err := strconv.ParseFloat(text, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, response.MsgCGPAOutOfRange
	}
	if err != nil {
		return 0, response.MsgCGPANotNumber
	}
	return cgpa, ""
}

func (c *Controller) invalid(action string, f types.Fields, msg string) Outcome {
	c.log.Debug().Str("action", action).Str("reason", msg).Msg("input rejected")
	return Outcome{Kind: Invalid, Message: msg, Fields: f}
}

func (c *Controller) failed(f types.Fields, msg string) Outcome {
	return Outcome{Kind: Failure, Message: msg, Output: msg, Fields: f}
}

func (c *Controller) succeeded(msg string) Outcome {
	return Outcome{Kind: Success, Message: msg, Output: msg, Fields: c.Defaults()}
}

// storeFailure maps a store error onto the message for it. notFound
// renders ErrNotFound for the action at hand.
func (c *Controller) storeFailure(f types.Fields, regNo string, err error, notFound func(string) string) Outcome {
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		return c.failed(f, response.Duplicate(regNo))
	case errors.Is(err, storage.ErrNotFound):
		return c.failed(f, notFound(regNo))
	default:
		c.log.Error().Err(err).Str("reg_no", regNo).Msg("store error")
		return c.failed(f, response.StorageError(err))
	}
}

// Add creates a record from the form.
func (c *Controller) Add(f types.Fields) Outcome {
	regNo, rec, msg := c.record(f)
	if msg != "" {
		return c.invalid("add", f, msg)
	}

	c.log.Info().Str("reg_no", regNo).Msg("adding a record")

	if _, err := c.store.Add(regNo, rec.Name, rec.Program, rec.CGPA); err != nil {
		return c.storeFailure(f, regNo, err, response.UpdateNotFound)
	}

	return c.succeeded(response.Added(regNo, rec.Name))
}

// View looks a record up and fills the form from it. A miss keeps the
// form as typed, like every other failure.
func (c *Controller) View(f types.Fields) Outcome {
	regNo, msg := c.regNo(f)
	if msg != "" {
		return c.invalid("view", f, msg)
	}

	c.log.Info().Str("reg_no", regNo).Msg("viewing a record")

	rec, ok, err := c.store.View(regNo)
	if err != nil {
		return c.storeFailure(f, regNo, err, response.ViewNotFound)
	}
	if !ok {
		return c.failed(f, response.ViewNotFound(regNo))
	}

	return Outcome{
		Kind:    Success,
		Message: response.Found(rec.Name),
		Output:  response.Summary(regNo, rec),
		Fields: types.Fields{
			RegNo:   f.RegNo,
			Name:    rec.Name,
			Program: rec.Program,
			CGPA:    strconv.FormatFloat(rec.CGPA, 'f', -1, 64),
		},
	}
}

// Update replaces name, program and CGPA of an existing record.
func (c *Controller) Update(f types.Fields) Outcome {
	regNo, rec, msg := c.record(f)
	if msg != "" {
		return c.invalid("update", f, msg)
	}

	c.log.Info().Str("reg_no", regNo).Msg("updating a record")

	if _, err := c.store.Update(regNo, rec.Name, rec.Program, rec.CGPA); err != nil {
		return c.storeFailure(f, regNo, err, response.UpdateNotFound)
	}

	return c.succeeded(response.Updated(regNo))
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete asks confirm before removing the record, then reports through
// done. done is called exactly once, possibly synchronously.
//
// HOW THE CONFIRMATION FLOWS:
// ────────────────────────────
// A fyne dialog does not block; it calls back when the user answers.
// So Delete hands confirm a closure, and the store is only reached
// from inside that closure once the answer is yes. A no reports
// Cancelled with the fields untouched.
// ─────────────────────────────────────────────────────────────────────────────
func (c *Controller) Delete(f types.Fields, confirm Confirmer, done func(Outcome)) {
	regNo, msg := c.regNo(f)
	if msg != "" {
		done(c.invalid("delete", f, msg))
		return
	}

	confirm(response.DeletePrompt(regNo), func(yes bool) {
		if !yes {
			c.log.Debug().Str("reg_no", regNo).Msg("delete cancelled")
			done(Outcome{Kind: Cancelled, Message: response.MsgDeleteCancelled, Fields: f})
			return
		}

		c.log.Info().Str("reg_no", regNo).Msg("deleting a record")

		if err := c.store.Delete(regNo); err != nil {
			done(c.storeFailure(f, regNo, err, response.DeleteNotFound))
			return
		}
		done(c.succeeded(response.Deleted(regNo)))
	})
}

// List shows every record in the output area. The form is left as is.
func (c *Controller) List(f types.Fields) Outcome {
	entries, err := c.store.List()
	if err != nil {
		c.log.Error().Err(err).Msg("list failed")
		return c.failed(f, response.StorageError(err))
	}

	return Outcome{
		Kind:    Success,
		Message: response.Listed(len(entries)),
		Output:  response.Listing(entries),
		Fields:  f,
	}
}
