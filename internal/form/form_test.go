package form

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/jsonfile"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var programs = []string{"B.Tech CSE", "B.Tech ECE", "B.Sc Physics", "B.Com"}

func newController(t *testing.T) (*Controller, *jsonfile.Store) {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "srms_records.json"), "SRM University AP", zerolog.New(io.Discard))
	return New(store, programs, zerolog.New(io.Discard)), store
}

func asha() types.Fields {
	return types.Fields{RegNo: "AP2301", Name: "Asha Rao", Program: "B.Tech CSE", CGPA: "8.75"}
}

// answer returns a Confirmer that replies yes synchronously and records
// each prompt.
func answer(yes bool, prompts *[]string) Confirmer {
	return func(prompt string, reply func(bool)) {
		*prompts = append(*prompts, prompt)
		reply(yes)
	}
}

func deleteSync(c *Controller, f types.Fields, confirm Confirmer) Outcome {
	var out Outcome
	calls := 0
	c.Delete(f, confirm, func(o Outcome) {
		calls++
		out = o
	})
	if calls != 1 {
		panic("done must be called exactly once")
	}
	return out
}

func TestController_AddViewDeleteScenario(t *testing.T) {
	c, _ := newController(t)

	out := c.Add(asha())
	require.Equal(t, Success, out.Kind, out.Message)
	assert.Contains(t, out.Message, "Asha Rao")
	assert.Contains(t, out.Message, "AP2301")
	assert.Equal(t, "Status: Success: Record for Asha Rao (AP2301) added.", out.Status())
	assert.Equal(t, c.Defaults(), out.Fields)

	out = c.View(types.Fields{RegNo: "AP2301"})
	require.Equal(t, Success, out.Kind, out.Message)
	assert.Equal(t, "Found record for Asha Rao.", out.Message)
	assert.Equal(t, "Registration No: AP2301\nName: Asha Rao\nProgram: B.Tech CSE\nCGPA: 8.75\nUniversity: SRM University AP", out.Output)
	assert.Equal(t, asha(), out.Fields)

	var prompts []string
	out = deleteSync(c, types.Fields{RegNo: "AP2301"}, answer(true, &prompts))
	require.Equal(t, Success, out.Kind, out.Message)
	assert.Equal(t, "Success: Record AP2301 deleted.", out.Message)
	assert.Equal(t, []string{"Are you sure you want to delete record for AP2301?"}, prompts)

	out = c.View(types.Fields{RegNo: "AP2301"})
	assert.Equal(t, Failure, out.Kind)
	assert.Equal(t, "Error: Registration No. AP2301 not found.", out.Message)
}

func TestController_AddDuplicate(t *testing.T) {
	c, store := newController(t)

	require.Equal(t, Success, c.Add(asha()).Kind)

	dup := asha()
	dup.Name = "Someone Else"
	out := c.Add(dup)
	assert.Equal(t, Failure, out.Kind)
	assert.Contains(t, out.Message, "already exists")
	assert.Equal(t, dup, out.Fields, "fields are kept on failure")

	rec, _, err := store.View("AP2301")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", rec.Name)
}

func TestController_CGPAValidation(t *testing.T) {
	cases := []struct {
		cgpa string
		kind Kind
		msg  string
	}{
		{"0.0", Success, ""},
		{"10.0", Success, ""},
		{"0", Success, ""},
		{"10", Success, ""},
		{" 7.5 ", Success, ""},
		{"-0.01", Invalid, response.MsgCGPAOutOfRange},
		{"10.01", Invalid, response.MsgCGPAOutOfRange},
		{"NaN", Invalid, response.MsgCGPAOutOfRange},
		{"Inf", Invalid, response.MsgCGPAOutOfRange},
		{"abc", Invalid, response.MsgCGPANotNumber},
		{"8,5", Invalid, response.MsgCGPANotNumber},
		{"1e400", Invalid, response.MsgCGPAOutOfRange},
		{"-1e400", Invalid, response.MsgCGPAOutOfRange},
		{"0x1p3", Invalid, response.MsgCGPANotNumber},
		{"0X1P-1", Invalid, response.MsgCGPANotNumber},
		{"1e0", Success, ""},
	}

	for _, tc := range cases {
		t.Run(tc.cgpa, func(t *testing.T) {
			c, store := newController(t)
			f := asha()
			f.CGPA = tc.cgpa

			out := c.Add(f)
			assert.Equal(t, tc.kind, out.Kind, out.Message)
			if tc.kind == Invalid {
				assert.Equal(t, tc.msg, out.Message)
				assert.Equal(t, f, out.Fields)
				entries, err := store.List()
				require.NoError(t, err)
				assert.Empty(t, entries, "store must be untouched")
			}
		})
	}
}

func TestController_RequiredFields(t *testing.T) {
	c, store := newController(t)

	for name, f := range map[string]types.Fields{
		"name":    {RegNo: "AP2301", Name: "  ", Program: "B.Com", CGPA: "8"},
		"program": {RegNo: "AP2301", Name: "Asha", Program: "", CGPA: "8"},
		"cgpa":    {RegNo: "AP2301", Name: "Asha", Program: "B.Com", CGPA: ""},
	} {
		out := c.Add(f)
		assert.Equal(t, Invalid, out.Kind, name)
		assert.Equal(t, response.MsgFieldsRequired, out.Message, name)

		out = c.Update(f)
		assert.Equal(t, Invalid, out.Kind, name)
		assert.Equal(t, response.MsgFieldsRequired, out.Message, name)
	}

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestController_RegNoRequired(t *testing.T) {
	c, _ := newController(t)
	blank := types.Fields{RegNo: "   ", Name: "Asha", Program: "B.Com", CGPA: "8"}

	for _, out := range []Outcome{c.Add(blank), c.View(blank), c.Update(blank)} {
		assert.Equal(t, Invalid, out.Kind)
		assert.Equal(t, response.MsgRegNoRequired, out.Message)
	}

	var prompts []string
	out := deleteSync(c, blank, answer(true, &prompts))
	assert.Equal(t, Invalid, out.Kind)
	assert.Equal(t, response.MsgRegNoRequired, out.Message)
	assert.Empty(t, prompts, "no confirmation without a registration number")
}

func TestController_TrimsInput(t *testing.T) {
	c, store := newController(t)

	out := c.Add(types.Fields{RegNo: "  AP2301 ", Name: " Asha Rao ", Program: "B.Tech CSE", CGPA: "8.75"})
	require.Equal(t, Success, out.Kind, out.Message)

	rec, ok, err := store.View("AP2301")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", rec.Name)
}

func TestController_UnknownProgram(t *testing.T) {
	c, _ := newController(t)
	f := asha()
	f.Program = "MBA"

	out := c.Add(f)
	assert.Equal(t, Invalid, out.Kind)
	assert.Equal(t, response.MsgInvalidProgram, out.Message)
}

func TestController_FreeTextPrograms(t *testing.T) {
	store := jsonfile.New(filepath.Join(t.TempDir(), "srms_records.json"), "SRM University AP", zerolog.New(io.Discard))
	c := New(store, nil, zerolog.New(io.Discard))

	assert.Equal(t, types.Fields{}, c.Defaults())

	f := asha()
	f.Program = "MBA"
	out := c.Add(f)
	assert.Equal(t, Success, out.Kind, out.Message)
}

func TestController_Update(t *testing.T) {
	c, store := newController(t)

	out := c.Update(asha())
	assert.Equal(t, Failure, out.Kind)
	assert.Equal(t, "Error: Registration No. AP2301 not found for update.", out.Message)
	assert.Equal(t, asha(), out.Fields)

	require.Equal(t, Success, c.Add(asha()).Kind)

	out = c.Update(types.Fields{RegNo: "AP2301", Name: "Asha R.", Program: "B.Com", CGPA: "9"})
	require.Equal(t, Success, out.Kind, out.Message)
	assert.Equal(t, "Success: Record for AP2301 updated.", out.Message)
	assert.Equal(t, c.Defaults(), out.Fields)

	rec, _, err := store.View("AP2301")
	require.NoError(t, err)
	assert.Equal(t, types.Record{Name: "Asha R.", Program: "B.Com", CGPA: 9, University: "SRM University AP"}, rec)
}

func TestController_ViewMissKeepsFields(t *testing.T) {
	c, _ := newController(t)
	f := types.Fields{RegNo: "AP9999", Name: "typed", Program: "B.Com", CGPA: "5"}

	out := c.View(f)
	assert.Equal(t, Failure, out.Kind)
	assert.Equal(t, out.Message, out.Output)
	assert.Equal(t, f, out.Fields)
}

func TestController_DeleteCancelled(t *testing.T) {
	c, store := newController(t)
	require.Equal(t, Success, c.Add(asha()).Kind)

	var prompts []string
	f := types.Fields{RegNo: "AP2301"}
	out := deleteSync(c, f, answer(false, &prompts))
	assert.Equal(t, Cancelled, out.Kind)
	assert.Equal(t, "Status: Deletion cancelled.", out.Status())
	assert.Empty(t, out.Output)
	assert.Equal(t, f, out.Fields)
	assert.Len(t, prompts, 1)

	_, ok, err := store.View("AP2301")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestController_DeleteMissing(t *testing.T) {
	c, _ := newController(t)
	f := types.Fields{RegNo: "AP9999", Name: "typed"}

	var prompts []string
	out := deleteSync(c, f, answer(true, &prompts))
	assert.Equal(t, Failure, out.Kind)
	assert.Equal(t, "Error: Registration No. AP9999 not found for deletion.", out.Message)
	assert.Equal(t, f, out.Fields)
}

func TestController_List(t *testing.T) {
	c, _ := newController(t)

	out := c.List(types.Fields{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "No records.", out.Output)

	require.Equal(t, Success, c.Add(asha()).Kind)
	out = c.List(types.Fields{RegNo: "x"})
	assert.Equal(t, "1 record.", out.Message)
	assert.Equal(t, "AP2301 | Asha Rao | B.Tech CSE | 8.75", out.Output)
	assert.Equal(t, types.Fields{RegNo: "x"}, out.Fields)
}

// brokenStore fails every call with a persistence error.
type brokenStore struct{ storage.Storage }

var errDisk = errors.New("disk full")

func (brokenStore) Add(string, string, string, float64) (types.Record, error) {
	return types.Record{}, errors.Join(storage.ErrPersistence, errDisk)
}

func TestController_StorageErrorIsReported(t *testing.T) {
	c := New(brokenStore{}, programs, zerolog.New(io.Discard))

	out := c.Add(asha())
	assert.Equal(t, Failure, out.Kind)
	assert.Contains(t, out.Message, "disk full")
	assert.Equal(t, asha(), out.Fields)
}
