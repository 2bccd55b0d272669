// Package storagetest is a contract test suite that every
// storage.Storage backend runs against itself.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// University is the value the factory must configure its store with.
const University = "SRM University AP"

// Factory opens a fresh, empty store. Each call gets its own backing file.
type Factory func(t *testing.T) storage.Storage

// Run exercises the full Storage contract.
func Run(t *testing.T, open Factory) {
	t.Run("AddThenView", func(t *testing.T) {
		s := open(t)

		rec, err := s.Add("AP2301", "Asha Rao", "B.Tech CSE", 8.75)
		require.NoError(t, err)
		assert.Equal(t, University, rec.University)

		got, ok, err := s.View("AP2301")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, types.Record{
			Name:       "Asha Rao",
			Program:    "B.Tech CSE",
			CGPA:       8.75,
			University: University,
		}, got)
	})

	t.Run("ViewMissing", func(t *testing.T) {
		s := open(t)

		_, ok, err := s.View("nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("AddDuplicateKeepsOriginal", func(t *testing.T) {
		s := open(t)

		_, err := s.Add("AP2301", "Asha Rao", "B.Tech CSE", 8.75)
		require.NoError(t, err)

		_, err = s.Add("AP2301", "Someone Else", "B.Com", 5)
		require.ErrorIs(t, err, storage.ErrDuplicateKey)

		got, ok, err := s.View("AP2301")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Asha Rao", got.Name)
		assert.Equal(t, 8.75, got.CGPA)
	})

	t.Run("UpdateKeepsUniversity", func(t *testing.T) {
		s := open(t)

		_, err := s.Add("AP2301", "Asha Rao", "B.Tech CSE", 8.75)
		require.NoError(t, err)

		rec, err := s.Update("AP2301", "Asha R.", "B.Tech ECE", 9.1)
		require.NoError(t, err)
		assert.Equal(t, University, rec.University)

		got, ok, err := s.View("AP2301")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, types.Record{
			Name:       "Asha R.",
			Program:    "B.Tech ECE",
			CGPA:       9.1,
			University: University,
		}, got)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := open(t)

		_, err := s.Update("AP9999", "X", "B.Com", 1)
		require.ErrorIs(t, err, storage.ErrNotFound)

		entries, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("DeleteThenMissing", func(t *testing.T) {
		s := open(t)

		_, err := s.Add("AP2301", "Asha Rao", "B.Tech CSE", 8.75)
		require.NoError(t, err)

		require.NoError(t, s.Delete("AP2301"))

		_, ok, err := s.View("AP2301")
		require.NoError(t, err)
		assert.False(t, ok)

		require.ErrorIs(t, s.Delete("AP2301"), storage.ErrNotFound)
		_, err = s.Update("AP2301", "Asha Rao", "B.Tech CSE", 8.75)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("CGPABounds", func(t *testing.T) {
		s := open(t)

		_, err := s.Add("LOW", "Low", "B.Com", 0)
		require.NoError(t, err)
		_, err = s.Add("HIGH", "High", "B.Com", 10)
		require.NoError(t, err)

		low, _, err := s.View("LOW")
		require.NoError(t, err)
		assert.Equal(t, 0.0, low.CGPA)
		high, _, err := s.View("HIGH")
		require.NoError(t, err)
		assert.Equal(t, 10.0, high.CGPA)
	})

	t.Run("ListSorted", func(t *testing.T) {
		s := open(t)

		entries, err := s.List()
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)

		for _, reg := range []string{"AP2303", "AP2301", "AP2302"} {
			_, err := s.Add(reg, "Name "+reg, "B.Com", 7)
			require.NoError(t, err)
		}

		entries, err = s.List()
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "AP2301", entries[0].RegNo)
		assert.Equal(t, "AP2302", entries[1].RegNo)
		assert.Equal(t, "AP2303", entries[2].RegNo)
		assert.Equal(t, "Name AP2302", entries[1].Name)
	})
}
