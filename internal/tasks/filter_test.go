package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/store"
)

func TestFilterState_GetSet(t *testing.T) {
	kv := store.NewMemory()
	fs := NewFilterState(NewAdapter(kv))

	assert.Equal(t, models.FilterAll, fs.Get())

	require.NoError(t, fs.Set(models.FilterActive))
	assert.Equal(t, models.FilterActive, fs.Get())

	// A fresh state over the same store sees the persisted value.
	assert.Equal(t, models.FilterActive, NewFilterState(NewAdapter(kv)).Get())

	assert.ErrorIs(t, fs.Set(models.Filter("done")), ErrInvalidFilter)
	assert.Equal(t, models.FilterActive, fs.Get())
}

func TestFilterState_Reset(t *testing.T) {
	kv := store.NewMemory()
	fs := NewFilterState(NewAdapter(kv))
	require.NoError(t, fs.Set(models.FilterCompleted))

	require.NoError(t, fs.Reset())

	_, ok, _ := kv.Get(FilterKey)
	assert.False(t, ok, "key is removed")
	assert.Equal(t, models.FilterAll, fs.Get())
	assert.NoError(t, fs.Reset(), "resetting twice is fine")
}

func TestApply(t *testing.T) {
	all := []models.Task{
		{ID: "1", Text: "a", Completed: true},
		{ID: "2", Text: "b"},
		{ID: "3", Text: "c", Completed: true},
		{ID: "4", Text: "d"},
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, texts(Apply(all, models.FilterAll)))
	assert.Equal(t, []string{"b", "d"}, texts(Apply(all, models.FilterActive)))
	assert.Equal(t, []string{"a", "c"}, texts(Apply(all, models.FilterCompleted)))
	assert.Len(t, all, 4, "input is not modified")
	assert.Empty(t, Apply(nil, models.FilterActive))
}

func TestFilterScenario(t *testing.T) {
	repo, kv := newTestRepository(t)
	fs := NewFilterState(NewAdapter(kv))

	a, _ := repo.Add("a")
	repo.Add("b")
	require.NoError(t, repo.SetCompleted(a.ID, true))

	require.NoError(t, fs.Set(models.FilterActive))
	assert.Equal(t, []string{"b"}, texts(Apply(repo.List(), fs.Get())))

	require.NoError(t, fs.Set(models.FilterCompleted))
	assert.Equal(t, []string{"a"}, texts(Apply(repo.List(), fs.Get())))

	assert.Equal(t, 1, Remaining(repo.List()), "remaining ignores the filter")
}

func TestParseFilter(t *testing.T) {
	for _, f := range models.Filters {
		got, ok := models.ParseFilter(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	got, ok := models.ParseFilter("ALL")
	assert.False(t, ok)
	assert.Equal(t, models.FilterAll, got)
}
