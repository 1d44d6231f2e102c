package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/ticklist/internal/config"
	"github.com/fentz26/ticklist/internal/store"
	"github.com/fentz26/ticklist/internal/tasks"
)

func execute(t *testing.T, dir string, args ...string) error {
	t.Helper()
	listFilter, logLimit, resetFilter = "", 20, false
	base := []string{"--config", filepath.Join(dir, "config.yaml"), "--db", filepath.Join(dir, "ticklist.db")}
	rootCmd.SetArgs(append(base, args...))
	return rootCmd.Execute()
}

func loadTasks(t *testing.T, dir string) *tasks.Repository {
	t.Helper()
	s, err := store.New(filepath.Join(dir, "ticklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return tasks.NewRepository(tasks.NewAdapter(s))
}

func TestCLI_Lifecycle(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, dir, "add", "buy", "milk"))
	require.NoError(t, execute(t, dir, "add", "walk dog"))

	list := loadTasks(t, dir).List()
	require.Len(t, list, 2)
	assert.Equal(t, "buy milk", list[0].Text)
	id := list[0].ID

	require.NoError(t, execute(t, dir, "done", id))
	require.NoError(t, execute(t, dir, "edit", id, "buy", "oat", "milk"))
	require.NoError(t, execute(t, dir, "list", "--filter", "completed"))

	task, ok := loadTasks(t, dir).Get(id)
	require.True(t, ok)
	assert.Equal(t, "buy oat milk", task.Text)
	assert.True(t, task.Completed)

	require.NoError(t, execute(t, dir, "clear-completed"))
	assert.Len(t, loadTasks(t, dir).List(), 1)

	s, err := store.New(filepath.Join(dir, "ticklist.db"))
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.ListJournal(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 5)
}

func TestCLI_Filter(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, dir, "filter", "active"))
	assert.Error(t, execute(t, dir, "filter", "bogus"))

	s, err := store.New(filepath.Join(dir, "ticklist.db"))
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(tasks.FilterKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "active", v)

	require.NoError(t, execute(t, dir, "filter", "--reset"))
	_, ok, err = s.Get(tasks.FilterKey)
	require.NoError(t, err)
	assert.False(t, ok, "reset removes the saved filter")
	assert.Error(t, execute(t, dir, "filter", "--reset", "active"))
}

func TestCLI_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, dir, "filter"))

	cfg, err := config.LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Placeholder, cfg.Placeholder)
	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	got := truncate(strings.Repeat("é", 20), 10)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, runewidth.StringWidth(got), 10)

	got = truncate(strings.Repeat("日", 10), 10)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, runewidth.StringWidth(got), 10)
}

func TestCLI_UnknownID(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, dir, "add", "a"))
	err := execute(t, dir, "rm", "nope")
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
	assert.Error(t, execute(t, dir, "add", "  "))
}

func TestCLI_MigrateLegacy(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(filepath.Join(dir, "ticklist.db"))
	require.NoError(t, err)
	require.NoError(t, s.Set(tasks.TasksKey, `[{"text":"old","completed":true}]`))
	require.NoError(t, s.Close())

	require.NoError(t, execute(t, dir, "migrate"))

	list := loadTasks(t, dir).List()
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
	assert.True(t, list[0].Completed)
}
