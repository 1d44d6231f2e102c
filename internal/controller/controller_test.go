package controller

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/store"
	"github.com/fentz26/ticklist/internal/tasks"
	"github.com/fentz26/ticklist/internal/view"
)

type fakeInput struct{ value string }

func (f *fakeInput) Value() string     { return f.value }
func (f *fakeInput) SetValue(v string) { f.value = v }

type fixture struct {
	kv    *store.Memory
	repo  *tasks.Repository
	input *fakeInput
	doc   *view.Document
	ctrl  *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemory()
	n := 0
	repo := tasks.NewRepository(tasks.NewAdapter(kv), tasks.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	input := &fakeInput{}
	doc := view.NewDocument(input)
	ctrl := New(repo, tasks.NewFilterState(tasks.NewAdapter(kv)), doc)
	require.NoError(t, ctrl.Start())
	return &fixture{kv: kv, repo: repo, input: input, doc: doc, ctrl: ctrl}
}

func (f *fixture) add(t *testing.T, text string) string {
	t.Helper()
	f.input.SetValue(text)
	require.NoError(t, f.ctrl.SubmitAdd())
	list := f.repo.List()
	return list[len(list)-1].ID
}

func (f *fixture) rowTexts() []string {
	var out []string
	for _, r := range f.doc.List.Rows() {
		out = append(out, r.Text)
	}
	return out
}

func TestSubmitAdd(t *testing.T) {
	f := newFixture(t)

	f.input.SetValue("buy milk")
	require.NoError(t, f.ctrl.SubmitAdd())

	assert.Equal(t, []models.Task{{ID: "id-1", Text: "buy milk"}}, f.repo.List())
	assert.Equal(t, []string{"buy milk"}, f.rowTexts())
	assert.Equal(t, 1, f.doc.Count.Remaining())
	assert.Empty(t, f.input.Value(), "input is cleared")
}

func TestSubmitAdd_BlankIsIgnored(t *testing.T) {
	f := newFixture(t)

	f.input.SetValue("   ")
	require.NoError(t, f.ctrl.SubmitAdd())

	assert.Empty(t, f.repo.List())
	assert.Zero(t, f.doc.List.Len())
	_, ok, _ := f.kv.Get(tasks.TasksKey)
	assert.False(t, ok, "nothing is written")
}

func TestSubmitAdd_UnderCompletedFilter(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.SelectFilter(models.FilterCompleted))

	f.add(t, "hidden")

	assert.Zero(t, f.doc.List.Len(), "new incomplete task is not appended")
	assert.Equal(t, 1, f.doc.Count.Remaining(), "count still reflects the new task")
	assert.Len(t, f.repo.List(), 1)
}

func TestClick_TogglesCompleted(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, "a")
	f.add(t, "b")

	require.NoError(t, f.ctrl.Click(id, TargetRow))
	task, _ := f.repo.Get(id)
	assert.True(t, task.Completed)
	row, _ := f.doc.List.Row(id)
	assert.True(t, row.Completed)
	assert.Equal(t, 1, f.doc.Count.Remaining())

	require.NoError(t, f.ctrl.Click(id, TargetRow))
	task, _ = f.repo.Get(id)
	assert.False(t, task.Completed)
	assert.Equal(t, 2, f.doc.Count.Remaining())
}

func TestClick_Delete(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a")
	f.add(t, "b")

	require.NoError(t, f.ctrl.Click(a, TargetDelete))

	assert.Equal(t, []string{"b"}, f.rowTexts())
	assert.Len(t, f.repo.List(), 1)
	assert.Equal(t, 1, f.doc.Count.Remaining())
}

func TestClick_UnknownRowIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a")

	assert.NoError(t, f.ctrl.Click("missing", TargetRow))
	assert.NoError(t, f.ctrl.Click("missing", TargetDelete))
	assert.Len(t, f.repo.List(), 1)
}

func TestSelectFilter(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a")
	f.add(t, "b")
	require.NoError(t, f.ctrl.Click(a, TargetRow))

	require.NoError(t, f.ctrl.SelectFilter(models.FilterActive))
	assert.Equal(t, []string{"b"}, f.rowTexts())
	assert.True(t, f.doc.Filters.IsPressed(models.FilterActive))

	require.NoError(t, f.ctrl.SelectFilter(models.FilterCompleted))
	assert.Equal(t, []string{"a"}, f.rowTexts())
	assert.Equal(t, 1, f.doc.Count.Remaining())

	assert.Error(t, f.ctrl.SelectFilter(models.Filter("bogus")))
	assert.Equal(t, models.FilterCompleted, f.ctrl.Filter())
}

func TestClearCompleted(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a")
	f.add(t, "b")
	c := f.add(t, "c")
	f.ctrl.Click(a, TargetRow)
	f.ctrl.Click(c, TargetRow)

	require.NoError(t, f.ctrl.ClearCompleted())

	assert.Equal(t, []string{"b"}, f.rowTexts())
	assert.Equal(t, 1, f.doc.Count.Remaining())
}

func TestStart_MigratesAndRenders(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(tasks.TasksKey, `[{"text":"x","completed":true},{"text":"y"}]`))
	require.NoError(t, kv.Set(tasks.FilterKey, "active"))

	repo := tasks.NewRepository(tasks.NewAdapter(kv))
	doc := view.NewDocument(&fakeInput{})
	ctrl := New(repo, tasks.NewFilterState(tasks.NewAdapter(kv)), doc)
	require.NoError(t, ctrl.Start())

	for _, task := range repo.List() {
		assert.NotEmpty(t, task.ID)
	}
	rows := doc.List.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "y", rows[0].Text)
	assert.True(t, doc.Filters.IsPressed(models.FilterActive))
}

func TestController_MissingElements(t *testing.T) {
	kv := store.NewMemory()
	repo := tasks.NewRepository(tasks.NewAdapter(kv))
	ctrl := New(repo, tasks.NewFilterState(tasks.NewAdapter(kv)), &view.Document{})
	task, err := repo.Add("a")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		require.NoError(t, ctrl.Start())
		require.NoError(t, ctrl.SubmitAdd())
		require.NoError(t, ctrl.Click(task.ID, TargetRow))
		assert.Nil(t, ctrl.BeginEdit(task.ID))
		require.NoError(t, ctrl.SelectFilter(models.FilterActive))
		require.NoError(t, ctrl.ClearCompleted())
	})
	assert.Empty(t, repo.List(), "toggle without a list element still persisted")
}
