package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/ticklist/internal/audit"
	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/store"
	"github.com/fentz26/ticklist/internal/tasks"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetCompleted(args[0], true) },
}

var undoneCmd = &cobra.Command{
	Use:   "undone <task-id>",
	Short: "Mark a task active again",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetCompleted(args[0], false) },
}

var editCmd = &cobra.Command{
	Use:   "edit <task-id> <text...>",
	Short: "Replace the text of a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Remove every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClearCompleted,
}

var filterCmd = &cobra.Command{
	Use:   "filter [all|active|completed]",
	Short: "Show or set the saved filter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFilter,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Assign ids to legacy task records",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the mutation journal",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

var (
	listFilter  string
	logLimit    int
	resetFilter bool
)

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Filter to apply (all, active, completed); defaults to the saved filter")
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "Number of entries to show")
	filterCmd.Flags().BoolVar(&resetFilter, "reset", false, "Forget the saved filter")
}

// app bundles the storage stack shared by every command.
type app struct {
	store  *store.Store
	repo   *tasks.Repository
	filter *tasks.FilterState
}

// openApp opens the database and wires the repository to the journal.
func openApp() (*app, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	adapter := tasks.NewAdapter(s)
	return &app{
		store:  s,
		repo:   tasks.NewRepository(adapter, tasks.WithRecorder(audit.NewJournal(s))),
		filter: tasks.NewFilterState(adapter),
	}, nil
}

// openMigrated opens the app and migrates legacy records, as the UI does on
// start.
func openMigrated() (*app, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}
	if _, err := a.repo.MigrateIfNeeded(); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.repo.Add(strings.Join(args, " "))
	if errors.Is(err, tasks.ErrEmptyText) {
		return fmt.Errorf("task text cannot be empty")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created task: %s\n", task.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	f := a.filter.Get()
	if listFilter != "" {
		var ok bool
		if f, ok = models.ParseFilter(listFilter); !ok {
			return fmt.Errorf("%w: %q", tasks.ErrInvalidFilter, listFilter)
		}
	}

	all := a.repo.List()
	visible := tasks.Apply(all, f)
	if len(visible) == 0 {
		fmt.Println("No tasks found")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDONE\tTEXT")
		for _, t := range visible {
			done := "[ ]"
			if t.Completed {
				done = "[x]"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, done, truncate(t.Text, 60))
		}
		w.Flush()
	}

	fmt.Printf("\n%s (filter: %s)\n", itemsLeft(tasks.Remaining(all)), f)
	return nil
}

func runSetCompleted(ref string, completed bool) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.repo.Resolve(ref)
	if err != nil {
		return err
	}
	if err := a.repo.SetCompleted(id, completed); err != nil {
		return err
	}

	if completed {
		fmt.Printf("Completed task %s\n", id)
	} else {
		fmt.Printf("Reopened task %s\n", id)
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.repo.Resolve(args[0])
	if err != nil {
		return err
	}
	changed, err := a.repo.Edit(id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("task text cannot be empty")
	}

	fmt.Printf("Updated task %s\n", id)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.repo.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := a.repo.Remove(id); err != nil {
		return err
	}

	fmt.Printf("Removed task %s\n", id)
	return nil
}

func runClearCompleted(cmd *cobra.Command, args []string) error {
	a, err := openMigrated()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.repo.ClearCompleted()
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d completed task(s)\n", n)
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if resetFilter {
		if len(args) > 0 {
			return fmt.Errorf("--reset takes no filter value")
		}
		if err := a.filter.Reset(); err != nil {
			return err
		}
		fmt.Printf("Filter reset to %s\n", a.filter.Get())
		return nil
	}

	if len(args) == 0 {
		fmt.Println(a.filter.Get())
		return nil
	}

	if err := a.filter.Set(models.Filter(args[0])); err != nil {
		return fmt.Errorf("%w: %q (want all, active or completed)", err, args[0])
	}
	fmt.Printf("Filter set to %s\n", a.filter.Get())
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.repo.MigrateIfNeeded()
	if err != nil {
		return err
	}

	if n == 0 {
		fmt.Println("Nothing to migrate")
		return nil
	}
	fmt.Printf("Assigned ids to %d task(s)\n", n)
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.ListJournal(logLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tTASK\tINPUTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.TaskID, shortHash(e.InputsHash))
	}
	w.Flush()
	return nil
}

// --- Helpers ---

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "...")
}

func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}
