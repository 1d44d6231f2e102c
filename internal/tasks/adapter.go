// Package tasks owns the persisted task collection and the visibility filter.
package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/store"
)

// Keys under which state is persisted.
const (
	TasksKey  = "tasks"
	FilterKey = "tasks_filter"
)

// Adapter reads and writes the task collection and filter through a KV store.
// Reads never fail: absent or malformed data yields the default value.
type Adapter struct {
	kv store.KV
}

// NewAdapter wraps kv.
func NewAdapter(kv store.KV) *Adapter {
	return &Adapter{kv: kv}
}

// Record is one stored element: the decoded task and the bytes it was read
// from. A record whose task is unchanged is written back verbatim, and a
// changed one keeps every field it does not own.
type Record struct {
	models.Task
	orig models.Task
	raw  json.RawMessage
}

// NewRecord wraps a task that has not been stored yet.
func NewRecord(t models.Task) Record {
	return Record{Task: t}
}

// Load returns the persisted collection in insertion order.
// Records without a usable id are returned with an empty ID.
func (a *Adapter) Load() []models.Task {
	records := a.LoadRecords()
	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.Task)
	}
	return tasks
}

// LoadRecords returns the persisted collection with the stored bytes of each
// element attached.
func (a *Adapter) LoadRecords() []Record {
	raw, ok, err := a.kv.Get(TasksKey)
	if err != nil {
		log.Printf("load tasks: %v", err)
		return []Record{}
	}
	if !ok {
		return []Record{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		log.Printf("load tasks: ignoring malformed data: %v", err)
		return []Record{}
	}

	records := make([]Record, 0, len(elems))
	for _, elem := range elems {
		t := decodeRecord(elem)
		records = append(records, Record{Task: t, orig: t, raw: elem})
	}
	return records
}

// Save replaces the persisted collection.
func (a *Adapter) Save(records []Record) error {
	elems := make([][]byte, 0, len(records))
	for _, r := range records {
		elem, err := r.encode()
		if err != nil {
			return fmt.Errorf("marshal task %q: %w", r.ID, err)
		}
		elems = append(elems, elem)
	}

	var b bytes.Buffer
	b.WriteByte('[')
	b.Write(bytes.Join(elems, []byte{','}))
	b.WriteByte(']')
	return a.kv.Set(TasksKey, b.String())
}

// encode returns the stored form of r. Only fields that changed since load
// are rewritten; non-object elements are replaced by a plain task object.
func (r Record) encode() ([]byte, error) {
	if r.raw != nil && r.Task == r.orig {
		return r.raw, nil
	}

	var fields map[string]json.RawMessage
	if r.raw == nil || json.Unmarshal(r.raw, &fields) != nil || fields == nil {
		return json.Marshal(r.Task)
	}

	set := func(name string, v interface{}) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields[name] = data
		return nil
	}
	if r.ID != r.orig.ID {
		if err := set("id", r.ID); err != nil {
			return nil, err
		}
	}
	if r.Text != r.orig.Text {
		if err := set("text", r.Text); err != nil {
			return nil, err
		}
	}
	if r.Completed != r.orig.Completed {
		if err := set("completed", r.Completed); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

// LoadFilter returns the persisted filter, FilterAll if absent or invalid.
func (a *Adapter) LoadFilter() models.Filter {
	raw, ok, err := a.kv.Get(FilterKey)
	if err != nil {
		log.Printf("load filter: %v", err)
		return models.FilterAll
	}
	if !ok {
		return models.FilterAll
	}

	// Accept both "active" and the JSON-quoted "\"active\"".
	var quoted string
	if json.Unmarshal([]byte(raw), &quoted) == nil {
		raw = quoted
	}
	f, _ := models.ParseFilter(raw)
	return f
}

// SaveFilter persists f as a plain string.
func (a *Adapter) SaveFilter(f models.Filter) error {
	return a.kv.Set(FilterKey, string(f))
}

// ClearFilter removes the persisted filter so the default applies.
func (a *Adapter) ClearFilter() error {
	return a.kv.Delete(FilterKey)
}

type rawRecord struct {
	ID        json.RawMessage `json:"id"`
	Text      json.RawMessage `json:"text"`
	Completed json.RawMessage `json:"completed"`
}

// decodeRecord reads one array element leniently. Bare strings are legacy
// records holding only text; other non-objects decode to an empty record.
func decodeRecord(elem json.RawMessage) models.Task {
	var text string
	if json.Unmarshal(elem, &text) == nil {
		return models.Task{Text: text}
	}

	var r rawRecord
	if err := json.Unmarshal(elem, &r); err != nil {
		return models.Task{}
	}

	t := models.Task{Completed: truthy(r.Completed)}
	json.Unmarshal(r.Text, &t.Text)

	var id string
	if json.Unmarshal(r.ID, &id) == nil {
		t.ID = id
	} else if n, err := strconv.ParseFloat(string(r.ID), 64); err == nil && n != 0 {
		t.ID = string(bytes.TrimSpace(r.ID))
	}
	return t
}

// truthy applies loose truthiness to a JSON value.
func truthy(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 't':
		return true
	case 'f', 'n':
		return false
	case '"':
		return len(v) > 2
	case '{', '[':
		return true
	}
	n, err := strconv.ParseFloat(string(v), 64)
	return err == nil && n != 0
}
