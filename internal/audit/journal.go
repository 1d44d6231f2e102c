// Package audit records persisted task mutations for ticklist.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/ticklist/internal/models"
)

// Writer is the storage the journal appends to.
type Writer interface {
	WriteJournal(action, inputsHash, taskID string) (*models.JournalEntry, error)
}

// Journal writes one entry per state-mutating repository action.
type Journal struct {
	w Writer
}

// NewJournal creates a new journal.
func NewJournal(w Writer) *Journal {
	return &Journal{w: w}
}

// Record writes an entry for action. Inputs are stored only as a hash.
func (j *Journal) Record(action string, inputs interface{}, taskID string) error {
	_, err := j.w.WriteJournal(action, hashInputs(inputs), taskID)
	return err
}

// hashInputs creates a SHA256 hash of the inputs.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
