package inventory

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

// ErrRecordNotFound is returned when an edit targets an id missing from Master.
var ErrRecordNotFound = errors.New("medicine record not found")

// View is the whole screen state. Its methods are pure transitions; all I/O
// lives in Controller.
type View struct {
	master     []models.MedicineRecord
	displayed  []models.MedicineRecord
	loading    bool
	filter     string
	fetchErr   error
	generation uint64
	session    EditSession
}

// BeginFetch marks the view as loading and returns the token the fetch must
// present when it completes.
func (v *View) BeginFetch() uint64 {
	v.generation++
	v.loading = true
	return v.generation
}

// CompleteFetch publishes records into Master and Displayed, replacing both.
// A result from an older fetch is dropped and false is returned.
func (v *View) CompleteFetch(token uint64, records []models.MedicineRecord) bool {
	if token != v.generation {
		return false
	}
	v.master = records
	v.displayed = cloneRecords(records)
	v.loading = false
	v.fetchErr = nil
	return true
}

// FailFetch ends loading and keeps the previous sets. Stale failures are ignored.
func (v *View) FailFetch(token uint64, err error) bool {
	if token != v.generation {
		return false
	}
	v.loading = false
	v.fetchErr = err
	return true
}

// ApplyFilter narrows Displayed to the exact-name matches in Master. An empty
// name means the filter was cleared and the caller must re-fetch.
func (v *View) ApplyFilter(name string) (needsFetch bool) {
	v.filter = name
	if name == "" {
		return true
	}

	out := make([]models.MedicineRecord, 0)
	for _, rec := range v.master {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	v.displayed = out
	return false
}

// FilterOptions lists the names offered by the filter picker in Master order.
func (v *View) FilterOptions() []string {
	names := make([]string, 0, len(v.master))
	for _, rec := range v.master {
		names = append(names, rec.Name)
	}
	return names
}

// OpenEdit starts the edit session for the Master record with id.
func (v *View) OpenEdit(id models.RecordID) error {
	for _, rec := range v.master {
		if rec.ID.Equal(id) {
			v.session.Open(rec)
			return nil
		}
	}
	return fmt.Errorf("open edit %s: %w", id, ErrRecordNotFound)
}

// InputStock forwards the stocked-quantity field to the session.
func (v *View) InputStock(raw string) error {
	return v.session.Input(raw)
}

// CommitEdit closes the session and returns the request to send.
func (v *View) CommitEdit() (models.UpdateQuantityRequest, error) {
	return v.session.Commit()
}

// CancelEdit closes the session.
func (v *View) CancelEdit() {
	v.session.Cancel()
}

// Snapshot is an immutable copy of the view for rendering.
type Snapshot struct {
	Master     []models.MedicineRecord `json:"-"`
	Displayed  []models.MedicineRecord `json:"displayed"`
	Loading    bool                    `json:"loading"`
	Filter     string                  `json:"filter,omitempty"`
	FetchError string                  `json:"fetchError,omitempty"`
	Options    []string                `json:"filterOptions"`
	Session    EditSession             `json:"session"`
	CanCommit  bool                    `json:"canCommit"`
}

// Snapshot copies the current state.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Master:    cloneRecords(v.master),
		Displayed: cloneRecords(v.displayed),
		Loading:   v.loading,
		Filter:    v.filter,
		Options:   v.FilterOptions(),
		Session:   v.session,
		CanCommit: v.session.CanCommit(),
	}
	if v.fetchErr != nil {
		s.FetchError = v.fetchErr.Error()
	}
	return s
}

func cloneRecords(in []models.MedicineRecord) []models.MedicineRecord {
	if in == nil {
		return nil
	}
	out := make([]models.MedicineRecord, len(in))
	copy(out, in)
	return out
}
