// Package history keeps the list of saved calculator runs, newest first.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
)

// MaxEntries is the number of runs kept; older ones are dropped on Add.
const MaxEntries = 50

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("history entry not found")

// History reads and writes the calcHistory document. Writers are serialized
// so concurrent Adds never drop each other's entries.
type History struct {
	mu    sync.Mutex
	store *kvstore.Store
	now   func() time.Time
}

// New returns a History backed by store.
func New(store *kvstore.Store) *History {
	return &History{store: store, now: time.Now}
}

// List returns all entries, newest first.
func (h *History) List() ([]model.HistoryEntry, error) {
	entries, err := kvstore.Load[[]model.HistoryEntry](h.store, kvstore.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// Search returns the entries matching query, newest first.
func (h *History) Search(query string) ([]model.HistoryEntry, error) {
	entries, err := h.List()
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Find returns the entry with the given id.
func (h *History) Find(id int64) (model.HistoryEntry, error) {
	entries, err := h.List()
	if err != nil {
		return model.HistoryEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.HistoryEntry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Add records params as the newest entry and trims the list to MaxEntries.
func (h *History) Add(p model.Params) (model.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.List()
	if err != nil {
		return model.HistoryEntry{}, err
	}

	now := h.now()
	id := now.UnixMilli()
	// Two saves in the same millisecond still need distinct ids.
	if len(entries) > 0 && entries[0].ID >= id {
		id = entries[0].ID + 1
	}
	entry := model.HistoryEntry{
		ID:        id,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		Params:    p,
		Title:     model.Title(p),
	}

	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if err := kvstore.Save(h.store, kvstore.KeyHistory, entries); err != nil {
		return model.HistoryEntry{}, fmt.Errorf("saving history: %w", err)
	}
	return entry, nil
}

// Delete removes the entry with the given id.
func (h *History) Delete(id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.List()
	if err != nil {
		return err
	}
	kept := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := kvstore.Save(h.store, kvstore.KeyHistory, kept); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return kvstore.Save(h.store, kvstore.KeyHistory, []model.HistoryEntry{})
}
