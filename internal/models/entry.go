package models

import (
	"fmt"
	"strings"
	"time"
)

// JournalEntry is a single transcribed journal record. The JSON field names
// match the persisted blob schema.
type JournalEntry struct {
	ID                   string     `json:"id"`
	Text                 string     `json:"text"`
	Date                 time.Time  `json:"date"`      // logical day the entry belongs to
	CreatedAt            time.Time  `json:"createdAt"` // exact creation instant
	Mood                 Mood       `json:"mood,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	IsArchivedToCalendar bool       `json:"isArchivedToCalendar,omitempty"`
	IsDeleted            bool       `json:"isDeleted,omitempty"`
	DeletedAt            *time.Time `json:"deletedAt,omitempty"`
}

func (e *JournalEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id cannot be empty")
	}
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("entry text cannot be empty")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("entry date cannot be empty")
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("entry createdAt cannot be empty")
	}
	if e.Mood != "" && !e.Mood.Valid() {
		return fmt.Errorf("unknown mood %q", e.Mood)
	}
	if e.IsDeleted && e.DeletedAt == nil {
		return fmt.Errorf("deleted entry %s has no deletedAt", e.ID)
	}
	if !e.IsDeleted && e.DeletedAt != nil {
		return fmt.Errorf("entry %s has deletedAt but is not deleted", e.ID)
	}
	return nil
}

// IsActive reports whether the entry is neither archived nor deleted.
func (e *JournalEntry) IsActive() bool {
	return !e.IsArchivedToCalendar && !e.IsDeleted
}

// State returns the view classification of the entry. Deletion takes
// precedence over archiving.
func (e *JournalEntry) State() EntryState {
	switch {
	case e.IsDeleted:
		return StateDeleted
	case e.IsArchivedToCalendar:
		return StateArchived
	default:
		return StateActive
	}
}

// Clone returns a deep copy so callers never share tag slices or the
// deletedAt pointer with the owning collection.
func (e JournalEntry) Clone() JournalEntry {
	c := e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	if e.DeletedAt != nil {
		t := *e.DeletedAt
		c.DeletedAt = &t
	}
	return c
}

// CloneEntries deep-copies a collection.
func CloneEntries(entries []JournalEntry) []JournalEntry {
	if entries == nil {
		return nil
	}
	out := make([]JournalEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

type EntryState string

const (
	StateActive   EntryState = "active"
	StateArchived EntryState = "archived"
	StateDeleted  EntryState = "deleted"
)
