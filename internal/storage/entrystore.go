package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/models"
)

// ErrMalformedCollection means the stored blob is not a JSON array at all.
// Individual bad records are quarantined instead.
var ErrMalformedCollection = errors.New("stored journal is not a JSON array")

// QuarantinedRecord is a stored record that failed decoding or validation.
type QuarantinedRecord struct {
	Raw           json.RawMessage `json:"raw"`
	Reason        string          `json:"reason"`
	QuarantinedAt time.Time       `json:"quarantinedAt"`
}

// EntryStore persists the ordered entry collection as one JSON array under
// a single key.
type EntryStore struct {
	kv            KV
	key           string
	quarantineKey string
	now           func() time.Time
}

func NewEntryStore(kv KV) *EntryStore {
	return &EntryStore{
		kv:            kv,
		key:           constants.EntriesKey,
		quarantineKey: constants.QuarantineKey,
		now:           time.Now,
	}
}

// LoadResult is the outcome of reading the collection.
type LoadResult struct {
	Entries     []models.JournalEntry
	Quarantined []QuarantinedRecord
}

// Load reads the collection in stored order. A missing key is an empty
// journal. Records that fail to decode or validate, and records repeating an
// earlier id, are moved to the quarantine key and the cleaned collection is
// written back.
func (s *EntryStore) Load(ctx context.Context) (LoadResult, error) {
	blob, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoadResult{Entries: []models.JournalEntry{}}, nil
		}
		return LoadResult{}, fmt.Errorf("failed to read journal: %w", err)
	}

	entries, bad, err := decodeEntries(blob, s.now())
	if err != nil {
		return LoadResult{}, err
	}
	if len(bad) == 0 {
		return LoadResult{Entries: entries}, nil
	}

	if err := s.appendQuarantine(ctx, bad); err != nil {
		return LoadResult{}, err
	}
	if err := s.Save(ctx, entries); err != nil {
		return LoadResult{}, fmt.Errorf("failed to rewrite journal after quarantine: %w", err)
	}
	return LoadResult{Entries: entries, Quarantined: bad}, nil
}

func decodeEntries(blob []byte, now time.Time) ([]models.JournalEntry, []QuarantinedRecord, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.JournalEntry{}, nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCollection, err)
	}

	entries := make([]models.JournalEntry, 0, len(raws))
	var bad []QuarantinedRecord
	seen := make(map[string]bool, len(raws))

	for _, raw := range raws {
		var e models.JournalEntry
		reason := ""
		if err := json.Unmarshal(raw, &e); err != nil {
			reason = fmt.Sprintf("decode: %v", err)
		} else if err := e.Validate(); err != nil {
			reason = fmt.Sprintf("validate: %v", err)
		} else if seen[e.ID] {
			reason = fmt.Sprintf("duplicate id %s", e.ID)
		}

		if reason != "" {
			bad = append(bad, QuarantinedRecord{Raw: raw, Reason: reason, QuarantinedAt: now})
			continue
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries, bad, nil
}

// Save replaces the stored collection.
func (s *EntryStore) Save(ctx context.Context, entries []models.JournalEntry) error {
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}
	return s.kv.Set(ctx, s.key, blob)
}

// Raw returns the stored blob unchanged, or nil when nothing is stored.
func (s *EntryStore) Raw(ctx context.Context) ([]byte, error) {
	blob, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return blob, err
}

// Replace validates blob as a journal and stores it verbatim. Used when
// restoring a snapshot.
func (s *EntryStore) Replace(ctx context.Context, blob []byte) ([]models.JournalEntry, error) {
	entries, bad, err := decodeEntries(blob, s.now())
	if err != nil {
		return nil, err
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("snapshot contains %d invalid record(s), first: %s", len(bad), bad[0].Reason)
	}
	if err := s.Save(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Quarantine lists every record ever moved aside.
func (s *EntryStore) Quarantine(ctx context.Context) ([]QuarantinedRecord, error) {
	blob, err := s.kv.Get(ctx, s.quarantineKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read quarantine: %w", err)
	}
	var records []QuarantinedRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("failed to decode quarantine: %w", err)
	}
	return records, nil
}

func (s *EntryStore) appendQuarantine(ctx context.Context, bad []QuarantinedRecord) error {
	existing, err := s.Quarantine(ctx)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(append(existing, bad...))
	if err != nil {
		return fmt.Errorf("failed to encode quarantine: %w", err)
	}
	if err := s.kv.Set(ctx, s.quarantineKey, blob); err != nil {
		return fmt.Errorf("failed to write quarantine: %w", err)
	}
	return nil
}
