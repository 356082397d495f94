package models

import (
	"testing"
	"time"
)

func validEntry() JournalEntry {
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	return JournalEntry{ID: "a", Text: "hello", Date: at, CreatedAt: at}
}

func TestValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		mutate  func(e *JournalEntry)
		wantErr bool
	}{
		{"valid", func(e *JournalEntry) {}, false},
		{"missing id", func(e *JournalEntry) { e.ID = "" }, true},
		{"blank text", func(e *JournalEntry) { e.Text = "  " }, true},
		{"zero date", func(e *JournalEntry) { e.Date = time.Time{} }, true},
		{"zero createdAt", func(e *JournalEntry) { e.CreatedAt = time.Time{} }, true},
		{"unknown mood", func(e *JournalEntry) { e.Mood = "bored" }, true},
		{"deleted without timestamp", func(e *JournalEntry) { e.IsDeleted = true }, true},
		{"timestamp without deleted", func(e *JournalEntry) { e.DeletedAt = &now }, true},
		{"deleted with timestamp", func(e *JournalEntry) { e.IsDeleted = true; e.DeletedAt = &now }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			if err := e.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestState(t *testing.T) {
	e := validEntry()
	if e.State() != StateActive || !e.IsActive() {
		t.Errorf("expected active, got %s", e.State())
	}
	e.IsArchivedToCalendar = true
	if e.State() != StateArchived {
		t.Errorf("expected archived, got %s", e.State())
	}
	e.IsDeleted = true
	if e.State() != StateDeleted {
		t.Errorf("deletion should win over archive, got %s", e.State())
	}
}

func TestParseMood(t *testing.T) {
	m, err := ParseMood("Grateful")
	if err != nil || m != MoodGrateful {
		t.Errorf("ParseMood(Grateful) = %q, %v", m, err)
	}
	if m, err := ParseMood(""); err != nil || m != "" {
		t.Errorf("ParseMood(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMood("bored"); err == nil {
		t.Error("expected error for unknown mood")
	}
	if len(Moods) != 10 {
		t.Errorf("expected 10 moods, got %d", len(Moods))
	}
}

func TestSubscriptionIsPremium(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"free", Subscription{Tier: TierFree}, false},
		{"premium open ended", Subscription{Tier: TierPremium}, true},
		{"premium active", Subscription{Tier: TierPremium, ExpiresAt: &future}, true},
		{"premium expired", Subscription{Tier: TierPremium, ExpiresAt: &past}, false},
	}
	for _, tt := range tests {
		if got := tt.sub.IsPremium(now); got != tt.want {
			t.Errorf("%s: IsPremium() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
