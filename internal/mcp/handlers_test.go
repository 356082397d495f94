package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/quota"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/utils"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func setupServer(t *testing.T, freeLimit int) *Server {
	t.Helper()
	clock := utils.FixedClock{T: testNow}
	j := journal.New(storage.NewEntryStore(storage.NewMemoryStore()), clock)
	if _, err := j.Load(context.Background()); err != nil {
		t.Fatalf("failed to load journal: %v", err)
	}
	return New(Deps{
		Journal: j,
		Gate:    quota.NewGate(nil, freeLimit),
		Clock:   clock,
	})
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func addEntry(t *testing.T, s *Server, text string) models.JournalEntry {
	t.Helper()
	res, err := s.handleAddEntry(context.Background(), request(map[string]interface{}{
		"text": text,
		"mood": "calm",
		"tags": "work, ideas",
	}))
	if err != nil {
		t.Fatalf("handleAddEntry returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("handleAddEntry failed: %s", resultText(t, res))
	}
	var entry models.JournalEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	return entry
}

func TestAddEntry(t *testing.T) {
	s := setupServer(t, 10)
	entry := addEntry(t, s, "walked by the river")

	if entry.ID == "" {
		t.Error("expected an id")
	}
	if entry.Mood != models.MoodCalm {
		t.Errorf("expected calm mood, got %q", entry.Mood)
	}
	if len(entry.Tags) != 2 || entry.Tags[0] != "work" || entry.Tags[1] != "ideas" {
		t.Errorf("unexpected tags: %v", entry.Tags)
	}
	if !entry.Date.Equal(testNow) {
		t.Errorf("expected date %v, got %v", testNow, entry.Date)
	}
}

func TestAddEntryRejectsBadInput(t *testing.T) {
	s := setupServer(t, 10)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"empty text", map[string]interface{}{"text": "   "}},
		{"unknown mood", map[string]interface{}{"text": "hi", "mood": "grumpy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleAddEntry(context.Background(), request(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.IsError {
				t.Error("expected tool error")
			}
		})
	}
	if n := len(s.deps.Journal.Entries()); n != 0 {
		t.Errorf("expected no entries, got %d", n)
	}
}

func TestAddEntryQuotaExceeded(t *testing.T) {
	s := setupServer(t, 1)
	addEntry(t, s, "first")

	res, err := s.handleAddEntry(context.Background(), request(map[string]interface{}{"text": "second"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected quota error")
	}
	if !strings.Contains(resultText(t, res), "limit") {
		t.Errorf("expected limit message, got %q", resultText(t, res))
	}
}

func TestListEntriesByView(t *testing.T) {
	s := setupServer(t, 10)
	kept := addEntry(t, s, "kept")
	gone := addEntry(t, s, "gone")

	res, _ := s.handleDeleteEntry(context.Background(), request(map[string]interface{}{"id": gone.ID}))
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}

	for view, want := range map[string]string{"active": kept.ID, "deleted": gone.ID} {
		res, err := s.handleListEntries(context.Background(), request(map[string]interface{}{
			"date": "2024-03-15",
			"view": view,
		}))
		if err != nil || res.IsError {
			t.Fatalf("list %s failed: %v", view, err)
		}
		var entries []models.JournalEntry
		if err := json.Unmarshal([]byte(resultText(t, res)), &entries); err != nil {
			t.Fatalf("failed to decode list: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != want {
			t.Errorf("view %s: expected [%s], got %+v", view, want, entries)
		}
	}
}

func TestListEntriesRejectsBadArgs(t *testing.T) {
	s := setupServer(t, 10)
	for _, args := range []map[string]interface{}{
		{"date": "15/03/2024"},
		{"view": "trash"},
	} {
		res, err := s.handleListEntries(context.Background(), request(args))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Errorf("expected tool error for %v", args)
		}
	}
}

func TestGetEntry(t *testing.T) {
	s := setupServer(t, 10)
	entry := addEntry(t, s, "hello")

	res, _ := s.handleGetEntry(context.Background(), request(map[string]interface{}{"id": entry.ID}))
	if res.IsError {
		t.Fatalf("get failed: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), entry.ID) {
		t.Error("expected entry in result")
	}

	res, _ = s.handleGetEntry(context.Background(), request(map[string]interface{}{"id": "missing"}))
	if !res.IsError {
		t.Error("expected error for unknown id")
	}

	res, _ = s.handleGetEntry(context.Background(), request(map[string]interface{}{}))
	if !res.IsError {
		t.Error("expected error for missing id")
	}
}

func TestArchiveDeleteRestoreFlow(t *testing.T) {
	s := setupServer(t, 10)
	ctx := context.Background()
	entry := addEntry(t, s, "flow")
	args := map[string]interface{}{"id": entry.ID}

	if res, _ := s.handleArchiveEntry(ctx, request(args)); res.IsError {
		t.Fatalf("archive failed: %s", resultText(t, res))
	}
	if res, _ := s.handleDeleteEntry(ctx, request(args)); res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}
	res, _ := s.handleRestoreEntry(ctx, request(args))
	if res.IsError {
		t.Fatalf("restore failed: %s", resultText(t, res))
	}

	var restored models.JournalEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &restored); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Error("expected entry to be restored")
	}
	if !restored.IsArchivedToCalendar {
		t.Error("expected archived flag to survive delete and restore")
	}
}

func TestDeleteEntryPermanent(t *testing.T) {
	s := setupServer(t, 10)
	entry := addEntry(t, s, "temporary")

	res, _ := s.handleDeleteEntry(context.Background(), request(map[string]interface{}{
		"id":        entry.ID,
		"permanent": true,
	}))
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}
	if _, ok := s.deps.Journal.Get(entry.ID); ok {
		t.Error("expected entry to be removed")
	}
}

func TestQuotaStatus(t *testing.T) {
	s := setupServer(t, 3)
	addEntry(t, s, "one")

	res, _ := s.handleQuotaStatus(context.Background(), request(nil))
	if res.IsError {
		t.Fatalf("quota_status failed: %s", resultText(t, res))
	}
	var got quotaResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if got.Tier != models.TierFree || got.Used != 1 {
		t.Errorf("unexpected status: %+v", got)
	}
	if got.Remaining == nil || *got.Remaining != 2 {
		t.Errorf("expected 2 remaining, got %v", got.Remaining)
	}
}

func TestCalendarMonth(t *testing.T) {
	s := setupServer(t, 10)
	addEntry(t, s, "march")

	res, _ := s.handleCalendarMonth(context.Background(), request(map[string]interface{}{"month": "2024-03"}))
	if res.IsError {
		t.Fatalf("calendar_month failed: %s", resultText(t, res))
	}
	var days []dayResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &days); err != nil {
		t.Fatalf("failed to decode days: %v", err)
	}
	if len(days) != 1 || days[0].Day != 15 || !days[0].HasActive {
		t.Errorf("unexpected days: %+v", days)
	}

	res, _ = s.handleCalendarMonth(context.Background(), request(map[string]interface{}{"month": "2024-04"}))
	if got := resultText(t, res); got != "[]" {
		t.Errorf("expected empty month, got %s", got)
	}
}

func TestExportEntries(t *testing.T) {
	s := setupServer(t, 10)
	addEntry(t, s, "exported text")

	res, _ := s.handleExportEntries(context.Background(), request(map[string]interface{}{
		"format":        "text",
		"start":         "2024-03-15",
		"end":           "2024-03-15",
		"include_moods": true,
	}))
	if res.IsError {
		t.Fatalf("export failed: %s", resultText(t, res))
	}
	doc := resultText(t, res)
	for _, want := range []string{"Journal Export - 3/15/2024", "exported text", "Mood: Calm"} {
		if !strings.Contains(doc, want) {
			t.Errorf("expected %q in export:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "Tags:") {
		t.Error("tags should be omitted unless requested")
	}

	res, _ = s.handleExportEntries(context.Background(), request(map[string]interface{}{"format": "pdf"}))
	if !res.IsError {
		t.Error("expected error for unsupported format")
	}
}

func TestNewRegistersTools(t *testing.T) {
	s := setupServer(t, 10)
	if s.MCPServer() == nil {
		t.Fatal("expected underlying server")
	}
}

func TestReadsSeeOtherWriters(t *testing.T) {
	clock := utils.FixedClock{T: testNow}
	kv := storage.NewMemoryStore()
	j := journal.New(storage.NewEntryStore(kv), clock)
	if _, err := j.Load(context.Background()); err != nil {
		t.Fatalf("failed to load journal: %v", err)
	}
	s := New(Deps{Journal: j, Gate: quota.NewGate(nil, 3), Clock: clock})

	// The CLI writes through its own journal while the server runs
	cli := journal.New(storage.NewEntryStore(kv), clock)
	created, err := cli.Create(context.Background(), "from the terminal", models.MoodHappy, nil, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := s.handleListEntries(context.Background(), request(map[string]interface{}{}))
	if err != nil || res.IsError {
		t.Fatalf("handleListEntries failed: %v", err)
	}
	var listed []models.JournalEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &listed); err != nil {
		t.Fatalf("failed to decode entries: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("expected the CLI entry in list_entries, got %+v", listed)
	}

	res, err = s.handleQuotaStatus(context.Background(), request(map[string]interface{}{}))
	if err != nil || res.IsError {
		t.Fatalf("handleQuotaStatus failed: %v", err)
	}
	var status quotaResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.Used != 1 || status.Remaining == nil || *status.Remaining != 2 {
		t.Errorf("expected 1 used and 2 remaining, got %+v", status)
	}

	res, err = s.handleGetEntry(context.Background(), request(map[string]interface{}{"id": created.ID}))
	if err != nil || res.IsError {
		t.Errorf("expected get_entry to find the CLI entry: %v", err)
	}
}
