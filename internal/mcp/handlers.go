package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/murmur/internal/calendar"
	"github.com/julianstephens/murmur/internal/export"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
	"github.com/julianstephens/murmur/internal/views"
)

func (s *Server) registerTools() {
	moods := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		moods[i] = string(m)
	}

	s.mcpServer.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Creates a journal entry dated now. Free accounts are limited per day."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Transcribed entry text.")),
		mcp.WithString("mood", mcp.Description("Optional mood tag."), mcp.Enum(moods...)),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags.")),
	), s.handleAddEntry)

	s.mcpServer.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("Lists entries for a date and view, newest first."),
		mcp.WithString("date", mcp.Description("Selected day as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("view", mcp.Description("Which entries to show."), mcp.Enum("active", "archived", "deleted")),
	), s.handleListEntries)

	s.mcpServer.AddTool(mcp.NewTool("get_entry",
		mcp.WithDescription("Returns one entry by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleGetEntry)

	s.mcpServer.AddTool(mcp.NewTool("archive_entry",
		mcp.WithDescription("Archives an entry to the calendar. This cannot be undone."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleArchiveEntry)

	s.mcpServer.AddTool(mcp.NewTool("delete_entry",
		mcp.WithDescription("Moves an entry to the deleted view, or removes it for good when permanent is set."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
		mcp.WithBoolean("permanent", mcp.Description("Remove the entry instead of soft deleting it.")),
	), s.handleDeleteEntry)

	s.mcpServer.AddTool(mcp.NewTool("restore_entry",
		mcp.WithDescription("Restores a deleted entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleRestoreEntry)

	s.mcpServer.AddTool(mcp.NewTool("quota_status",
		mcp.WithDescription("Reports today's entry allowance."),
	), s.handleQuotaStatus)

	s.mcpServer.AddTool(mcp.NewTool("calendar_month",
		mcp.WithDescription("Summarises a month: which days have active, archived or deleted entries."),
		mcp.WithString("month", mcp.Description("Month as YYYY-MM. Defaults to the current month.")),
	), s.handleCalendarMonth)

	s.mcpServer.AddTool(mcp.NewTool("export_entries",
		mcp.WithDescription("Renders entries as a plain text or RTF document."),
		mcp.WithString("format", mcp.Description("Document format."), mcp.Enum("text", "rtf")),
		mcp.WithString("start", mcp.Description("First day to include, YYYY-MM-DD.")),
		mcp.WithString("end", mcp.Description("Last day to include, YYYY-MM-DD.")),
		mcp.WithBoolean("include_moods", mcp.Description("Include mood lines.")),
		mcp.WithBoolean("include_tags", mcp.Description("Include tag lines.")),
	), s.handleExportEntries)
}

func stringArg(req mcp.CallToolRequest, name string) string {
	v, _ := req.Params.Arguments[name].(string)
	return strings.TrimSpace(v)
}

func boolArg(req mcp.CallToolRequest, name string) bool {
	v, _ := req.Params.Arguments[name].(bool)
	return v
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleAddEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := models.ParseMood(stringArg(req, "mood"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var tags []string
	if raw := stringArg(req, "tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	check, err := s.deps.Gate.Check(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, _ := req.Params.Arguments["text"].(string)
	entry, err := s.deps.Journal.Create(ctx, text, mood, tags, journal.QuotaCheck(check))
	switch {
	case errors.Is(err, journal.ErrQuotaExceeded):
		return mcp.NewToolResultError("Daily entry limit reached for the free plan. Upgrade to premium for unlimited entries."), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create entry: %v", err)), nil
	}
	return jsonResult(entry)
}

func (s *Server) handleListEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := s.deps.Clock.Now()
	loc := s.deps.Clock.Location()

	selected := now
	if d := stringArg(req, "date"); d != "" {
		parsed, err := utils.ParseDateInLocation(d, loc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		selected = parsed
	}
	mode, err := models.ParseViewMode(stringArg(req, "view"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	all, err := s.currentEntries(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := views.Select(all, selected, mode, now, loc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

func (s *Server) handleGetEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req, "id")
	if id == "" {
		return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
	}
	if err := s.deps.Journal.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read journal: %v", err)), nil
	}
	entry, ok := s.deps.Journal.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Entry '%s' not found.", id)), nil
	}
	return jsonResult(entry)
}

// currentEntries reloads the journal so reads see writes from other
// processes, such as the CLI, made while the server is running.
func (s *Server) currentEntries(ctx context.Context) ([]models.JournalEntry, error) {
	if err := s.deps.Journal.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return s.deps.Journal.Entries(), nil
}

// mutateByID runs op for the id argument and reports the entry afterwards.
// Unknown ids succeed silently, matching the journal.
func (s *Server) mutateByID(ctx context.Context, req mcp.CallToolRequest, verb string, op func(ctx context.Context, id string) error) (*mcp.CallToolResult, error) {
	id := stringArg(req, "id")
	if id == "" {
		return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
	}
	if err := op(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s entry: %v", verb, err)), nil
	}
	entry, ok := s.deps.Journal.Get(id)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No entry with id '%s' remains.", id)), nil
	}
	return jsonResult(entry)
}

func (s *Server) handleArchiveEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutateByID(ctx, req, "archive", s.deps.Journal.Archive)
}

func (s *Server) handleDeleteEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	permanent := boolArg(req, "permanent")
	return s.mutateByID(ctx, req, "delete", func(ctx context.Context, id string) error {
		return s.deps.Journal.Delete(ctx, id, permanent)
	})
}

func (s *Server) handleRestoreEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutateByID(ctx, req, "restore", s.deps.Journal.Restore)
}

type quotaResult struct {
	Tier      models.Tier `json:"tier"`
	Used      int         `json:"used"`
	Limit     *int        `json:"limit"`
	Remaining *int        `json:"remaining"`
}

func (s *Server) handleQuotaStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := s.currentEntries(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.deps.Gate.Status(ctx, all, s.deps.Clock.Now(), s.deps.Clock.Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(quotaResult{Tier: st.Tier, Used: st.Used, Limit: st.Limit, Remaining: st.Remaining})
}

type dayResult struct {
	Day         int  `json:"day"`
	Total       int  `json:"total"`
	HasActive   bool `json:"hasActive"`
	HasArchived bool `json:"hasArchived"`
	HasDeleted  bool `json:"hasDeleted"`
}

func (s *Server) handleCalendarMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := s.deps.Clock.Now()
	year, month := now.Year(), now.Month()
	if m := stringArg(req, "month"); m != "" {
		var err error
		if year, month, err = utils.ParseMonth(m); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	all, err := s.currentEntries(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var days []dayResult
	for _, m := range calendar.MonthMarkers(all, year, month, s.deps.Clock.Location()) {
		if m.Total == 0 {
			continue
		}
		days = append(days, dayResult{Day: m.Day, Total: m.Total, HasActive: m.HasActive, HasArchived: m.HasArchived, HasDeleted: m.HasDeleted})
	}
	if days == nil {
		days = []dayResult{}
	}
	return jsonResult(days)
}

func (s *Server) handleExportEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc := s.deps.Clock.Location()
	format, err := export.ParseFormat(stringArg(req, "format"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := export.Options{
		Format:       format,
		IncludeMoods: boolArg(req, "include_moods"),
		IncludeTags:  boolArg(req, "include_tags"),
		Location:     loc,
		GeneratedAt:  s.deps.Clock.Now(),
	}
	if d := stringArg(req, "start"); d != "" {
		start, err := utils.ParseDateInLocation(d, loc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Start = &start
	}
	if d := stringArg(req, "end"); d != "" {
		end, err := utils.ParseDateInLocation(d, loc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		endOfDay := utils.EndOfDay(end, loc)
		opts.End = &endOfDay
	}

	all, err := s.currentEntries(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	if err := export.Write(&b, all, opts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

