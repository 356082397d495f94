package models

import "fmt"

// ViewMode selects which entry state a listing shows.
type ViewMode string

const (
	ViewActive   ViewMode = "active"
	ViewArchived ViewMode = "archived"
	ViewDeleted  ViewMode = "deleted"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewActive, ViewArchived, ViewDeleted:
		return ViewMode(s), nil
	case "":
		return ViewActive, nil
	default:
		return "", fmt.Errorf("invalid view mode: %s (expected active|archived|deleted)", s)
	}
}
