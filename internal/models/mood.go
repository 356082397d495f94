package models

import (
	"fmt"
	"strings"
)

type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodExcited    Mood = "excited"
	MoodCalm       Mood = "calm"
	MoodAnxious    Mood = "anxious"
	MoodGrateful   Mood = "grateful"
	MoodFrustrated Mood = "frustrated"
	MoodContent    Mood = "content"
	MoodEnergetic  Mood = "energetic"
	MoodPeaceful   Mood = "peaceful"
)

// Moods lists the fixed mood tags in display order.
var Moods = []Mood{
	MoodHappy,
	MoodSad,
	MoodExcited,
	MoodCalm,
	MoodAnxious,
	MoodGrateful,
	MoodFrustrated,
	MoodContent,
	MoodEnergetic,
	MoodPeaceful,
}

func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Title returns the mood with its first letter upper-cased.
func (m Mood) Title() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMood parses a case-insensitive mood name. An empty string yields the
// unset mood.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid mood: %s", s)
	}
	return m, nil
}
