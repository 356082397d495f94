package models

import "time"

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Subscription is the mocked billing state persisted next to the entries.
type Subscription struct {
	Tier      Tier       `json:"tier"`
	Plan      string     `json:"plan,omitempty"` // monthly | yearly
	StartedAt *time.Time `json:"startedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// IsPremium reports whether the subscription grants premium features at now.
func (s Subscription) IsPremium(now time.Time) bool {
	if s.Tier != TierPremium {
		return false
	}
	if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		return false
	}
	return true
}
