// Package quota decides whether a new journal entry may be created today.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

// TierOracle reports the caller's subscription tier.
type TierOracle interface {
	IsPremium(ctx context.Context) (bool, error)
}

// CountToday counts entries dated within [midnight(now), next midnight) in
// loc. Archived and deleted entries count too: the quota tracks creation
// volume, not visibility.
func CountToday(entries []models.JournalEntry, now time.Time, loc *time.Location) int {
	start := utils.StartOfDay(now, loc)
	end := utils.NextDay(now, loc)
	count := 0
	for _, e := range entries {
		if !e.Date.Before(start) && e.Date.Before(end) {
			count++
		}
	}
	return count
}

// LimitFor returns nil (unlimited) for premium and freeLimit otherwise.
func LimitFor(tier models.Tier, freeLimit int) *int {
	if tier == models.TierPremium {
		return nil
	}
	limit := freeLimit
	return &limit
}

// CanAdd reports whether one more entry fits under limit.
func CanAdd(countToday int, limit *int) bool {
	return limit == nil || countToday < *limit
}

// Gate binds a tier oracle to the free-tier daily limit.
type Gate struct {
	oracle    TierOracle
	freeLimit int
}

func NewGate(oracle TierOracle, freeLimit int) *Gate {
	return &Gate{oracle: oracle, freeLimit: freeLimit}
}

// Tier resolves the current tier from the oracle.
func (g *Gate) Tier(ctx context.Context) (models.Tier, error) {
	if g.oracle == nil {
		return models.TierFree, nil
	}
	premium, err := g.oracle.IsPremium(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve subscription tier: %w", err)
	}
	if premium {
		return models.TierPremium, nil
	}
	return models.TierFree, nil
}

// Check returns the predicate handed to journal creation. The tier is
// resolved once, the count is supplied later by the journal while it holds
// its lock.
func (g *Gate) Check(ctx context.Context) (func(countToday int) bool, error) {
	tier, err := g.Tier(ctx)
	if err != nil {
		return nil, err
	}
	limit := LimitFor(tier, g.freeLimit)
	return func(countToday int) bool {
		return CanAdd(countToday, limit)
	}, nil
}

// Status is a point-in-time view of the caller's daily allowance.
type Status struct {
	Tier      models.Tier
	Used      int
	Limit     *int
	Remaining *int
}

func (s Status) Exhausted() bool {
	return !CanAdd(s.Used, s.Limit)
}

// Status computes the allowance for entries at now.
func (g *Gate) Status(ctx context.Context, entries []models.JournalEntry, now time.Time, loc *time.Location) (Status, error) {
	tier, err := g.Tier(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{
		Tier:  tier,
		Used:  CountToday(entries, now, loc),
		Limit: LimitFor(tier, g.freeLimit),
	}
	if st.Limit != nil {
		remaining := *st.Limit - st.Used
		if remaining < 0 {
			remaining = 0
		}
		st.Remaining = &remaining
	}
	return st, nil
}
