// Package subscription is the mocked billing backend. It records the tier in
// the journal's key-value store and answers the quota gate's tier queries.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/utils"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

var ErrInvalidPlan = errors.New("invalid plan (expected monthly|yearly)")

type Service struct {
	kv    storage.KV
	clock utils.Clock
}

func NewService(kv storage.KV, clock utils.Clock) *Service {
	return &Service{kv: kv, clock: clock}
}

// Current returns the stored subscription. Nothing stored means free.
func (s *Service) Current(ctx context.Context) (models.Subscription, error) {
	blob, err := s.kv.Get(ctx, constants.SubscriptionKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Subscription{Tier: models.TierFree}, nil
		}
		return models.Subscription{}, fmt.Errorf("failed to read subscription: %w", err)
	}

	var sub models.Subscription
	if err := json.Unmarshal(blob, &sub); err != nil {
		return models.Subscription{}, fmt.Errorf("failed to decode subscription: %w", err)
	}
	if sub.Tier == "" {
		sub.Tier = models.TierFree
	}
	return sub, nil
}

// IsPremium satisfies quota.TierOracle. An expired premium record is free.
func (s *Service) IsPremium(ctx context.Context) (bool, error) {
	sub, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	return sub.IsPremium(s.clock.Now()), nil
}

// Upgrade starts a premium subscription on plan, running one billing period
// from now.
func (s *Service) Upgrade(ctx context.Context, plan string) (models.Subscription, error) {
	now := s.clock.Now()
	var expires time.Time
	switch plan {
	case PlanMonthly:
		expires = now.AddDate(0, 1, 0)
	case PlanYearly:
		expires = now.AddDate(1, 0, 0)
	default:
		return models.Subscription{}, fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	sub := models.Subscription{
		Tier:      models.TierPremium,
		Plan:      plan,
		StartedAt: &now,
		ExpiresAt: &expires,
	}
	if err := s.save(ctx, sub); err != nil {
		return models.Subscription{}, err
	}
	logger.Info("Subscription upgraded", "plan", plan, "expires", expires)
	return sub, nil
}

// Downgrade returns the account to the free tier.
func (s *Service) Downgrade(ctx context.Context) error {
	if err := s.save(ctx, models.Subscription{Tier: models.TierFree}); err != nil {
		return err
	}
	logger.Info("Subscription downgraded")
	return nil
}

func (s *Service) save(ctx context.Context, sub models.Subscription) error {
	blob, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode subscription: %w", err)
	}
	if err := s.kv.Set(ctx, constants.SubscriptionKey, blob); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// DaysRemaining returns whole days until expiry, or -1 for no expiry.
func DaysRemaining(sub models.Subscription, now time.Time) int {
	if sub.ExpiresAt == nil {
		return -1
	}
	d := sub.ExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + 24*time.Hour - 1) / (24 * time.Hour))
}
