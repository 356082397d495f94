package account

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/subscription"
)

type SubscriptionCmd struct {
	Status    SubscriptionStatusCmd    `cmd:"" help:"Show the current plan." default:"1"`
	Upgrade   SubscriptionUpgradeCmd   `cmd:"" help:"Start a premium plan."`
	Downgrade SubscriptionDowngradeCmd `cmd:"" help:"Return to the free plan."`
}

type SubscriptionStatusCmd struct{}

func (c *SubscriptionStatusCmd) Run(ctx *cli.Context) error {
	sub, err := ctx.Subscription.Current(ctx.Context())
	if err != nil {
		return err
	}
	now := ctx.Clock.Now()

	if !sub.IsPremium(now) {
		fmt.Println("Plan: Free")
		fmt.Printf("Daily entry limit: %d\n", ctx.Config.Quota.FreeDailyLimit)
		if sub.ExpiresAt != nil {
			fmt.Printf("Premium expired %s\n", humanize.Time(*sub.ExpiresAt))
		}
		return nil
	}

	fmt.Printf("Plan: Premium (%s)\n", sub.Plan)
	if sub.ExpiresAt != nil {
		fmt.Printf("Renews %s (%d days remaining)\n", sub.ExpiresAt.In(ctx.Clock.Location()).Format("January 2, 2006"), subscription.DaysRemaining(sub, now))
	}
	return nil
}

type SubscriptionUpgradeCmd struct {
	Plan string `arg:"" optional:"" help:"Billing plan." enum:"monthly,yearly" default:"monthly"`
}

func (c *SubscriptionUpgradeCmd) Run(ctx *cli.Context) error {
	sub, err := ctx.Subscription.Upgrade(ctx.Context(), c.Plan)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Upgraded to Premium (%s) until %s\n", sub.Plan, sub.ExpiresAt.In(ctx.Clock.Location()).Format("January 2, 2006"))
	return nil
}

type SubscriptionDowngradeCmd struct{}

func (c *SubscriptionDowngradeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Subscription.Downgrade(ctx.Context()); err != nil {
		return err
	}
	fmt.Println("✓ Returned to the Free plan")
	return nil
}
