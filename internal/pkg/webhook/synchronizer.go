package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/MattLoughlin/SubSync/app/repository"
	"github.com/MattLoughlin/SubSync/internal/pkg/xero"
)

// PlanSummarySeparator joins the active and pending plan names in the stored
// subscription-plan summary.
const PlanSummarySeparator = " | "

// SubscriptionFetcher returns the current remote subscription state, or
// (nil, nil) when the subscription is absent. Implementations must acquire a
// fresh non-tenanted credential per fetch.
type SubscriptionFetcher interface {
	FetchSubscription(ctx context.Context, subscriptionID string) (*xero.Subscription, error)
}

// Synchronizer reconciles remote subscription state into the local sign-up
// record on SUBSCRIPTION lifecycle events.
type Synchronizer struct {
	users    repository.SignUpUserRepository
	appstore SubscriptionFetcher
}

func NewSynchronizer(users repository.SignUpUserRepository, appstore SubscriptionFetcher) *Synchronizer {
	return &Synchronizer{users: users, appstore: appstore}
}

// HandleSubscriptionEvent resolves the tenant's sign-up record, fetches the
// authoritative subscription state and persists the derived plan summary.
// A tenant without a sign-up record means it reached a subscription flow
// without completing onboarding; that is observed with a warning and skipped,
// as is a missing or unfetchable subscription. Only persistence failures
// propagate to the dispatcher's per-event catch.
func (s *Synchronizer) HandleSubscriptionEvent(ctx context.Context, event Event) error {
	user, err := s.users.GetByTenantID(event.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Webhook] No sign-up record for tenant %s; skipping subscription event", event.TenantID)
			return nil
		}
		return fmt.Errorf("look up tenant %s: %w", event.TenantID, err)
	}

	// The event's resource id is the subscription id.
	user.SubscriptionID = event.ResourceID

	subscription, err := s.appstore.FetchSubscription(ctx, event.ResourceID)
	if err != nil {
		// The next webhook delivery, if any, is the de facto retry.
		log.Warnf("[Webhook] Fetching subscription %s failed: %v", event.ResourceID, err)
		return nil
	}
	if subscription == nil {
		log.Warnf("[Webhook] Subscription %s not found", event.ResourceID)
		return nil
	}

	if summary, ok := PlanSummary(subscription); ok {
		user.SubscriptionPlan = summary
	}
	// Neither an active nor a pending plan (e.g. fully canceled): keep the
	// previously stored summary rather than regressing to empty.

	if err := s.users.Upsert(user); err != nil {
		return fmt.Errorf("persist subscription plan for tenant %s: %w", event.TenantID, err)
	}

	log.Infof("[Webhook] Synchronized subscription %s for tenant %s (plan: %s)",
		user.SubscriptionID, user.TenantID, user.SubscriptionPlan)
	return nil
}

// PlanSummary derives the human-readable plan summary from the remote state.
// At most one ACTIVE plan exists; a PENDING_ACTIVATION plan may coexist with
// it during a plan change, in which case both are shown, active plan first.
// The second return is false when there is nothing to display.
func PlanSummary(subscription *xero.Subscription) (string, bool) {
	active, hasActive := lo.Find(subscription.Plans, func(p xero.Plan) bool {
		return p.Status == xero.StatusActive
	})
	pending, hasPending := lo.Find(subscription.Plans, func(p xero.Plan) bool {
		return p.Status == xero.StatusPendingActivation
	})

	switch {
	case hasActive && hasPending:
		return "Active Plan = " + active.Name + PlanSummarySeparator + "Pending Activation Plan = " + pending.Name, true
	case hasActive:
		return active.Name, true
	case hasPending:
		return "Pending Activation Plan = " + pending.Name, true
	default:
		return "", false
	}
}
