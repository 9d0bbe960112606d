package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/lo"
	"github.com/sujit-baniya/flash"

	"github.com/MattLoughlin/SubSync/app/models"
	"github.com/MattLoughlin/SubSync/app/repository"
	"github.com/MattLoughlin/SubSync/internal/pkg/env"
	"github.com/MattLoughlin/SubSync/internal/pkg/usercontext"
	"github.com/MattLoughlin/SubSync/internal/pkg/xero"
)

// Countries where the app is listed on the Xero App Store.
var subscribableCountries = []string{"AU", "NZ", "GB"}

var appStoreService *xero.AppStoreService

// InitializeAppStoreController wires the App Store service used for
// subscription and usage lookups.
func InitializeAppStoreController(svc *xero.AppStoreService) {
	appStoreService = svc
}

// HandleSubscribe gates the App Store subscribe link on the organisation's
// country. Organisations outside the listed regions get an explanation page
// instead of a dead link.
func HandleSubscribe(c *fiber.Ctx) error {
	user, err := currentSignUpUser(c)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Please sign up with Xero first."}
		return flash.WithError(c, fm).Redirect("/")
	}

	country := strings.ToUpper(strings.TrimSpace(user.TenantCountryCode))
	if !lo.Contains(subscribableCountries, country) {
		return renderPage(c, "cannot_subscribe", "Subscribe", fiber.Map{
			"CountryCode": country,
			"TenantName":  user.TenantName,
		})
	}

	appID := env.GetEnv("XERO_APP_ID", "")
	subscribeURL := fmt.Sprintf("https://apps.xero.com/%s/subscribe/%s", user.TenantShortCode, appID)

	return renderPage(c, "subscribe", "Subscribe", fiber.Map{
		"SubscribeURL": subscribeURL,
		"TenantName":   user.TenantName,
	})
}

// HandleGetSubscription shows the current subscription with its active plans
// and, for metered items, the usage recorded against them.
func HandleGetSubscription(c *fiber.Ctx) error {
	user, err := currentSignUpUser(c)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Please sign up with Xero first."}
		return flash.WithError(c, fm).Redirect("/")
	}
	if !user.HasSubscription() {
		fm := fiber.Map{"type": "error", "message": "No subscription on record yet. Subscribe via the Xero App Store first."}
		return flash.WithError(c, fm).Redirect("/appstore/subscribe")
	}

	ctx := c.UserContext()

	sub, err := appStoreService.FetchSubscription(ctx, user.SubscriptionID)
	if err != nil {
		log.Errorf("[AppStore] Could not fetch subscription %s: %v", user.SubscriptionID, err)
		fm := fiber.Map{"type": "error", "message": "Could not load your subscription from Xero."}
		return flash.WithError(c, fm).Redirect("/")
	}
	if sub == nil {
		fm := fiber.Map{"type": "error", "message": "Xero no longer knows this subscription."}
		return flash.WithError(c, fm).Redirect("/")
	}

	activePlans := lo.Filter(sub.Plans, func(p xero.Plan, _ int) bool {
		return p.Status == xero.StatusActive
	})

	hasMetered := lo.SomeBy(activePlans, func(p xero.Plan) bool {
		return lo.SomeBy(p.SubscriptionItems, func(it xero.SubscriptionItem) bool {
			return it.IsMetered()
		})
	})

	var usage *xero.UsageRecordsList
	if hasMetered {
		usage, err = appStoreService.FetchUsageRecords(ctx, user.SubscriptionID)
		if err != nil {
			// The page is still useful without usage figures.
			log.Warnf("[AppStore] Could not fetch usage records for %s: %v", user.SubscriptionID, err)
		}
	}

	return renderPage(c, "subscription", "Your Subscription", fiber.Map{
		"Subscription": sub,
		"ActivePlans":  activePlans,
		"HasMetered":   hasMetered,
		"Usage":        usage,
		"PlanSummary":  user.SubscriptionPlan,
	})
}

// HandlePostUsage records a usage quantity against a metered subscription item.
func HandlePostUsage(c *fiber.Ctx) error {
	user, err := currentSignUpUser(c)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Please sign up with Xero first."}
		return flash.WithError(c, fm).Redirect("/")
	}
	if !user.HasSubscription() {
		fm := fiber.Map{"type": "error", "message": "No subscription to record usage against."}
		return flash.WithError(c, fm).Redirect("/appstore/subscribe")
	}

	itemID := c.FormValue("subscription_item_id")
	quantity, convErr := strconv.Atoi(c.FormValue("quantity"))
	if itemID == "" || convErr != nil || quantity <= 0 {
		fm := fiber.Map{"type": "error", "message": "Usage needs a subscription item and a positive quantity."}
		return flash.WithError(c, fm).Redirect("/appstore/subscription")
	}

	record, err := appStoreService.SubmitUsage(c.UserContext(), user.SubscriptionID, itemID, quantity)
	if err != nil {
		log.Errorf("[AppStore] Could not submit usage for %s: %v", user.SubscriptionID, err)
		fm := fiber.Map{"type": "error", "message": "Could not record usage with Xero."}
		return flash.WithError(c, fm).Redirect("/appstore/subscription")
	}

	log.Infof("[AppStore] Recorded usage of %d against item %s (record %s)", quantity, itemID, record.UsageRecordID)

	fm := fiber.Map{"type": "success", "message": fmt.Sprintf("Recorded usage of %d.", quantity)}
	return flash.WithSuccess(c, fm).Redirect("/appstore/subscription")
}

// currentSignUpUser resolves the signed-in user from the session.
func currentSignUpUser(c *fiber.Ctx) (*models.SignUpUser, error) {
	uc := usercontext.GetUserContext(c)
	if uc.XeroUserID == "" {
		return nil, fmt.Errorf("no signed-in user")
	}
	return repository.GetGlobalRepositories().SignUpUser.GetByXeroUserID(uc.XeroUserID)
}
