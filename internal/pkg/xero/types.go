package xero

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Plan and subscription item statuses returned by the App Store API.
const (
	StatusActive            = "ACTIVE"
	StatusPendingActivation = "PENDING_ACTIVATION"
	StatusCanceled          = "CANCELED"
)

// Product billing types.
const (
	ProductTypeFixed   = "FIXED"
	ProductTypeMetered = "METERED"
	ProductTypeSeat    = "PER_SEAT"
)

// TokenResponse is the token endpoint reply for both the authorization-code
// and the client-credentials (non-tenanted) grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// Connection is one tenant the authenticated user granted access to.
type Connection struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	TenantType     string `json:"tenantType"`
	TenantName     string `json:"tenantName"`
	AuthEventID    string `json:"authEventId"`
	CreatedDateUTC string `json:"createdDateUtc"`
}

// Organisation carries the tenant metadata the sign-up and subscribe flows
// need: the short code builds the App Store subscribe URL and the country
// code gates the flow.
type Organisation struct {
	Name        string `json:"Name"`
	CountryCode string `json:"CountryCode"`
	ShortCode   string `json:"ShortCode"`
}

type organisationsResponse struct {
	Organisations []Organisation `json:"Organisations"`
}

// Subscription is the remote truth for one App Store subscription. It is
// fetched fresh on demand and never cached beyond a single synchronization
// pass.
type Subscription struct {
	ID               string     `json:"id"`
	OrganisationID   string     `json:"organisationId"`
	Status           string     `json:"status"`
	CurrentPeriodEnd string     `json:"currentPeriodEnd"`
	StartDate        string     `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	TestMode         bool       `json:"testMode"`
	Plans            []Plan     `json:"plans"`
}

type Plan struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Status            string             `json:"status"`
	SubscriptionItems []SubscriptionItem `json:"subscriptionItems"`
}

type SubscriptionItem struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	StartDate string     `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Price     Price      `json:"price"`
	Product   Product    `json:"product"`
	Quantity  int        `json:"quantity"`
	TestMode  bool       `json:"testMode"`
}

type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	SeatUnit  string `json:"seatUnit"`
	UsageUnit string `json:"usageUnit"`
}

type Price struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// UsageRecord is one metered-billing usage submission.
type UsageRecord struct {
	UsageRecordID      string          `json:"usageRecordId"`
	SubscriptionID     string          `json:"subscriptionId"`
	SubscriptionItemID string          `json:"subscriptionItemId"`
	ProductID          string          `json:"productId"`
	PricePerUnit       decimal.Decimal `json:"pricePerUnit"`
	Quantity           int             `json:"quantity"`
	TestMode           bool            `json:"testMode"`
	RecordedAt         time.Time       `json:"recordedAt"`
}

type UsageRecordsList struct {
	UsageRecords []UsageRecord `json:"usageRecords"`
}

// CreateUsageRecord is the request body for posting metered usage.
type CreateUsageRecord struct {
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// IsMetered reports whether the item is billed by measured usage rather than
// a fixed seat count.
func (i SubscriptionItem) IsMetered() bool {
	return strings.EqualFold(i.Product.Type, ProductTypeMetered)
}

// Total returns the line total for one usage record.
func (r UsageRecord) Total() decimal.Decimal {
	return r.PricePerUnit.Mul(decimal.NewFromInt(int64(r.Quantity)))
}
