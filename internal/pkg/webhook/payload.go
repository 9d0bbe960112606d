package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventCategory classifies a webhook event. Xero sends the category as an
// upper-case string; anything we do not recognize maps to CategoryUnknown so
// new categories fall through to the logging handler instead of failing.
type EventCategory string

const (
	CategoryContact      EventCategory = "CONTACT"
	CategoryInvoice      EventCategory = "INVOICE"
	CategorySubscription EventCategory = "SUBSCRIPTION"
	CategoryUnknown      EventCategory = "UNKNOWN"
)

// Event types are free-form; CREATE and UPDATE are the documented ones.
const (
	EventTypeCreate = "CREATE"
	EventTypeUpdate = "UPDATE"
)

// ParseCategory normalizes a wire category string into an EventCategory.
func ParseCategory(raw string) EventCategory {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(CategoryContact):
		return CategoryContact
	case string(CategoryInvoice):
		return CategoryInvoice
	case string(CategorySubscription):
		return CategorySubscription
	default:
		return CategoryUnknown
	}
}

// Event is one notification inside a payload. Read-only once enqueued.
// For SUBSCRIPTION events the resource id is the subscription id.
type Event struct {
	ResourceID string `json:"resourceId"`
	TenantID   string `json:"tenantId"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	EventDate  string `json:"eventDate"`
}

// CategoryKind returns the normalized category of the event.
func (e Event) CategoryKind() EventCategory {
	return ParseCategory(e.Category)
}

// Payload is one inbound webhook delivery: an ordered sequence of events.
// Immutable after parse and consumed exactly once by the dispatcher.
type Payload struct {
	Events []Event `json:"events"`
}

// ParsePayload decodes the raw delivery body. The body must already have
// passed signature verification.
func ParsePayload(raw []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}
	return &p, nil
}
