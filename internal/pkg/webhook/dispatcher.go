package webhook

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
)

// SubscriptionHandler reconciles remote subscription state after a
// SUBSCRIPTION lifecycle event.
type SubscriptionHandler interface {
	HandleSubscriptionEvent(ctx context.Context, event Event) error
}

// Dispatcher routes each event of a payload by category, then by type.
// CONTACT and INVOICE events are record-only; SUBSCRIPTION events invoke the
// synchronizer; unrecognized categories and types are logged for forward
// compatibility, never treated as errors.
type Dispatcher struct {
	subscriptions SubscriptionHandler
}

func NewDispatcher(subscriptions SubscriptionHandler) *Dispatcher {
	return &Dispatcher{subscriptions: subscriptions}
}

// DispatchPayload processes the payload's events strictly in order. A failure
// (or panic) while handling one event is logged and must not abort sibling
// events or subsequent payloads.
func (d *Dispatcher) DispatchPayload(ctx context.Context, payload *Payload) {
	if payload == nil {
		return
	}
	for i := range payload.Events {
		event := payload.Events[i]
		if err := d.dispatchEvent(ctx, event); err != nil {
			log.Errorf("[Webhook] Event %s/%s for resource %s failed: %v",
				event.Category, event.Type, event.ResourceID, err)
		}
	}
}

func (d *Dispatcher) dispatchEvent(ctx context.Context, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling event: %v", r)
		}
	}()

	switch event.CategoryKind() {
	case CategoryContact:
		switch event.Type {
		case EventTypeCreate:
			log.Infof("[Webhook] Contact created: %s", event.ResourceID)
		case EventTypeUpdate:
			log.Infof("[Webhook] Contact updated: %s", event.ResourceID)
		default:
			// Other contact events - for future expansion
			log.Infof("[Webhook] Contact event %s: %s", event.Type, event.ResourceID)
		}
	case CategoryInvoice:
		switch event.Type {
		case EventTypeCreate:
			log.Infof("[Webhook] Invoice created: %s", event.ResourceID)
		case EventTypeUpdate:
			log.Infof("[Webhook] Invoice updated: %s", event.ResourceID)
		default:
			// Other invoice events - for future expansion
			log.Infof("[Webhook] Invoice event %s: %s", event.Type, event.ResourceID)
		}
	case CategorySubscription:
		return d.subscriptions.HandleSubscriptionEvent(ctx, event)
	default:
		log.Infof("[Webhook] Unrecognized event category %s (type %s)", event.Category, event.Type)
	}

	return nil
}
