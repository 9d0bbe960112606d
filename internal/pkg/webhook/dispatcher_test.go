package webhook

import (
	"context"
	"fmt"
	"testing"
)

type fakeSubscriptionHandler struct {
	calls   []Event
	failOn  map[string]error
	panicOn string
}

func (f *fakeSubscriptionHandler) HandleSubscriptionEvent(_ context.Context, event Event) error {
	f.calls = append(f.calls, event)
	if event.ResourceID == f.panicOn {
		panic("handler blew up")
	}
	if err, ok := f.failOn[event.ResourceID]; ok {
		return err
	}
	return nil
}

func TestDispatcher_RoutesSubscriptionEvents(t *testing.T) {
	handler := &fakeSubscriptionHandler{}
	d := NewDispatcher(handler)

	payload := &Payload{Events: []Event{
		{ResourceID: "c1", TenantID: "t1", Category: "CONTACT", Type: "CREATE"},
		{ResourceID: "s1", TenantID: "t1", Category: "SUBSCRIPTION", Type: "UPDATE"},
		{ResourceID: "i1", TenantID: "t1", Category: "INVOICE", Type: "UPDATE"},
		{ResourceID: "s2", TenantID: "t2", Category: "SUBSCRIPTION", Type: "CREATE"},
	}}

	d.DispatchPayload(context.Background(), payload)

	if len(handler.calls) != 2 {
		t.Fatalf("subscription handler called %d times, want 2", len(handler.calls))
	}
	if handler.calls[0].ResourceID != "s1" || handler.calls[1].ResourceID != "s2" {
		t.Fatalf("subscription events handled out of order: %+v", handler.calls)
	}
}

func TestDispatcher_FailureDoesNotAbortSiblings(t *testing.T) {
	handler := &fakeSubscriptionHandler{
		failOn: map[string]error{"s1": fmt.Errorf("remote unavailable")},
	}
	d := NewDispatcher(handler)

	payload := &Payload{Events: []Event{
		{ResourceID: "s1", TenantID: "t1", Category: "SUBSCRIPTION", Type: "UPDATE"},
		{ResourceID: "s2", TenantID: "t2", Category: "SUBSCRIPTION", Type: "UPDATE"},
	}}

	d.DispatchPayload(context.Background(), payload)

	if len(handler.calls) != 2 {
		t.Fatalf("expected the second event to run after the first failed, got %d calls", len(handler.calls))
	}
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	handler := &fakeSubscriptionHandler{panicOn: "s1"}
	d := NewDispatcher(handler)

	payload := &Payload{Events: []Event{
		{ResourceID: "s1", TenantID: "t1", Category: "SUBSCRIPTION", Type: "UPDATE"},
		{ResourceID: "s2", TenantID: "t2", Category: "SUBSCRIPTION", Type: "UPDATE"},
	}}

	// Must not propagate the panic.
	d.DispatchPayload(context.Background(), payload)

	if len(handler.calls) != 2 {
		t.Fatalf("expected processing to continue past a panicking event, got %d calls", len(handler.calls))
	}
}

func TestDispatcher_UnknownCategoryIsIgnored(t *testing.T) {
	handler := &fakeSubscriptionHandler{}
	d := NewDispatcher(handler)

	payload := &Payload{Events: []Event{
		{ResourceID: "x1", TenantID: "t1", Category: "PAYMENT", Type: "CREATE"},
		{ResourceID: "c1", TenantID: "t1", Category: "CONTACT", Type: "ARCHIVE"},
	}}

	d.DispatchPayload(context.Background(), payload)

	if len(handler.calls) != 0 {
		t.Fatalf("unknown categories must not reach the subscription handler, got %d calls", len(handler.calls))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want EventCategory
	}{
		{in: "SUBSCRIPTION", want: CategorySubscription},
		{in: "subscription", want: CategorySubscription},
		{in: " Contact ", want: CategoryContact},
		{in: "INVOICE", want: CategoryInvoice},
		{in: "PAYMENT", want: CategoryUnknown},
		{in: "", want: CategoryUnknown},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Fatalf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
