package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// NoPayloadPlaceholder is shown by the diagnostic view before the first
// verified delivery arrives.
const NoPayloadPlaceholder = "No webhook received yet."

// Service ties the pipeline together: signature verification, the payload
// queue, synchronous draining through the dispatcher, and the last-payload
// diagnostic slot. All state is owned here and reached through the handle,
// not through package globals.
type Service struct {
	signingKey string
	queue      *PayloadQueue
	dispatcher *Dispatcher

	mu          sync.RWMutex
	lastPayload []byte
}

func NewService(signingKey string, dispatcher *Dispatcher) *Service {
	return &Service{
		signingKey: signingKey,
		queue:      NewPayloadQueue(),
		dispatcher: dispatcher,
	}
}

// Verify authenticates the raw body bytes against the claimed signature.
func (s *Service) Verify(rawBody []byte, signature string) bool {
	return VerifySignature(rawBody, signature, s.signingKey)
}

// Receive ingests one verified delivery: it overwrites the diagnostic slot,
// parses the body, enqueues the payload and synchronously drains the queue.
// The returned error is only ever a parse failure; processing failures of
// individual events are isolated inside the dispatcher.
func (s *Service) Receive(ctx context.Context, rawBody []byte) error {
	s.setLastPayload(rawBody)

	payload, err := ParsePayload(rawBody)
	if err != nil {
		return err
	}

	s.queue.Enqueue(payload)
	s.Drain(ctx)
	return nil
}

// Drain processes queued payloads until the queue is empty. Each payload's
// events run to completion before the next payload is dequeued. Concurrent
// drains are safe: every dequeue is exclusive per payload.
func (s *Service) Drain(ctx context.Context) {
	for {
		payload, ok := s.queue.Dequeue()
		if !ok {
			return
		}
		s.dispatcher.DispatchPayload(ctx, payload)
	}
}

// Queue exposes the payload queue for inspection.
func (s *Service) Queue() *PayloadQueue {
	return s.queue
}

// LastPayload returns the raw bytes of the most recent verified delivery.
func (s *Service) LastPayload() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPayload == nil {
		return nil, false
	}
	return s.lastPayload, true
}

// LastPayloadPretty returns the last verified payload re-indented for
// operator inspection, or the placeholder when none was received yet.
func (s *Service) LastPayloadPretty() string {
	raw, ok := s.LastPayload()
	if !ok {
		return NoPayloadPlaceholder
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Verified but not valid JSON; show it verbatim.
		return string(raw)
	}
	return pretty.String()
}

func (s *Service) setLastPayload(rawBody []byte) {
	s.mu.Lock()
	s.lastPayload = append([]byte(nil), rawBody...)
	s.mu.Unlock()
}
