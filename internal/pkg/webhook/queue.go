package webhook

import "sync"

// PayloadQueue is a FIFO buffer of verified payloads. Multiple in-flight
// requests may enqueue concurrently; dequeue hands each payload to exactly
// one drainer. Enqueue never blocks and is bounded only by memory.
type PayloadQueue struct {
	mu    sync.Mutex
	items []*Payload
}

// NewPayloadQueue creates an empty payload queue.
func NewPayloadQueue() *PayloadQueue {
	return &PayloadQueue{}
}

// Enqueue appends a payload to the tail. Relative order between racing
// enqueues is the order in which the calls complete.
func (q *PayloadQueue) Enqueue(p *Payload) {
	if p == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, p)
	q.mu.Unlock()
}

// Dequeue removes and returns the head payload. The second return is false
// when the queue is empty.
func (q *PayloadQueue) Dequeue() (*Payload, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Len reports the number of buffered payloads.
func (q *PayloadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
