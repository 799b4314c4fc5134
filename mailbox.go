package troupe

import (
	"context"
	"sync"
)

// DefaultCapacity is the bounded mailbox size spec.md fixes as the default
// backpressure policy (spec.md §5 "Backpressure"): senders to a full
// mailbox block until space is available or the mailbox closes.
const DefaultCapacity = 420

// envelope pairs a message with the numeric id of its sender, when known.
type envelope struct {
	from    ID
	hasFrom bool
	msg     any
}

// takeStatus distinguishes an ordinary delivery from the two ways a take
// can fail to deliver one: the mailbox drained-and-closed, or the caller's
// context was cancelled first.
type takeStatus int

const (
	takeOK takeStatus = iota
	takeClosed
	takeCancelled
)

// mailbox is the bounded FIFO described in spec.md §3/§4.1: blocking put
// (backpressure when full), blocking take, and an idempotent, observable
// close. Only the owning task ever calls take, takeCtx or pushFront.
type mailbox struct {
	ch chan envelope

	mu     sync.RWMutex
	closed bool

	// front holds messages an Ask scan took off ch but didn't match; they
	// must be replayed ahead of anything still sitting in ch (spec.md
	// §4.6 step 4). Touched only by the owning task.
	front []envelope
}

func newMailbox(capacity int) *mailbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &mailbox{ch: make(chan envelope, capacity)}
}

// put enqueues e, blocking while the mailbox is full. It fails with
// ErrClosed if the mailbox has already been closed (spec.md §4.1).
func (m *mailbox) put(e envelope) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	m.ch <- e
	return nil
}

func (m *mailbox) popFront() (envelope, bool) {
	if len(m.front) == 0 {
		return envelope{}, false
	}
	e := m.front[0]
	m.front = m.front[1:]
	return e, true
}

// take blocks for the next message in FIFO order. ok is false once the
// mailbox has been closed and fully drained (spec.md §3 Mailbox: "Close is
// observable: takers see end-of-stream").
func (m *mailbox) take() (envelope, bool) {
	if e, ok := m.popFront(); ok {
		return e, true
	}
	e, ok := <-m.ch
	return e, ok
}

// takeCtx is take, but also unblocks when ctx is done — the optional ask
// deadline resolution for spec.md §9's open question about Ask starvation.
func (m *mailbox) takeCtx(ctx context.Context) (envelope, takeStatus) {
	if e, ok := m.popFront(); ok {
		return e, takeOK
	}
	select {
	case e, ok := <-m.ch:
		if !ok {
			return envelope{}, takeClosed
		}
		return e, takeOK
	case <-ctx.Done():
		return envelope{}, takeCancelled
	}
}

// pushFront re-queues messages an Ask scan took without a match, in their
// original relative order, ahead of anything already waiting in ch — the
// "mailbox contents equal what they would have been" guarantee (P3).
func (m *mailbox) pushFront(envs []envelope) {
	if len(envs) == 0 {
		return
	}
	m.front = append(envs, m.front...)
}

// close is idempotent and unblocks any pending taker with end-of-stream.
func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.ch)
}

func (m *mailbox) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
