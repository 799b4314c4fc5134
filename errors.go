package troupe

import "errors"

// Error kinds from spec.md §7. Callers compare with errors.Is.
var (
	// ErrRemote is returned by Say when the target Id has no local
	// binding: "remote; use broadcast" (spec.md §4.1, §7 kind 2).
	ErrRemote = errors.New("troupe: remote actor; route through a Troupe/Shout instead")

	// ErrClosed is returned when enqueueing into an already-closed
	// mailbox outside of shutdown (spec.md §7 kind 3).
	ErrClosed = errors.New("troupe: mailbox closed")

	// ErrUnbound is returned when a numeric ID no longer resolves to a
	// live local actor (it left, died, or was never local).
	ErrUnbound = errors.New("troupe: no local actor bound to that id")

	// ErrSelfAsk is returned by Ask when the caller asks itself
	// (spec.md §4.6 step 1, P6).
	ErrSelfAsk = errors.New("troupe: self-ask deadlock")

	// ErrNoMatch is returned by Ask when the mailbox closes before a
	// reply of the expected shape arrives (spec.md §4.6 step 4).
	ErrNoMatch = errors.New("troupe: mailbox closed before a matching reply arrived")
)
