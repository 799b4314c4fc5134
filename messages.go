package troupe

// leave is sent to ask an actor to stop after it finishes any message
// already ahead of it in its own mailbox (spec.md §4.7 "graceful exit").
// An actor never needs to match on it directly; the dispatcher intercepts
// it before calling Handler. This is the Stage-driven half of leave!; the
// exported, self-service half for an ordinary actor is Leave(scene), which
// closes the actor's own mailbox directly instead of routing a message
// through it (spec.md §6 "leave!(scene)").
type leave struct{}

// Genesis is the first message ever delivered, sent by the Stage to Play
// once bootstrap (Logger, PassiveMinder) has completed (spec.md §4.4).
type Genesis struct{}

// Left reports that an actor's message loop ended without a panic
// (spec.md §4.3 step 4, §6 "Left!").
type Left struct {
	Who ID
}

// Died reports that an actor's message loop ended via a recovered panic
// (spec.md §4.3 step 5, §6 "Died!"). Stack is included for the Logger's
// benefit; PassiveMinder ignores it.
type Died struct {
	Who    ID
	Reason string
	Stack  string
}

// LogDied is what a minder (the PassiveMinder, or a Troupe for its
// members) sends the Logger for a Died! it received. The PassiveMinder
// then also forwards the Died! itself to the Stage.
type LogDied struct {
	Died Died
}

// Shout asks a Troupe to forward Msg to every member currently enrolled
// (spec.md §4.8 "Troupe"); members receive Msg itself, not the Shout.
type Shout struct {
	Msg any
}

// Echo is a generic reply wrapper for request/response-style actors (for
// example an ask demo's echo responder): it carries whatever it was asked
// back to whoever asked.
type Echo struct {
	Msg any
}
