package troupe

import "fmt"

// ID is the Stage-assigned numeric identifier described in spec.md §3.
// The Stage itself always carries ID 0; every other actor gets a value
// assigned monotonically by the Stage (spec.md invariant 5).
type ID uint64

const stageNumericID ID = 0

// None is used as the state shape for actors that keep no user-visible
// state of their own (the Logger, the PassiveMinder, and the Stage).
type None struct{}

// Id is a typed handle to an actor whose state has shape S. Two Ids are
// equal iff their numeric identifiers are equal (spec.md §3). The message
// shape "M" from spec.md's Id<S,M> is realized as interface{}, dispatched
// by type switch inside each actor's Handler — see SPEC_FULL.md §3 for why a
// second compile-time type parameter was dropped in favor of that.
//
// An Id whose local binding is absent denotes a remote actor (spec.md
// §3): reading its state, or Say-ing to it directly, fails.
type Id[S any] struct {
	ID     ID
	remote bool
	core   *actor
}

// Remote constructs a handle to an actor outside this process. Remote
// handles compare by numeric id like any other, but Say always fails
// against them (spec.md §4.1, §7 "remote-send violations").
func Remote[S any](numeric uint64) Id[S] {
	return Id[S]{ID: ID(numeric), remote: true}
}

// Equal reports whether two handles name the same actor.
func (id Id[S]) Equal(other Id[S]) bool { return id.ID == other.ID }

// IsRemote reports whether id has no local binding.
func (id Id[S]) IsRemote() bool { return id.remote || id.core == nil }

func (id Id[S]) String() string {
	if id.IsRemote() {
		return fmt.Sprintf("remote#%d", id.ID)
	}
	return fmt.Sprintf("actor#%d", id.ID)
}
