package troupe

import "fmt"

// sceneCore is the untyped half of a Scene, carrying the task token that
// assertOwner checks against (spec.md invariant 1). It is shared by every
// generic Scene[S] built for the same dispatch of the same actor.
type sceneCore struct {
	self  *actor
	stage *Stage
	task  uint64

	// lastFrom/lastHasFrom name the sender of the message currently being
	// handled, set by run[S] before each Handler call. Only the owning
	// task ever reads or writes them.
	lastFrom    ID
	lastHasFrom bool
}

func (c *sceneCore) assertOwner() {
	if !c.self.boundTo(c.task) {
		panic(fmt.Sprintf("troupe: actor %d accessed from a task that does not own it", c.self.id))
	}
}

// Scener is the state-shape-erased view of a Scene[S], which every
// *Scene[S] satisfies, so code that does not know S (the Left!/Died!
// reporting in dispatcher.go) can hold a Scene. Handler/Lifecycle
// callbacks receive the typed *Scene[S], on which My/SetMy work
// (spec.md §4.2 "Scene").
type Scener interface {
	Me() ID
	StageID() ID
	Env() Environment
	Minder() ID
}

// Scene is the capability handed to an actor's Handler/Lifecycle while it
// runs: it names the actor (Me), can read/replace its own state (My/SetMy),
// reach its minder, and reach the Environment captured at Genesis (spec.md
// §4.2). A Scene is only valid for the duration of the callback it was
// passed to — retaining one past that and calling it from another
// goroutine violates invariant 1 and panics.
type Scene[S any] struct {
	c *sceneCore
}

func (s *Scene[S]) Me() ID            { return s.c.self.id }
func (s *Scene[S]) StageID() ID       { return stageNumericID }
func (s *Scene[S]) Env() Environment  { return s.c.self.env }

// Minder returns the numeric id of this actor's supervisor.
func (s *Scene[S]) Minder() ID { return s.c.self.minder }

// SetMinder reparents the actor: its eventual Left!/Died! report goes to
// id instead of the minder it was entered with.
func (s *Scene[S]) SetMinder(id ID) {
	s.c.assertOwner()
	s.c.self.minder = id
}

// Stage returns the Stage this actor is registered with, so a Handler
// can Enter children or Cast further actors of its own.
func (s *Scene[S]) Stage() *Stage { return s.c.stage }

// Say sends msg to target, stamping this actor as the sender so target
// can Ask back. Unlike the package-level Say, it works with bare numeric
// ids since a Handler rarely has a typed Id for whoever it is replying to.
func (s *Scene[S]) Say(target ID, msg any) error {
	return s.c.stage.sayToID(target, s.c.self.id, true, msg)
}

// Sender returns who sent the message currently being handled, if known;
// not every Say carries one (spec.md §3 "from is best-effort").
func (s *Scene[S]) Sender() (ID, bool) {
	return s.c.lastFrom, s.c.lastHasFrom
}

// My returns the actor's current state. Calling it from outside the task
// that owns the actor panics (spec.md invariant 1).
func My[S any](s *Scene[S]) S {
	s.c.assertOwner()
	return s.c.self.state.(S)
}

// SetMy replaces the actor's state, the only sanctioned way a Handler may
// mutate what My subsequently returns.
func SetMy[S any](s *Scene[S], next S) {
	s.c.assertOwner()
	s.c.self.state = next
}

// Leave requests the calling actor's own graceful exit: the non-Stage half
// of spec.md §6's leave!(scene) ("request graceful exit of the subject").
// It closes the actor's own mailbox directly rather than sending a message
// through it; the dispatcher notices end-of-stream on its next take and
// winds down through the ordinary Epilogue/Left! path, the same as if
// someone else had asked it to leave.
func Leave[S any](scene *Scene[S]) {
	scene.c.assertOwner()
	scene.c.self.box.close()
}
