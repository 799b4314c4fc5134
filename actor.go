package troupe

import (
	"fmt"
	"sync/atomic"
)

// actor is the untyped runtime record backing every Id[S] (spec.md §3
// "Actor<S,M>"). Exactly one task is bound to it between registration and
// mailbox close (invariant 2); state is read/written only by that task
// (invariant 1), enforced by comparing boundTask against the task token
// stamped into every Scene built for this actor.
type actor struct {
	id     ID
	minder ID
	state  any
	box    *mailbox
	stage  *Stage
	env    Environment

	boundTask uint64 // 0 == unbound
}

var taskSeq uint64

// newTaskToken mints a token identifying "the task currently running" an
// actor, standing in for an OS thread/goroutine identity (spec.md §9
// "Task ownership assertion").
func newTaskToken() uint64 { return atomic.AddUint64(&taskSeq, 1) }

// bind claims the actor for a freshly minted task, panicking if it was
// already bound — invariant 2 is a contract, not a debug aid.
func (a *actor) bind() uint64 {
	tok := newTaskToken()
	if !atomic.CompareAndSwapUint64(&a.boundTask, 0, tok) {
		panic(fmt.Sprintf("troupe: actor %d is already bound to a task", a.id))
	}
	return tok
}

func (a *actor) boundTo(task uint64) bool {
	return atomic.LoadUint64(&a.boundTask) == task
}

// assembler builds an actor record plus the closure that will run its
// dispatcher once forked onto a new goroutine. Producing it is the only
// place S needs to be known; from here on the Stage only ever juggles the
// untyped *actor and the start func (spec.md §4.5 "scheduler glue").
type assembler func(id, minder ID, stg *Stage, env Environment) (*actor, func())

// assembleFor is the one place that wires a typed Handler/Lifecycle pair
// into an untyped assembler, shared by Enter, Cast (the Play),
// EnterTroupe/Enlist, and the Stage's own bootstrap of Logger/PassiveMinder.
// Delegate's Stooge goes through assembleOnceFor instead.
func assembleFor[S any](state S, hear Handler[S], life Lifecycle[S], capacity int) assembler {
	return func(id, minder ID, stg *Stage, env Environment) (*actor, func()) {
		a := &actor{
			id:     id,
			minder: minder,
			state:  state,
			stage:  stg,
			env:    env,
			box:    newMailbox(capacity),
		}
		start := func() {
			task := a.bind()
			scene := &Scene[S]{c: &sceneCore{self: a, stage: stg, task: task}}
			run(a, scene, hear, life)
		}
		return a, start
	}
}

// assembleOnceFor is assembleFor's counterpart for one-shot actors (spec.md
// §4.8 "Stooge"): instead of a Handler/Lifecycle pair driving a receive
// loop, action runs exactly once via runOnce.
func assembleOnceFor[S any](state S, action func(scene *Scene[S]), capacity int) assembler {
	return func(id, minder ID, stg *Stage, env Environment) (*actor, func()) {
		a := &actor{
			id:     id,
			minder: minder,
			state:  state,
			stage:  stg,
			env:    env,
			box:    newMailbox(capacity),
		}
		start := func() {
			task := a.bind()
			scene := &Scene[S]{c: &sceneCore{self: a, stage: stg, task: task}}
			runOnce(a, scene, action)
		}
		return a, start
	}
}
