package troupe

import (
	"fmt"
	"runtime/debug"
)

// Handler is the per-message callback spec.md §3 calls "behaviour": given
// the actor's Scene and one message, react, optionally via My/SetMy.
type Handler[S any] func(scene *Scene[S], msg any)

// Lifecycle holds the optional hooks run once around an actor's message
// loop (spec.md §4.3): Prologue before the first take, Epilogue after the
// loop ends normally, and DieingBreath if the loop ends via panic. Any of
// the three may be nil.
type Lifecycle[S any] struct {
	Prologue     func(scene *Scene[S])
	Epilogue     func(scene *Scene[S])
	DieingBreath func(scene *Scene[S], reason any)
}

// run is the dispatcher shared by every ordinary actor (the Stage has its
// own, since its shutdown handling is special-cased — spec.md §4.3 step
// 2). It runs Prologue, then takes messages until the mailbox closes,
// reports Left! to the minder on a clean exit or Died! on a recovered
// panic, and never re-panics: doing so inside a bare goroutine would take
// the whole process down, which the teacher's own panic handling never
// does either.
func run[S any](a *actor, scene *Scene[S], hear Handler[S], life Lifecycle[S]) {
	var diedFrom any
	func() {
		defer func() {
			if r := recover(); r != nil {
				diedFrom = r
				if life.DieingBreath != nil {
					func() {
						defer func() { recover() }()
						life.DieingBreath(scene, r)
					}()
				}
			}
		}()

		if life.Prologue != nil {
			life.Prologue(scene)
		}
		for {
			e, ok := a.box.take()
			if !ok {
				return
			}
			if _, leaving := e.msg.(leave); leaving {
				return
			}
			scene.c.lastFrom, scene.c.lastHasFrom = e.from, e.hasFrom
			hear(scene, e.msg)
		}
	}()

	a.box.close()

	if diedFrom != nil {
		reportDeath(a, scene, diedFrom)
		return
	}
	if life.Epilogue != nil {
		func() {
			defer func() { recover() }()
			life.Epilogue(scene)
		}()
	}
	reportDeparture(a, scene)
}

// runOnce is the dispatcher for one-shot actors like Stooge (spec.md §4.8
// "Entered!{Stooge}: invokes action(scene, args…) once and exits"): there
// is no receive loop and no Lifecycle hooks, just a single call to action
// followed by the same Left!/Died! reporting run uses.
func runOnce[S any](a *actor, scene *Scene[S], action func(scene *Scene[S])) {
	var diedFrom any
	func() {
		defer func() {
			if r := recover(); r != nil {
				diedFrom = r
			}
		}()
		action(scene)
	}()

	a.box.close()

	if diedFrom != nil {
		reportDeath(a, scene, diedFrom)
		return
	}
	reportDeparture(a, scene)
}

func reportDeath(a *actor, scene Scener, reason any) {
	trace := string(debug.Stack())
	a.stage.notifyMinder(a.minder, Died{Who: a.id, Reason: fmt.Sprintf("%v", reason), Stack: trace})
	a.stage.removeChild(a.id)
}

func reportDeparture(a *actor, scene Scener) {
	a.stage.notifyMinder(a.minder, Left{Who: a.id})
	a.stage.removeChild(a.id)
}
