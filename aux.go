package troupe

// StoogeState is the one-shot closure worker of spec.md §4.8 "Stooge":
// its whole state is the action to run and the arguments to run it with.
// A Stooge never enters a receive loop; as soon as its task starts it runs
// action once and the Stooge leaves on its own.
type StoogeState struct {
	action func(scene *Scene[StoogeState], args ...any)
	args   []any
}

func stoogeAct(scene *Scene[StoogeState]) {
	st := My(scene)
	st.action(scene, st.args...)
}

func buildStooge(action func(scene *Scene[StoogeState], args ...any), args []any, capacity int) assembler {
	return assembleOnceFor(StoogeState{action: action, args: args}, stoogeAct, capacity)
}

// Delegate asks the Stage to spawn a Stooge minded by the delegating
// actor, which runs action(stoogeScene, args…) exactly once and then
// leaves (spec.md §6 "delegate(action, scene, args…)"). End-to-end
// scenario 5 delegates a Stooge whose action asks the Stage itself to
// leave, bringing the whole system down from inside a one-shot closure.
func Delegate[S any](action func(scene *Scene[StoogeState], args ...any), scene *Scene[S], args ...any) (Id[StoogeState], error) {
	stg := scene.Stage()
	a, err := stg.register(scene.Me(), buildStooge(action, args, DefaultCapacity))
	if err != nil {
		return Id[StoogeState]{}, err
	}
	return Id[StoogeState]{ID: a.id, core: a}, nil
}

// addMember is a Troupe-internal message; Enlist sends it right after
// spawning so the new member is enrolled before anything can Shout at it.
type addMember struct {
	id ID
}

// TroupeState is the fan-out group described in spec.md §4.8: every
// member is minded by the Troupe, so a crashing or departing member is
// removed from the roster automatically, the same way PassiveMinder
// handles an ordinary actor.
type TroupeState struct {
	Members []ID
}

func troupeHear(scene *Scene[TroupeState], msg any) {
	switch m := msg.(type) {
	case addMember:
		st := My(scene)
		st.Members = append(st.Members, m.id)
		SetMy(scene, st)
	case Shout:
		st := My(scene)
		for _, id := range st.Members {
			scene.Say(id, m.Msg)
		}
	case Died:
		st := My(scene)
		st.Members = removeID(st.Members, m.Who)
		SetMy(scene, st)
		scene.Say(scene.Env().Logger, LogDied{Died: m})
	case Left:
		st := My(scene)
		st.Members = removeID(st.Members, m.Who)
		SetMy(scene, st)
	}
}

func removeID(ids []ID, target ID) []ID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// EnterTroupe spawns an empty Troupe minded by minder. Members are added
// with Enlist, never directly.
func EnterTroupe(stg *Stage, minder ID) (Id[TroupeState], error) {
	return enterCap(stg, minder, TroupeState{}, troupeHear, Lifecycle[TroupeState]{}, DefaultCapacity)
}

// Enlist spawns an actor minded by troupe and enrolls it as a member, so a
// subsequent Shout at the Troupe reaches it too (spec.md §4.8 "Troupe").
// This is a Troupe-roster operation, distinct from Delegate's one-shot
// Stooge spawn above: the member Enlist spawns keeps running its own
// receive loop like any other ordinary actor.
func Enlist[S any](stg *Stage, troupe Id[TroupeState], state S, hear Handler[S], life Lifecycle[S]) (Id[S], error) {
	id, err := enterCap(stg, troupe.ID, state, hear, life, DefaultCapacity)
	if err != nil {
		return id, err
	}
	if err := SayID(stg, troupe.ID, addMember{id: id.ID}); err != nil {
		return id, err
	}
	return id, nil
}
